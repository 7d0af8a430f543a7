// Command consumer runs the standing queue workers that apply dispatched
// user commands to the store. One worker is bound to each command queue.
package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/identity-platform/user-directory/internal/core/service"
	mongodb "github.com/identity-platform/user-directory/internal/infrastructure/db/mongo"
	redisdb "github.com/identity-platform/user-directory/internal/infrastructure/db/redis"
	"github.com/identity-platform/user-directory/internal/infrastructure/queue"
	"github.com/identity-platform/user-directory/internal/pkg/config"
	"github.com/identity-platform/user-directory/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	userService := service.NewUserService(userRepo, log)
	dedup := redisdb.NewDedupChecker(rdb)

	streams := []string{cfg.Queues.Create, cfg.Queues.Update, cfg.Queues.Delete}
	var wg sync.WaitGroup
	for i, stream := range streams {
		consumer := queue.NewConsumer(rdb, userService, dedup, log, queue.ConsumerOptions{
			Stream:       stream,
			DeadLetter:   cfg.Queues.DeadLetter,
			Group:        cfg.Consumer.Group,
			ConsumerID:   fmt.Sprintf("%s-%d", cfg.Consumer.Name, i),
			BlockTimeout: cfg.Consumer.BlockTimeout,
			ClaimIdle:    cfg.Consumer.ClaimIdle,
		})

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("consumer exited")
				stop()
			}
		}()
	}

	log.Info().Strs("streams", streams).Msg("consumer started")

	<-ctx.Done()
	wg.Wait()
	log.Info().Msg("consumer stopped")
}

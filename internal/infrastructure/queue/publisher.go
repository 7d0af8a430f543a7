// Package queue implements the broker transport over Redis Streams. Each
// logical queue is one stream; consumer groups provide at-least-once
// delivery with explicit acknowledgment.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/identity-platform/user-directory/internal/api/metrics"
	"github.com/identity-platform/user-directory/internal/core/domain"
)

const (
	// maxStreamLen caps each stream (approximate trim on XADD).
	maxStreamLen = 100000

	publishTimeout = 5 * time.Second
)

// Publisher places command envelopes on Redis streams. Publish returns only
// after the broker acknowledges the append.
type Publisher struct {
	rdb *redis.Client
	log zerolog.Logger
}

func NewPublisher(rdb *redis.Client, log zerolog.Logger) *Publisher {
	return &Publisher{rdb: rdb, log: log}
}

// Publish appends the envelope to the stream backing the named queue.
func (p *Publisher) Publish(ctx context.Context, queue string, env domain.CommandEnvelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	id, err := p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: queue,
		MaxLen: maxStreamLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{"payload": string(data)},
	}).Result()
	if err != nil {
		metrics.PublishErrorsTotal.WithLabelValues(string(env.Kind)).Inc()
		return fmt.Errorf("xadd %s: %w", queue, err)
	}

	metrics.CommandsPublishedTotal.WithLabelValues(string(env.Kind)).Inc()
	p.log.Debug().
		Str("queue", queue).
		Str("message_id", id).
		Str("idempotency_key", env.IdempotencyKey).
		Msg("envelope published")

	return nil
}

package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/identity-platform/user-directory/internal/api/metrics"
	"github.com/identity-platform/user-directory/internal/core/domain"
	"github.com/identity-platform/user-directory/internal/core/ports"
)

const (
	defaultBlockTimeout = 5 * time.Second
	defaultClaimIdle    = 30 * time.Second
	claimInterval       = 10 * time.Second
	readCount           = 16
	dlqMaxLen           = 10000
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsApplied(ctx context.Context, key string) (bool, error)
	MarkApplied(ctx context.Context, key string) error
}

// ConsumerOptions configures a single queue consumer.
type ConsumerOptions struct {
	Stream       string
	DeadLetter   string
	Group        string
	ConsumerID   string
	BlockTimeout time.Duration
	ClaimIdle    time.Duration
}

// Consumer is a standing worker bound to one queue. Deliveries are applied
// to the store and acknowledged; unacknowledged deliveries are reclaimed
// after ClaimIdle, giving at-least-once semantics. Poison deliveries go to
// the dead-letter stream and are acknowledged so they stop recirculating.
type Consumer struct {
	rdb     *redis.Client
	service ports.UserService
	dedup   DedupChecker
	log     zerolog.Logger
	opts    ConsumerOptions

	claimStartID string
	lastClaim    time.Time
}

func NewConsumer(rdb *redis.Client, service ports.UserService, dedup DedupChecker, log zerolog.Logger, opts ConsumerOptions) *Consumer {
	if opts.BlockTimeout <= 0 {
		opts.BlockTimeout = defaultBlockTimeout
	}
	if opts.ClaimIdle <= 0 {
		opts.ClaimIdle = defaultClaimIdle
	}
	return &Consumer{
		rdb:          rdb,
		service:      service,
		dedup:        dedup,
		log:          log.With().Str("stream", opts.Stream).Str("consumer", opts.ConsumerID).Logger(),
		opts:         opts,
		claimStartID: "0-0",
	}
}

// Run starts the consume loop and blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		return fmt.Errorf("ensure consumer group: %w", err)
	}

	c.log.Info().Msg("consumer started")

	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("consumer stopping")
			return ctx.Err()
		default:
			if err := c.processOnce(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				c.log.Error().Err(err).Msg("process error")
				time.Sleep(time.Second)
			}
		}
	}
}

func (c *Consumer) ensureGroup(ctx context.Context) error {
	err := c.rdb.XGroupCreateMkStream(ctx, c.opts.Stream, c.opts.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) processOnce(ctx context.Context) error {
	messages, err := c.maybeClaimPending(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to claim pending deliveries")
	}

	if len(messages) == 0 {
		messages, err = c.readBatch(ctx)
		if err != nil {
			return err
		}
	}

	for _, msg := range messages {
		c.handleDelivery(ctx, msg)
	}
	return nil
}

func (c *Consumer) readBatch(ctx context.Context) ([]redis.XMessage, error) {
	streams, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.opts.Group,
		Consumer: c.opts.ConsumerID,
		Streams:  []string{c.opts.Stream, ">"},
		Count:    readCount,
		Block:    c.opts.BlockTimeout,
	}).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("xreadgroup: %w", err)
	}
	if len(streams) == 0 {
		return nil, nil
	}
	return streams[0].Messages, nil
}

// maybeClaimPending reclaims deliveries another consumer took but never
// acknowledged (crash or timeout). Runs at most once per claimInterval.
func (c *Consumer) maybeClaimPending(ctx context.Context) ([]redis.XMessage, error) {
	if !c.lastClaim.IsZero() && time.Since(c.lastClaim) < claimInterval {
		return nil, nil
	}
	c.lastClaim = time.Now()

	messages, start, err := c.rdb.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   c.opts.Stream,
		Group:    c.opts.Group,
		Consumer: c.opts.ConsumerID,
		MinIdle:  c.opts.ClaimIdle,
		Start:    c.claimStartID,
		Count:    readCount,
	}).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("xautoclaim: %w", err)
	}
	if start != "" {
		c.claimStartID = start
	}
	return messages, nil
}

// action is what handleDelivery does with a message once its payload has
// been processed.
type action int

const (
	actionAck        action = iota // applied or safely skipped
	actionDeadLetter               // poison, park it and ack
	actionRetry                    // transient failure, leave pending for reclaim
)

// outcome is the disposition of one delivery; reason and detail accompany
// dead letters.
type outcome struct {
	action action
	reason string
	detail string
}

// handleDelivery runs one delivery end to end: stream plumbing here, the
// decision in process. A transient apply failure leaves the message pending
// so it is redelivered; everything else ends with an acknowledgment.
func (c *Consumer) handleDelivery(ctx context.Context, msg redis.XMessage) {
	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.deadLetter(ctx, msg, "invalid_format", "payload field missing or not a string")
		c.ack(ctx, msg.ID)
		return
	}

	switch out := c.process(ctx, payload); out.action {
	case actionDeadLetter:
		c.deadLetter(ctx, msg, out.reason, out.detail)
		c.ack(ctx, msg.ID)
	case actionRetry:
		c.log.Debug().Str("message_id", msg.ID).Msg("delivery left pending")
	default:
		c.ack(ctx, msg.ID)
	}
}

// process decodes one payload and applies it. Duplicate deliveries are
// skipped via the idempotency key. Poison payloads, including those the
// store can never apply, are marked for the dead-letter stream. Any other
// failure is left for redelivery.
func (c *Consumer) process(ctx context.Context, payload string) outcome {
	var env domain.CommandEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return outcome{action: actionDeadLetter, reason: "unmarshal_error", detail: err.Error()}
	}
	if err := env.Validate(); err != nil {
		return outcome{action: actionDeadLetter, reason: "invalid_envelope", detail: err.Error()}
	}

	applied, err := c.dedup.IsApplied(ctx, env.IdempotencyKey)
	if err != nil {
		c.log.Warn().Err(err).Str("idempotency_key", env.IdempotencyKey).Msg("dedup check failed, applying anyway")
	} else if applied {
		metrics.CommandsDedupTotal.WithLabelValues("hit").Inc()
		c.log.Debug().Str("idempotency_key", env.IdempotencyKey).Msg("duplicate delivery skipped")
		return outcome{action: actionAck}
	}
	metrics.CommandsDedupTotal.WithLabelValues("miss").Inc()

	start := time.Now()
	if err := c.apply(ctx, env); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return outcome{action: actionDeadLetter, reason: "user_not_found", detail: err.Error()}
		case errors.Is(err, domain.ErrEmailTaken):
			return outcome{action: actionDeadLetter, reason: "email_taken", detail: err.Error()}
		default:
			c.log.Error().Err(err).Str("kind", string(env.Kind)).Msg("apply failed")
			return outcome{action: actionRetry}
		}
	}

	metrics.CommandsAppliedTotal.WithLabelValues(string(env.Kind)).Inc()
	metrics.ApplyDuration.WithLabelValues(string(env.Kind)).Observe(time.Since(start).Seconds())

	if err := c.dedup.MarkApplied(ctx, env.IdempotencyKey); err != nil {
		c.log.Warn().Err(err).Str("idempotency_key", env.IdempotencyKey).Msg("failed to set dedup key")
	}

	c.log.Info().
		Str("kind", string(env.Kind)).
		Dur("took", time.Since(start)).
		Msg("command applied")

	return outcome{action: actionAck}
}

func (c *Consumer) apply(ctx context.Context, env domain.CommandEnvelope) error {
	switch env.Kind {
	case domain.KindCreateUser:
		return c.service.ApplyCreate(ctx, *env.Create)
	case domain.KindUpdateUser:
		return c.service.ApplyUpdate(ctx, *env.Update)
	case domain.KindDeleteUser:
		return c.service.ApplyDelete(ctx, *env.Delete)
	default:
		return fmt.Errorf("unknown command kind %q", env.Kind)
	}
}

func (c *Consumer) ack(ctx context.Context, id string) {
	if err := c.rdb.XAck(ctx, c.opts.Stream, c.opts.Group, id).Err(); err != nil {
		c.log.Warn().Err(err).Str("message_id", id).Msg("ack failed")
	}
}

// deadLetter moves a poison delivery to the dead-letter stream with metadata
// describing why it could not be applied.
func (c *Consumer) deadLetter(ctx context.Context, msg redis.XMessage, reason, detail string) {
	metrics.DeadLetterTotal.WithLabelValues(reason).Inc()
	c.log.Warn().
		Str("message_id", msg.ID).
		Str("reason", reason).
		Str("detail", detail).
		Msg("dead-lettering poison delivery")

	err := c.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: c.opts.DeadLetter,
		MaxLen: dlqMaxLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{
			"original_id":      msg.ID,
			"original_stream":  c.opts.Stream,
			"reason":           reason,
			"detail":           detail,
			"payload":          msg.Values["payload"],
			"dead_lettered_at": time.Now().UTC().Format(time.RFC3339),
		},
	}).Err()
	if err != nil {
		c.log.Error().Err(err).Str("message_id", msg.ID).Msg("failed to write to dead-letter stream")
	}
}

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// DedupChecker tracks applied command idempotency keys in Redis so that
// redelivered commands are dropped instead of reapplied.
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsApplied reports whether a command with this idempotency key has already
// been applied.
func (d *DedupChecker) IsApplied(ctx context.Context, key string) (bool, error) {
	n, err := d.client.Exists(ctx, d.redisKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// MarkApplied records the idempotency key of an applied command. Entries
// expire after dedupTTL; redeliveries older than that are not expected from
// the broker.
func (d *DedupChecker) MarkApplied(ctx context.Context, key string) error {
	return d.client.Set(ctx, d.redisKey(key), "1", dedupTTL).Err()
}

func (d *DedupChecker) redisKey(key string) string {
	return fmt.Sprintf("dedup:command:%s", key)
}

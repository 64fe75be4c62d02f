package redis

import (
	"context"
	"time"

	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mopentelemetry"
	"github.com/fernbank/core/common/mredis"
)

// RedisLockRepository is a Redis-backed ports.LockRepository guarding the
// process-wide "NEFT batch in flight" mutex (spec.md §4.3 step 6, §9): only
// one hourly tick, across however many instances are running, may drain the
// QUEUED backlog at a time.
type RedisLockRepository struct {
	connection *mredis.RedisConnection
}

// NewRedisLockRepository returns a new RedisLockRepository.
func NewRedisLockRepository(rc *mredis.RedisConnection) *RedisLockRepository {
	return &RedisLockRepository{connection: rc}
}

// AcquireLock attempts to take key via SETNX, expiring automatically after
// ttl so a crashed holder never wedges the lock permanently.
func (r *RedisLockRepository) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	logger := common.NewLoggerFromContext(ctx)
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "redis.acquire_lock")
	defer span.End()

	rdb, err := r.connection.GetDB(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get redis connection", err)
		return false, err
	}

	acquired, err := rdb.SetNX(ctx, key, time.Now().Format(time.RFC3339), ttl).Result()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to acquire lock", err)
		return false, err
	}

	logger.Infof("lock %s acquired=%v", key, acquired)

	return acquired, nil
}

// ReleaseLock frees key early, letting the next scheduler tick run without
// waiting out the full ttl.
func (r *RedisLockRepository) ReleaseLock(ctx context.Context, key string) error {
	tracer := common.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "redis.release_lock")
	defer span.End()

	rdb, err := r.connection.GetDB(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get redis connection", err)
		return err
	}

	if err := rdb.Del(ctx, key).Err(); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to release lock", err)
		return err
	}

	return nil
}

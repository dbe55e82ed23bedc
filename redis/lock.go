package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("slot lock not acquired")

const slotLockTTL = 10 * time.Second

// WithSlotLock runs fn while holding a per-slot lock, so two concurrent
// booking requests for the same doctor/date/time cannot both pass the
// availability check. The lock key is only deleted by the holder that set it.
func WithSlotLock(ctx context.Context, doctorID uint, date, slot string, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:slot:%d:%s:%s", doctorID, date, slot)
	token := uuid.NewString()

	ok, err := Client.SetNX(ctx, key, token, slotLockTTL).Result()
	if err != nil {
		return fmt.Errorf("acquire slot lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = release(ctx, key, token)
	}()

	lockCtx, cancel := context.WithTimeout(ctx, slotLockTTL)
	defer cancel()

	return fn(lockCtx)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, Client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release slot lock: %w", err)
	}
	return nil
}

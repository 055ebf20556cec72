package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = 30 * time.Second

// releaseScript deletes the key only while it still holds our token, so a
// lock that expired and was re-acquired elsewhere is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CheckoutLock is a short-lived mutual exclusion on a (class, email) pair
// shared by every API replica.
// Key format: checkout:<class_id>:<email>
type CheckoutLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCheckoutLock wraps the given Redis client. The TTL bounds how long a
// crashed holder can block the pair.
func NewCheckoutLock(client *redis.Client, ttl time.Duration) *CheckoutLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &CheckoutLock{client: client, ttl: ttl}
}

// Acquire reports ok=false without error when another holder owns the pair.
func (l *CheckoutLock) Acquire(ctx context.Context, classID, email string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, lockKey(classID, email), token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("checkout lock acquire: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (l *CheckoutLock) Release(ctx context.Context, classID, email, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{lockKey(classID, email)}, token).Err(); err != nil {
		return fmt.Errorf("checkout lock release: %w", err)
	}
	return nil
}

func lockKey(classID, email string) string {
	return fmt.Sprintf("checkout:%s:%s", classID, email)
}

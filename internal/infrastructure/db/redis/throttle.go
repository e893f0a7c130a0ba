package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

// LoginThrottle counts failed logins per email in a fixed window.
// Key format: login:fail:<email>
type LoginThrottle struct {
	client      redis.Cmdable
	maxAttempts int
	window      time.Duration
}

// NewLoginThrottle wraps client. Non-positive limits fall back to the defaults.
func NewLoginThrottle(client redis.Cmdable, maxAttempts int, window time.Duration) *LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginThrottle{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow reports whether another attempt is permitted for email.
func (t *LoginThrottle) Allow(ctx context.Context, email string) (bool, error) {
	n, err := t.client.Get(ctx, key(email)).Int()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n < t.maxAttempts, nil
}

// Fail records one failed attempt. The window starts at the first failure:
// INCR and EXPIRE NX run in one MULTI/EXEC so the counter never exists
// without a TTL.
func (t *LoginThrottle) Fail(ctx context.Context, email string) error {
	k := key(email)
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, t.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("throttle fail: %w", err)
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	if err := t.client.Del(ctx, key(email)).Err(); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}

func key(email string) string {
	return "login:fail:" + email
}

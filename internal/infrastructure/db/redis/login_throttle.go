package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// loginAttemptScript increments the attempt counter and starts the window on
// the first hit. KEYS[1] = counter key, ARGV[1] = window in ms.
var loginAttemptScript = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 or redis.call('PTTL', KEYS[1]) < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return current
`)

// LoginThrottle is a fixed-window attempt counter per login key.
type LoginThrottle struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewLoginThrottle(client *redis.Client, limit int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, limit: limit, window: window}
}

// Hit records one attempt and reports whether it is within the limit.
func (t *LoginThrottle) Hit(ctx context.Context, key string) (bool, error) {
	n, err := loginAttemptScript.Run(ctx, t.client, []string{throttleKey(key)}, t.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("login throttle: %w", err)
	}
	return n <= int64(t.limit), nil
}

func (t *LoginThrottle) Reset(ctx context.Context, key string) error {
	return t.client.Del(ctx, throttleKey(key)).Err()
}

func throttleKey(key string) string {
	return "login_attempts:" + key
}

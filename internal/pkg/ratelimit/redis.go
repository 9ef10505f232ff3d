package ratelimit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// allowScript trims the set to the window and adds the attempt only when
// there is room, atomically.
var allowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
if redis.call('ZCARD', key) >= limit then
	return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`)

// RedisWindow is a SlidingWindow shared by every node through redis.
type RedisWindow struct {
	client redis.Scripter
	prefix string
	window time.Duration
	now    func() time.Time
}

func NewRedisWindow(client redis.Scripter, prefix string, window time.Duration) *RedisWindow {
	return &RedisWindow{
		client: client,
		prefix: prefix,
		window: window,
		now:    time.Now,
	}
}

func (w *RedisWindow) Allow(ctx context.Context, key string, limit int) (bool, error) {
	allowed, err := allowScript.Run(ctx, w.client,
		[]string{w.prefix + key},
		w.now().UnixMilli(),
		w.window.Milliseconds(),
		limit,
		uuid.NewString(),
	).Int()
	if err != nil {
		return false, err
	}
	return allowed == 1, nil
}

// Sweep is a no-op: redis expires idle keys itself.
func (w *RedisWindow) Sweep(context.Context) (int, error) {
	return 0, nil
}

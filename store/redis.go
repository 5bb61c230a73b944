package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrWindowScript increments a windowed counter and arms its expiry on the
// window's first write, in one atomic round trip.
var incrWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// Redis is a Store backed by a shared Redis instance, enabling horizontal
// replication of the gateway.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps an existing client. The prefix namespaces all keys.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "aigw:"
	}
	return &Redis{client: client, prefix: prefix}
}

// Dial connects to Redis by URL and verifies the connection.
func Dial(ctx context.Context, url, password string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("store: parsing redis URL: %w", err)
	}
	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("store: connecting to redis: %w", err)
	}
	return NewRedis(client, ""), nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Ping verifies the connection. Used by health checks.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

// Incr increments key atomically, arming the expiry on the first write.
func (r *Redis) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	res, err := incrWindowScript.Run(ctx, r.client, []string{r.key(key)}, window.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: incr %s: %v", ErrUnavailable, key, err)
	}
	return res, nil
}

// Peek returns the current count without mutating it.
func (r *Redis) Peek(ctx context.Context, key string) (int64, error) {
	res, err := r.client.Get(ctx, r.key(key)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: peek %s: %v", ErrUnavailable, key, err)
	}
	return res, nil
}

// Get retrieves a value. Returns (nil, false, nil) on miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %s: %v", ErrUnavailable, key, err)
	}
	return val, true, nil
}

// Set stores a value with the given TTL. TTL<=0 means no storage.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

// Delete removes a value. Idempotent.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

// Current returns the epoch for name. Never-advanced names read as zero.
func (r *Redis) Current(ctx context.Context, name string) (uint64, error) {
	res, err := r.client.Get(ctx, r.key("epoch:"+name)).Uint64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: epoch %s: %v", ErrUnavailable, name, err)
	}
	return res, nil
}

// Advance increments the epoch for name. Epochs never expire.
func (r *Redis) Advance(ctx context.Context, name string) (uint64, error) {
	res, err := r.client.Incr(ctx, r.key("epoch:"+name)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: advance %s: %v", ErrUnavailable, name, err)
	}
	return uint64(res), nil
}

// Ensure Redis implements Store
var _ Store = (*Redis)(nil)

package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Key patterns:
// - ratelimit:{ip}:submit - public form submissions
// - ratelimit:{ip}:auth - login attempts

type RateLimitConfig struct {
	SubmitLimit  int
	SubmitWindow time.Duration
	AuthLimit    int
	AuthWindow   time.Duration
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		SubmitLimit:  10,
		SubmitWindow: 60 * time.Second,
		AuthLimit:    5,
		AuthWindow:   60 * time.Second,
	}
}

type RateLimiter struct {
	client *goredis.Client
	config RateLimitConfig
}

type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
	Limit     int
}

func NewRateLimiter(client *goredis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
	}
}

// Bucket is one named limit, applied per client IP.
type Bucket struct {
	limiter *RateLimiter
	name    string
	limit   int
	window  time.Duration
}

func (r *RateLimiter) Submissions() *Bucket {
	return &Bucket{limiter: r, name: "submit", limit: r.config.SubmitLimit, window: r.config.SubmitWindow}
}

func (r *RateLimiter) Auth() *Bucket {
	return &Bucket{limiter: r, name: "auth", limit: r.config.AuthLimit, window: r.config.AuthWindow}
}

func (b *Bucket) key(ip string) string {
	return fmt.Sprintf("ratelimit:%s:%s", ip, b.name)
}

func (b *Bucket) Allow(ctx context.Context, ip string) (*RateLimitResult, error) {
	return b.limiter.checkLimit(ctx, b.key(ip), b.limit, b.window)
}

// Reset clears the counter for ip, e.g. after a successful login.
func (b *Bucket) Reset(ctx context.Context, ip string) error {
	return b.limiter.client.Del(ctx, b.key(ip)).Err()
}

// fixed window counter; the first hit in a window sets the expiry
var limitScript = goredis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local current = redis.call('GET', key)
	if current == false then
		current = 0
	else
		current = tonumber(current)
	end

	local ttl = redis.call('TTL', key)
	if ttl < 0 then
		ttl = window
	end

	if current < limit then
		redis.call('INCR', key)
		if ttl == window then
			redis.call('EXPIRE', key, window)
		end
		return {1, limit - current - 1, ttl}
	else
		return {0, 0, ttl}
	end
`)

func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	result, err := limitScript.Run(ctx, r.client, []string{key}, limit, int(window.Seconds())).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}
	return parseLimitResult(result, limit)
}

func parseLimitResult(result any, limit int) (*RateLimitResult, error) {
	values, ok := result.([]interface{})
	if !ok || len(values) < 3 {
		return nil, fmt.Errorf("unexpected rate limit result format")
	}
	nums := make([]int64, 3)
	for i := range nums {
		n, ok := values[i].(int64)
		if !ok {
			return nil, fmt.Errorf("unexpected rate limit value %v", values[i])
		}
		nums[i] = n
	}
	return &RateLimitResult{
		Allowed:   nums[0] == 1,
		Remaining: int(nums[1]),
		ResetIn:   time.Duration(nums[2]) * time.Second,
		Limit:     limit,
	}, nil
}

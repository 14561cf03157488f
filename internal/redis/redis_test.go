package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"socialdesk/internal/domain"

	"github.com/google/uuid"
)

func TestParseLimitResult(t *testing.T) {
	res, err := parseLimitResult([]interface{}{int64(1), int64(4), int64(60)}, 5)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !res.Allowed || res.Remaining != 4 || res.ResetIn != time.Minute || res.Limit != 5 {
		t.Fatalf("unexpected result %+v", res)
	}

	if _, err := parseLimitResult([]interface{}{int64(1)}, 5); err == nil {
		t.Fatal("short result should fail")
	}
	if _, err := parseLimitResult([]interface{}{"1", int64(0), int64(1)}, 5); err == nil {
		t.Fatal("non-integer result should fail")
	}
}

// liveConfig returns a redis config when REDIS_TEST_HOST is set.
func liveConfig(t *testing.T) Config {
	t.Helper()
	host := os.Getenv("REDIS_TEST_HOST")
	if host == "" {
		t.Skip("REDIS_TEST_HOST not set")
	}
	port := os.Getenv("REDIS_TEST_PORT")
	if port == "" {
		port = "6379"
	}
	return Config{Host: host, Port: port}
}

func TestBucketLimitsPerIP(t *testing.T) {
	ctx := context.Background()
	client, err := NewClient(ctx, liveConfig(t))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	limiter := NewRateLimiter(client, RateLimitConfig{AuthLimit: 2, AuthWindow: time.Minute})
	bucket := limiter.Auth()
	ip := "test-" + uuid.NewString()
	defer bucket.Reset(ctx, ip)

	for i := 0; i < 2; i++ {
		res, err := bucket.Allow(ctx, ip)
		if err != nil || !res.Allowed {
			t.Fatalf("attempt %d should pass: %+v %v", i, res, err)
		}
	}
	res, err := bucket.Allow(ctx, ip)
	if err != nil || res.Allowed {
		t.Fatalf("third attempt should be limited: %+v %v", res, err)
	}

	if err := bucket.Reset(ctx, ip); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if res, _ := bucket.Allow(ctx, ip); !res.Allowed {
		t.Fatal("reset should clear the counter")
	}
}

func TestCountsCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, err := NewClient(ctx, liveConfig(t))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	cache := NewCountsCache(client, time.Minute)
	_ = cache.Invalidate(ctx)

	if got, err := cache.Get(ctx); err != nil || got != nil {
		t.Fatalf("expected miss, got %+v %v", got, err)
	}
	want := domain.Counts{Bookings: 3, Blogs: 1}
	if err := cache.Set(ctx, want); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := cache.Get(ctx)
	if err != nil || got == nil || *got != want {
		t.Fatalf("expected %+v, got %+v %v", want, got, err)
	}
	_ = cache.Invalidate(ctx)
}

package middleware

import (
	"context"
	"net/http"
	"strconv"

	"socialdesk/internal/redis"
	"socialdesk/internal/transport/httpdto"
	"socialdesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

const MsgRateLimited = "Too many requests, please try again later"

// Limiter is a per-client request budget, usually a redis.Bucket.
type Limiter interface {
	Allow(ctx context.Context, ip string) (*redis.RateLimitResult, error)
}

// RateLimitMiddleware rejects a client that spent its budget. When the
// limiter itself fails the request is let through and the failure logged.
func RateLimitMiddleware(limiter Limiter, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		result, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			l.WithContext(c.Request.Context()).Warnf("rate limit check failed: %v", err)
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.Header("Retry-After", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httpdto.NewErrorResponse(MsgRateLimited, "RATE_LIMITED"))
			return
		}

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}

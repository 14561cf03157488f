package middleware

import (
	"time"

	"socialdesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

func LoggingMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log := l
		if log == nil {
			log = logger.GetGlobalLogger()
		}
		log = log.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			log.Errorf("%s %s %d %s %s", method, path, status, latency.String(), c.ClientIP())
		case status >= 400:
			log.Warnf("%s %s %d %s %s", method, path, status, latency.String(), c.ClientIP())
		default:
			log.Infof("%s %s %d %s %s", method, path, status, latency.String(), c.ClientIP())
		}
	}
}

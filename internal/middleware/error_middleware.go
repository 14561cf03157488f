package middleware

import (
	"net/http"
	"runtime/debug"

	"socialdesk/internal/transport/httpdto"
	"socialdesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

const msgInternal = "حدث خطأ في الخادم"

// Recovery turns a panic into the generic 500 envelope and logs the stack.
func Recovery(l *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		l.WithContext(c.Request.Context()).Errorf("panic serving %s %s: %v\n%s", c.Request.Method, c.Request.URL.Path, recovered, debug.Stack())
		c.AbortWithStatusJSON(http.StatusInternalServerError, httpdto.NewErrorResponse(msgInternal, "INTERNAL_ERROR"))
	})
}

// ErrorHandler writes the last error attached with c.Error when the handler
// did not write a response itself.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		l.WithContext(c.Request.Context()).Errorf("request error: %s", err.Error())
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(msgInternal, "INTERNAL_ERROR"))
	}
}

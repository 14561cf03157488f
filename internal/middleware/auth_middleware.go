package middleware

import (
	"net/http"
	"strings"

	"socialdesk/internal/services"
	"socialdesk/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

const (
	MsgNoToken          = "No token, authorization denied"
	MsgInvalidTokenForm = "Invalid token format"
)

// AuthMiddleware verifies the bearer token and loads the admin it names. The
// admin is stored in the request context for the handlers.
func AuthMiddleware(service *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, MsgNoToken)
			return
		}
		token, ok := extractBearer(header)
		if !ok {
			abortUnauthorized(c, MsgInvalidTokenForm)
			return
		}

		admin, err := service.Authenticate(c.Request.Context(), token)
		if err != nil {
			if services.HTTPStatus(err) != http.StatusUnauthorized {
				c.AbortWithStatusJSON(services.HTTPStatus(err), httpdto.NewErrorResponse(msgInternal, "INTERNAL_ERROR"))
				return
			}
			abortUnauthorized(c, services.MsgTokenInvalid)
			return
		}

		c.Request = c.Request.WithContext(services.WithAdmin(c.Request.Context(), admin))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, httpdto.NewErrorResponse(message, "UNAUTHORIZED"))
}

func extractBearer(value string) (string, bool) {
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

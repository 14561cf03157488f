package handler

import (
	"net/http"

	"socialdesk/internal/services"
	"socialdesk/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication HTTP endpoints.
type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login handles admin authentication.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(msgInvalidBody, "INVALID_REQUEST"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewMessageResponse(msgLoggedIn, res))
}

// Logout only records the event; tokens stay valid until they expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	admin, ok := services.AdminFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse(services.MsgTokenInvalid, "UNAUTHORIZED"))
		return
	}
	h.service.Logout(c.Request.Context(), admin)
	c.JSON(http.StatusOK, httpdto.NewMessageResponse[any](msgLoggedOut, nil))
}

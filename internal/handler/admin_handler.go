package handler

import (
	"net/http"

	"socialdesk/internal/domain"
	"socialdesk/internal/services"
	"socialdesk/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	service *services.AdminService
}

func NewAdminHandler(service *services.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	admin, _ := services.AdminFromContext(c.Request.Context())
	d, err := h.service.Dashboard(c.Request.Context(), admin)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(d))
}

func (h *AdminHandler) Counts(c *gin.Context) {
	counts, err := h.service.Counts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(counts))
}

func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	admin, _ := services.AdminFromContext(c.Request.Context())
	var req domain.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(msgInvalidBody, "INVALID_REQUEST"))
		return
	}
	updated, err := h.service.UpdateProfile(c.Request.Context(), admin.ID.Hex(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewMessageResponse(msgProfileUpdated, updated))
}

// DestroyMedia deletes one object from the media host by public id.
func (h *AdminHandler) DestroyMedia(c *gin.Context) {
	publicID := c.Query("public_id")
	if err := h.service.DestroyMedia(c.Request.Context(), publicID, c.Query("resource_type")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewMessageResponse(msgMediaDeleted, gin.H{"public_id": publicID}))
}

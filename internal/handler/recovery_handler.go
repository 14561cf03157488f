package handler

import (
	"net/http"

	"socialdesk/internal/domain"
	"socialdesk/internal/services"
	"socialdesk/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type RecoveryHandler struct {
	service  *services.RecoveryService
	notifier Notifier
}

func NewRecoveryHandler(service *services.RecoveryService, n Notifier) *RecoveryHandler {
	return &RecoveryHandler{service: service, notifier: n}
}

func (h *RecoveryHandler) Submit(c *gin.Context) {
	var req domain.RecoveryInput
	parts, err := bindSubmission(c, &req, services.FieldIdentityDocuments)
	if err != nil {
		writeError(c, err)
		return
	}
	rec, err := h.service.Submit(c.Request.Context(), req, parts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewMessageResponse(msgRecoveryCreated, rec))
	h.notifier.RecoveryCreated(c.Request.Context(), rec)
}

func (h *RecoveryHandler) List(c *gin.Context) {
	res, err := h.service.List(c.Request.Context(), pageFrom(c, 0))
	if err != nil {
		writeError(c, err)
		return
	}
	writePage(c, res)
}

func (h *RecoveryHandler) Get(c *gin.Context) {
	rec, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeNotFound(c, err, msgRecoveryNotFound)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(rec))
}

type statusRequest struct {
	Status string `json:"status" form:"status"`
}

func (h *RecoveryHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(msgInvalidBody, "INVALID_REQUEST"))
		return
	}
	rec, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeNotFound(c, err, msgRecoveryNotFound)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewMessageResponse(msgRecoveryStatus, rec))
}

func (h *RecoveryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeNotFound(c, err, msgRecoveryNotFound)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewMessageResponse[any](msgRecoveryDeleted, nil))
}

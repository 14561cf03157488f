package handler

import (
	"net/http"

	"socialdesk/internal/domain"
	"socialdesk/internal/services"
	"socialdesk/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	service *services.FeedbackService
}

func NewFeedbackHandler(service *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req domain.FeedbackInput
	parts, err := bindSubmission(c, &req, services.FieldMedia)
	if err != nil {
		writeError(c, err)
		return
	}
	fb, err := h.service.Submit(c.Request.Context(), req, single(parts))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewMessageResponse(msgFeedbackCreated, fb))
}

func (h *FeedbackHandler) List(c *gin.Context) {
	res, err := h.service.List(c.Request.Context(), pageFrom(c, 0))
	if err != nil {
		writeError(c, err)
		return
	}
	writePage(c, res)
}

func (h *FeedbackHandler) Get(c *gin.Context) {
	fb, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeNotFound(c, err, msgFeedbackNotFound)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(fb))
}

func (h *FeedbackHandler) Update(c *gin.Context) {
	var req domain.FeedbackPatch
	parts, err := bindSubmission(c, &req, services.FieldMedia)
	if err != nil {
		writeError(c, err)
		return
	}
	fb, err := h.service.Update(c.Request.Context(), c.Param("id"), req, single(parts))
	if err != nil {
		writeNotFound(c, err, msgFeedbackNotFound)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewMessageResponse(msgFeedbackUpdated, fb))
}

func (h *FeedbackHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeNotFound(c, err, msgFeedbackNotFound)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewMessageResponse[any](msgFeedbackDeleted, nil))
}

package handler

import (
	"net/http"

	"socialdesk/internal/domain"
	"socialdesk/internal/services"
	"socialdesk/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type BlogHandler struct {
	service *services.BlogService
}

func NewBlogHandler(service *services.BlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

func (h *BlogHandler) Create(c *gin.Context) {
	var req domain.BlogInput
	parts, err := bindSubmission(c, &req, services.FieldImage)
	if err != nil {
		writeError(c, err)
		return
	}
	blog, err := h.service.Create(c.Request.Context(), req, single(parts))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewMessageResponse(msgBlogCreated, blog))
}

func (h *BlogHandler) List(c *gin.Context) {
	res, err := h.service.List(c.Request.Context(), pageFrom(c, 0))
	if err != nil {
		writeError(c, err)
		return
	}
	writePage(c, res)
}

func (h *BlogHandler) Get(c *gin.Context) {
	blog, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeNotFound(c, err, msgBlogNotFound)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(blog))
}

func (h *BlogHandler) Update(c *gin.Context) {
	var req domain.BlogPatch
	parts, err := bindSubmission(c, &req, services.FieldImage)
	if err != nil {
		writeError(c, err)
		return
	}
	blog, err := h.service.Update(c.Request.Context(), c.Param("id"), req, single(parts))
	if err != nil {
		writeNotFound(c, err, msgBlogNotFound)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewMessageResponse(msgBlogUpdated, blog))
}

func (h *BlogHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeNotFound(c, err, msgBlogNotFound)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewMessageResponse[any](msgBlogDeleted, nil))
}

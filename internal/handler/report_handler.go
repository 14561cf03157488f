package handler

import (
	"net/http"

	"socialdesk/internal/domain"
	"socialdesk/internal/services"
	"socialdesk/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service  *services.ReportService
	notifier Notifier
}

func NewReportHandler(service *services.ReportService, n Notifier) *ReportHandler {
	return &ReportHandler{service: service, notifier: n}
}

func (h *ReportHandler) Submit(c *gin.Context) {
	var req domain.ReportInput
	parts, err := bindSubmission(c, &req,
		services.FieldIDImage,
		services.FieldScreenshots,
		services.FieldAdditionalDocuments,
		services.FieldIdentityProof,
	)
	if err != nil {
		writeError(c, err)
		return
	}
	report, err := h.service.Submit(c.Request.Context(), req, parts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewMessageResponse(msgReportCreated, report))
	h.notifier.ReportCreated(c.Request.Context(), report)
}

func (h *ReportHandler) List(c *gin.Context) {
	res, err := h.service.List(c.Request.Context(), pageFrom(c, 0))
	if err != nil {
		writeError(c, err)
		return
	}
	writePage(c, res)
}

func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeNotFound(c, err, msgReportNotFound)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(report))
}

func (h *ReportHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeNotFound(c, err, msgReportNotFound)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewMessageResponse[any](msgReportDeleted, nil))
}

package handler

import (
	"net/http"

	"socialdesk/internal/domain"
	"socialdesk/internal/services"
	"socialdesk/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// bookings are always listed ten per page
const bookingPageSize = 10

type BookingHandler struct {
	service  *services.BookingService
	notifier Notifier
}

func NewBookingHandler(service *services.BookingService, n Notifier) *BookingHandler {
	return &BookingHandler{service: service, notifier: n}
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req domain.BookingInput
	if _, err := bindSubmission(c, &req); err != nil {
		writeError(c, err)
		return
	}
	booking, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewMessageResponse(msgBookingCreated, booking))
	h.notifier.BookingCreated(c.Request.Context(), booking)
}

func (h *BookingHandler) List(c *gin.Context) {
	res, err := h.service.List(c.Request.Context(), pageFrom(c, bookingPageSize))
	if err != nil {
		writeError(c, err)
		return
	}
	writePage(c, res)
}

func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeNotFound(c, err, msgBookingNotFound)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(booking))
}

func (h *BookingHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeNotFound(c, err, msgBookingNotFound)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewMessageResponse[any](msgBookingDeleted, nil))
}

func (h *BookingHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(msgDateRequired, "INVALID_REQUEST"))
		return
	}
	av, err := h.service.Availability(c.Request.Context(), date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(av))
}

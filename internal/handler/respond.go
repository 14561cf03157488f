// Package handler provides HTTP handlers for API endpoints.
package handler

import (
	"errors"
	"net/http"

	"socialdesk/internal/repository"
	"socialdesk/internal/services"
	"socialdesk/internal/transport/httpdto"
	desk_errors "socialdesk/pkg/errors"
	"socialdesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

const msgInternal = "حدث خطأ في الخادم"

func writeError(c *gin.Context, err error) {
	status := services.HTTPStatus(err)
	message := desk_errors.UserMessage(err)
	if message == "" {
		message = defaultMessage(status)
	}
	if status >= http.StatusInternalServerError {
		logger.GetGlobalLogger().WithContext(c.Request.Context()).Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}

	var ve *desk_errors.ValidationError
	if errors.As(err, &ve) && ve.Details != nil {
		c.JSON(status, httpdto.NewDetailedErrorResponse(message, ErrorCode(status), ve.Details))
		return
	}
	c.JSON(status, httpdto.NewErrorResponse(message, ErrorCode(status)))
}

// writeNotFound reports err, replacing the generic not found text with the
// resource specific one.
func writeNotFound(c *gin.Context, err error, notFound string) {
	if errors.Is(err, desk_errors.ErrNotFound) {
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(notFound, ErrorCode(http.StatusNotFound)))
		return
	}
	writeError(c, err)
}

func defaultMessage(status int) string {
	switch status {
	case http.StatusNotFound:
		return "Not found"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusConflict:
		return "البريد الإلكتروني مستخدم بالفعل"
	case http.StatusTooManyRequests:
		return "Too many requests, please try again later"
	case http.StatusServiceUnavailable:
		return "Service unavailable"
	default:
		return msgInternal
	}
}

func ErrorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusServiceUnavailable:
		return "UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}

func pagination[T any](res repository.PageResult[T]) httpdto.Pagination {
	return httpdto.Pagination{
		CurrentPage:  int64(res.Page),
		TotalPages:   int64(res.TotalPages),
		TotalItems:   res.Total,
		ItemsPerPage: int64(res.Size),
		HasNextPage:  res.HasNext,
		HasPrevPage:  res.HasPrev,
	}
}

func writePage[T any](c *gin.Context, res repository.PageResult[T]) {
	c.JSON(http.StatusOK, httpdto.NewPageResponse(res.Items, pagination(res)))
}

func pageFrom(c *gin.Context, fixedSize int) repository.Page {
	return repository.ParsePage(c.Query("page"), c.Query("limit"), fixedSize)
}

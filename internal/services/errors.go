package services

import (
	"errors"
	"net/http"

	desk_errors "socialdesk/pkg/errors"
)

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, desk_errors.ErrInvalidInput),
		errors.Is(err, desk_errors.ErrUnsupportedMedia),
		errors.Is(err, desk_errors.ErrTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, desk_errors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, desk_errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, desk_errors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, desk_errors.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, desk_errors.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

package desk_errors

import (
	"errors"
	"strings"
)

// Common errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnsupportedMedia   = errors.New("unsupported media type")
	ErrTooLarge           = errors.New("file too large")
	ErrRateLimited        = errors.New("rate limited")
	ErrUpstream           = errors.New("upstream failure")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// ValidationError carries a user-facing message for a rejected submission.
// It matches ErrInvalidInput under errors.Is.
type ValidationError struct {
	Message string
	Details any
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Invalid builds a ValidationError with the given message.
func Invalid(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// InvalidWith builds a ValidationError that also reports the accepted values.
func InvalidWith(message string, details any) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

// MissingFields reports required fields that were left empty.
func MissingFields(fields []string) *ValidationError {
	return &ValidationError{
		Message: "Missing required fields: " + strings.Join(fields, ", "),
		Details: fields,
	}
}

// AuthError is an authentication failure with a message for the client.
// It matches ErrUnauthorized under errors.Is.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}

func Unauthorized(message string) *AuthError {
	return &AuthError{Message: message}
}

// MediaError is returned when an uploaded part is rejected before upload.
type MediaError struct {
	Kind     error
	Message  string
	FileName string
}

func (e *MediaError) Error() string {
	return e.Message
}

func (e *MediaError) Unwrap() error {
	return e.Kind
}

// UserMessage returns the message that is safe to show to a client, or "" when
// err carries nothing beyond an internal description.
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var me *MediaError
	if errors.As(err, &me) {
		return me.Message
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return ""
}

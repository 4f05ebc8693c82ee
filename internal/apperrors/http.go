package apperrors

import (
	"errors"
	"net/http"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// HTTPStatus maps a service error to the status code handlers return.
// Unknown errors count as storage or programming faults and map to 500.
func HTTPStatus(err error) int {
	var (
		httpErr     *HTTPError
		notFound    *NotFoundError
		conflict    *ConflictError
		window      *CancellationWindowError
		transition  *InvalidTransitionError
		unavailable *AvailabilityError
	)
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, ErrInvalidRange):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict),
		errors.As(err, &transition),
		errors.Is(err, ErrRequestAlreadyHandled):
		return http.StatusConflict
	case errors.As(err, &window):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unavailable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

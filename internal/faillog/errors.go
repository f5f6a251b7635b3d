package faillog

import (
	"errors"
	"net/http"
)

// Domain errors for failure log operations.
var (
	ErrNotFound  = errors.New("failure log entry not found")
	ErrDuplicate = errors.New("failure log entry already exists")
)

// MapHTTPStatus maps failure log domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

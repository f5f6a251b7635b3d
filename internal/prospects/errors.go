package prospects

import (
	"errors"
	"net/http"
)

// Domain errors for prospect operations.
var (
	ErrNotFound  = errors.New("contact not found")
	ErrDuplicate = errors.New("contact already exists")
	ErrNoName    = errors.New("no contact name extracted")
)

// MapHTTPStatus maps prospect domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

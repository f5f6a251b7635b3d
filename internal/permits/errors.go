package permits

import (
	"errors"
	"net/http"
)

// Domain errors for permit operations.
var (
	ErrNotFound  = errors.New("permit not found")
	ErrDuplicate = errors.New("permit already exists")
	ErrNoNumber  = errors.New("no permit number extracted")
)

// MapHTTPStatus maps permit domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

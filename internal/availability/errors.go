package availability

import (
	"errors"
	"net/http"
)

// Domain errors for availability operations.
var (
	ErrNotFound   = errors.New("listing not found")
	ErrDuplicate  = errors.New("listing already exists")
	ErrEmptyBatch = errors.New("no listings extracted from source")
)

// MapHTTPStatus maps availability domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

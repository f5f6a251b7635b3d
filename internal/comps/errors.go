package comps

import (
	"errors"
	"net/http"
)

// Domain errors for comp operations.
var (
	ErrNotFound  = errors.New("comp not found")
	ErrDuplicate = errors.New("comp already exists")
	ErrNoAddress = errors.New("no usable address extracted")
)

// MapHTTPStatus maps comp domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

package leases

import (
	"errors"
	"net/http"
)

// Domain errors for lease abstract operations.
var (
	ErrNotFound  = errors.New("lease abstract not found")
	ErrDuplicate = errors.New("lease abstract already exists")
	ErrNoTenant  = errors.New("no tenant extracted")
	ErrNoBuilder = errors.New("no underwriting model builder configured")
)

// MapHTTPStatus maps lease domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

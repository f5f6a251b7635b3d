package gateway

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthorized indicates a missing or incorrect bearer secret.
	ErrUnauthorized = errors.New("invalid gateway credentials")
	// ErrSenderRejected indicates the transport checks or the sender
	// allow-list rejected the message.
	ErrSenderRejected = errors.New("sender not permitted")
	// ErrBadSubmission indicates the request body could not be decoded
	// into a message.
	ErrBadSubmission = errors.New("malformed message submission")
)

// MapHTTPStatus maps gateway errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrSenderRejected):
		return http.StatusForbidden
	case errors.Is(err, ErrBadSubmission):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Package domainerrors defines coded, client-facing errors. Handlers translate
// these into JSON error envelopes; everything else stays an internal error.
package domainerrors

import "net/http"

// Code is a stable, machine-readable error identifier exposed to clients.
type Code string

const (
	CodeInvalidTransaction Code = "invalid_transaction"
	CodeBadRequest         Code = "bad_request"
	CodeUnauthorized       Code = "unauthorized"
	CodeNotFound           Code = "not_found"
	CodeRateLimited        Code = "rate_limited"
	CodeUnavailable        Code = "unavailable"
	CodeInternal           Code = "internal_error"
)

// Error carries a code plus a human-readable description. The description is
// surfaced to clients only for non-internal codes.
type Error struct {
	Code        Code
	Description string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Description
}

// New constructs a coded domain error.
func New(code Code, description string) *Error {
	return &Error{Code: code, Description: description}
}

// ToHTTPStatus maps an error code to its transport status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidTransaction, CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

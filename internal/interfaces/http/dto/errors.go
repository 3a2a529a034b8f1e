package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
)

// Auth error codes
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTokenRevoked = "TOKEN_REVOKED"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back to 422: they come from domain
// validation, which is a business rule rejection, not a server fault.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenRevoked: http.StatusUnauthorized,

	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"SLUG_TAKEN":           http.StatusConflict,
	"EMAIL_TAKEN":          http.StatusConflict,
	"SKU_TAKEN":            http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"TENANT_REQUIRED":      http.StatusUnauthorized,
	"INVALID_CREDENTIALS":  http.StatusUnauthorized,

	"INVALID_INPUT": http.StatusBadRequest,

	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":   http.StatusUnprocessableEntity,
	"DISCOUNT_NOT_ALLOWED": http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}

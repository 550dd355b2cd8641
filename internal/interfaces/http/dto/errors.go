package dto

import "net/http"

// Error codes returned by the API
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimited  = "RATE_LIMIT_EXCEEDED"
)

// domainErrorStatus maps domain error codes to HTTP status codes.
// Codes absent from the map fall through to 422 so new business rules
// surface as client errors rather than 500s.
var domainErrorStatus = map[string]int{
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"UNAUTHORIZED":         http.StatusUnauthorized,
	"ACCOUNT_LOCKED":       http.StatusUnauthorized,
	"FORBIDDEN":            http.StatusForbidden,

	"INVALID_INPUT":       http.StatusBadRequest,
	"INVALID_NAME":        http.StatusBadRequest,
	"INVALID_EMAIL":       http.StatusBadRequest,
	"INVALID_PASSWORD":    http.StatusBadRequest,
	"INVALID_SKU":         http.StatusBadRequest,
	"INVALID_PRICE":       http.StatusBadRequest,
	"INVALID_QUANTITY":    http.StatusBadRequest,
	"INVALID_RATING":      http.StatusBadRequest,
	"INVALID_ADDRESS":     http.StatusBadRequest,
	"INVALID_SESSION":     http.StatusBadRequest,
	"INVALID_USER":        http.StatusBadRequest,
	"INVALID_PRODUCT":     http.StatusBadRequest,
	"INVALID_DESCRIPTION": http.StatusBadRequest,

	"SUPPLIER_NOT_FOUND": http.StatusUnprocessableEntity,
	"CATEGORY_NOT_FOUND": http.StatusUnprocessableEntity,
	"PRODUCT_NOT_FOUND":  http.StatusUnprocessableEntity,
	"PARENT_NOT_FOUND":   http.StatusUnprocessableEntity,
}

// DomainErrorStatus returns the HTTP status for a domain error code
func DomainErrorStatus(code string) int {
	if status, ok := domainErrorStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}

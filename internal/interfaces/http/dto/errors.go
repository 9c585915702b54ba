package dto

import "net/http"

// Transport-level error codes for failures that never reach the domain layer
const (
	// ErrCodeBadRequest is used for malformed or unparseable requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeNotFound is used when a route or resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeRequestTooLarge is used when the request body exceeds the size limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	// ErrCodeRateLimited is used when a client exceeds its request budget
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
)

// DomainErrorHTTPStatus maps domain error codes to HTTP status codes.
// Business-rule rejections map to 422: the request was well-formed but the
// ledger or the document state does not permit it.
var DomainErrorHTTPStatus = map[string]int{
	// missing resources
	"NOT_FOUND":         http.StatusNotFound,
	"VARIANT_NOT_FOUND": http.StatusNotFound,
	"LOT_NOT_FOUND":     http.StatusNotFound,
	"ORDER_NOT_FOUND":   http.StatusNotFound,
	"RECEIPT_NOT_FOUND": http.StatusNotFound,

	// conflicts
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// business rule rejections
	"INSUFFICIENT_STOCK":     http.StatusUnprocessableEntity,
	"INSUFFICIENT_LOT_STOCK": http.StatusUnprocessableEntity,
	"ORDER_NOT_PENDING":      http.StatusUnprocessableEntity,
	"ORDER_NOT_CANCELLABLE":  http.StatusUnprocessableEntity,
	"RECEIPT_NOT_DRAFT":      http.StatusUnprocessableEntity,
	"INVALID_STATE":          http.StatusUnprocessableEntity,

	// input rejections
	"INVALID_INPUT":            http.StatusBadRequest,
	"INVALID_QUANTITY":         http.StatusBadRequest,
	"INVALID_UNIT_COST":        http.StatusBadRequest,
	"INVALID_TRANSACTION_TYPE": http.StatusBadRequest,
	"INVALID_REFERENCE":        http.StatusBadRequest,
	"INVALID_SKU":              http.StatusBadRequest,
	"INVALID_NAME":             http.StatusBadRequest,
	"INVALID_ORDER_NUMBER":     http.StatusBadRequest,
	"EMPTY_ORDER":              http.StatusBadRequest,
	"INVALID_RECEIPT_NUMBER":   http.StatusBadRequest,
	"EMPTY_RECEIPT":            http.StatusBadRequest,
	ErrCodeBadRequest:          http.StatusBadRequest,

	// the ledger contradicting itself is a server fault, not a client one
	"INTERNAL_CONSISTENCY": http.StatusInternalServerError,
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status for a domain error code.
// Unmapped codes fall back to 400: they come from domain validation,
// which only ever rejects client input.
func GetHTTPStatus(code string) int {
	if status, ok := DomainErrorHTTPStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}

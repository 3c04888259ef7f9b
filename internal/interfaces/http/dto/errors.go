package dto

import (
	"net/http"
	"strings"
)

// Error codes used directly by the HTTP layer
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Validation failures fall through to the INVALID_ prefix rule below.
var errorCodeHTTPStatus = map[string]int{
	// Missing resources
	"NOT_FOUND":           http.StatusNotFound,
	"PRODUCT_NOT_FOUND":   http.StatusNotFound,
	"COMPONENT_NOT_FOUND": http.StatusNotFound,
	"LINE_NOT_FOUND":      http.StatusNotFound,

	// Conflicts with existing state
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"SLUG_TAKEN":           http.StatusConflict,
	"SKU_TAKEN":            http.StatusConflict,
	"CODE_TAKEN":           http.StatusConflict,
	"CYCLE_ALREADY_OPEN":   http.StatusConflict,
	"DUPLICATE_COMPONENT":  http.StatusConflict,
	"DUPLICATE_PRODUCT":    http.StatusConflict,
	"CONFLICT":             http.StatusConflict,

	// Locked cycles refuse writes permanently, so 409 rather than 422
	"CYCLE_LOCKED":     http.StatusConflict,
	"SUCCESSOR_LOCKED": http.StatusConflict,

	// Auth
	"UNAUTHORIZED": http.StatusUnauthorized,
	"FORBIDDEN":    http.StatusForbidden,

	// Business rules the request cannot satisfy as stated
	"INVALID_STATE":          http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":     http.StatusUnprocessableEntity,
	"NO_SUCCESSOR_CYCLE":     http.StatusUnprocessableEntity,
	"SALE_NOT_POSTED":        http.StatusUnprocessableEntity,
	"ORG_SUSPENDED":          http.StatusUnprocessableEntity,
	"PROJECT_ARCHIVED":       http.StatusUnprocessableEntity,
	"PRODUCT_INACTIVE":       http.StatusUnprocessableEntity,
	"NOT_GOODS":              http.StatusUnprocessableEntity,
	"COMPONENT_NOT_GOODS":    http.StatusUnprocessableEntity,
	"NO_BOM":                 http.StatusUnprocessableEntity,
	"NO_LINES":               http.StatusUnprocessableEntity,
	"NO_COMPONENTS":          http.StatusUnprocessableEntity,
	"CYCLE_PROJECT_MISMATCH": http.StatusUnprocessableEntity,
	"MISSING_COST":           http.StatusUnprocessableEntity,

	// Input
	"BAD_REQUEST":  http.StatusBadRequest,
	"INVALID_JSON": http.StatusBadRequest,

	"INTERNAL_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for a domain error code. Codes with
// an INVALID_ prefix are field validation failures and map to 400; anything
// unknown is treated as an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

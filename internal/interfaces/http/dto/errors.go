package dto

import "net/http"

// Transport-level error codes
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall through to 400 when they look like
// validation failures and 500 otherwise; see GetHTTPStatus.
var errorCodeStatus = map[string]int{
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeInternal:     http.StatusInternalServerError,

	"NOT_FOUND":         http.StatusNotFound,
	"PRODUCT_NOT_FOUND": http.StatusNotFound,
	"COUPON_NOT_FOUND":  http.StatusNotFound,

	"ALREADY_EXISTS": http.StatusConflict,
	"DUPLICATE_SKU":  http.StatusConflict,
	"DUPLICATE_SLUG": http.StatusConflict,

	"CONCURRENT_MODIFICATION": http.StatusConflict,

	// Business rule rejections
	"INSUFFICIENT_STOCK":        http.StatusUnprocessableEntity,
	"PRODUCT_UNAVAILABLE":       http.StatusUnprocessableEntity,
	"COUPON_EXHAUSTED":          http.StatusUnprocessableEntity,
	"COUPON_EXPIRED":            http.StatusUnprocessableEntity,
	"COUPON_INACTIVE":           http.StatusUnprocessableEntity,
	"COUPON_NOT_STARTED":        http.StatusUnprocessableEntity,
	"MINIMUM_NOT_MET":           http.StatusUnprocessableEntity,
	"INVALID_STATUS_TRANSITION": http.StatusUnprocessableEntity,
	"ORDER_NOT_CANCELLABLE":     http.StatusUnprocessableEntity,
	"NO_ITEMS":                  http.StatusUnprocessableEntity,
	"INVALID_STATE":             http.StatusUnprocessableEntity,

	"ORDER_CREATION_FAILED": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeStatus[code]; ok {
		return status
	}
	// Domain validation codes (INVALID_QUANTITY, INVALID_KIND, EMPTY_BATCH,
	// BATCH_TOO_LARGE, ...) are caller mistakes.
	if len(code) >= 8 && code[:8] == "INVALID_" {
		return http.StatusBadRequest
	}
	switch code {
	case "EMPTY_BATCH", "BATCH_TOO_LARGE", "EMPTY_UPDATE":
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

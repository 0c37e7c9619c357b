package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// IsDomainError reports whether err is a DomainError with the given code
func IsDomainError(err error, code string) bool {
	domainErr, ok := err.(*DomainError)
	return ok && domainErr.Code == code
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENT_MODIFICATION", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Error codes for the order and inventory core. Handlers map these to
// user-facing messages, so every failure mode gets a distinct code.
const (
	CodeInvalidQuantity         = "INVALID_QUANTITY"
	CodeInsufficientStock       = "INSUFFICIENT_STOCK"
	CodeConcurrentModification  = "CONCURRENT_MODIFICATION"
	CodeCouponNotFound          = "COUPON_NOT_FOUND"
	CodeCouponInactive          = "COUPON_INACTIVE"
	CodeCouponNotStarted        = "COUPON_NOT_STARTED"
	CodeCouponExpired           = "COUPON_EXPIRED"
	CodeCouponExhausted         = "COUPON_EXHAUSTED"
	CodeMinimumNotMet           = "MINIMUM_NOT_MET"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeOrderNotCancellable     = "ORDER_NOT_CANCELLABLE"
	CodeOrderCreationFailed     = "ORDER_CREATION_FAILED"
)

package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeInvalidParameter  = "INVALID_PARAMETER"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeCustomerNotFound  = "CUSTOMER_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeEmptyOrder        = "EMPTY_ORDER"
	ErrCodeInvalidStatus     = "INVALID_STATUS"
	ErrCodeUnknownDelivery   = "UNKNOWN_DELIVERY_METHOD"
	ErrCodeUnknownPayment    = "UNKNOWN_PAYMENT_METHOD"
	ErrCodeDuplicateEmail    = "DUPLICATE_EMAIL"
	ErrCodeDuplicatePhone    = "DUPLICATE_PHONE"
	ErrCodeDuplicateUsername = "DUPLICATE_USERNAME"
	ErrCodeProductInUse      = "PRODUCT_IN_USE"
	ErrCodeCustomerInUse     = "CUSTOMER_IN_USE"
	ErrCodeBadCredentials    = "BAD_CREDENTIALS"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// ErrorKind classifies a domain error for the HTTP boundary.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindConflict
	KindUnauthorised
	KindForbidden
)

// Domain errors for business logic
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is works against the shared sentinels below.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error with the given code.
func NewValidationError(code, message string) *DomainError {
	return NewDomainError(KindValidation, code, message)
}

// NewNotFoundError creates a not-found error with the given code.
func NewNotFoundError(code, message string) *DomainError {
	return NewDomainError(KindNotFound, code, message)
}

// NewConflictError creates a conflict error with the given code.
func NewConflictError(code, message string) *DomainError {
	return NewDomainError(KindConflict, code, message)
}

// AsDomainError unwraps err into a DomainError if it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Common domain errors
var (
	ErrProductNotFound   = NewNotFoundError(ErrCodeProductNotFound, "Product not found")
	ErrCustomerNotFound  = NewNotFoundError(ErrCodeCustomerNotFound, "Customer not found")
	ErrOrderNotFound     = NewNotFoundError(ErrCodeOrderNotFound, "Order not found")
	ErrUserNotFound      = NewNotFoundError(ErrCodeUserNotFound, "User not found")
	ErrInvalidQuantity   = NewValidationError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrEmptyOrder        = NewValidationError(ErrCodeEmptyOrder, "Order must contain at least one item")
	ErrInvalidStatus     = NewValidationError(ErrCodeInvalidStatus, "Order status must not be empty")
	ErrUnknownDelivery   = NewValidationError(ErrCodeUnknownDelivery, "Unknown delivery method")
	ErrUnknownPayment    = NewValidationError(ErrCodeUnknownPayment, "Unknown payment method")
	ErrDuplicateEmail    = NewConflictError(ErrCodeDuplicateEmail, "Email is already in use")
	ErrDuplicatePhone    = NewConflictError(ErrCodeDuplicatePhone, "Phone is already in use")
	ErrDuplicateUsername = NewConflictError(ErrCodeDuplicateUsername, "Username already exists")
	ErrProductInUse      = NewConflictError(ErrCodeProductInUse, "Product is referenced by existing orders")
	ErrCustomerInUse     = NewConflictError(ErrCodeCustomerInUse, "Customer has existing orders")
	ErrBadCredentials    = NewDomainError(KindUnauthorised, ErrCodeBadCredentials, "Invalid username or password")
)

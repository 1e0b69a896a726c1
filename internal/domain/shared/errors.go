package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying store or transport error
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code.
// Message and cause do not take part in the comparison, so
// errors.Is(err, ErrNotFound) holds for any NOT_FOUND error.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error carrying cause
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Cause: cause}
}

// WithMessage returns a copy of the error with a more specific message
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{Code: e.Code, Message: message, Cause: e.Cause}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorWithCause creates a new domain error wrapping cause
func NewDomainErrorWithCause(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Error codes shared by every bounded context
const (
	CodeValidation                 = "VALIDATION_ERROR"
	CodeNotFound                   = "NOT_FOUND"
	CodeAlreadyExists              = "ALREADY_EXISTS"
	CodeConcurrencyConflict        = "CONCURRENCY_CONFLICT"
	CodeInvalidState               = "INVALID_STATE"
	CodeCapacityExceeded           = "CAPACITY_EXCEEDED"
	CodeUnknownRole                = "UNKNOWN_ROLE"
	CodeAlreadyFormer              = "ALREADY_FORMER"
	CodeHouseNotFound              = "HOUSE_NOT_FOUND"
	CodeHouseInUse                 = "HOUSE_IN_USE"
	CodeIdentityProvisioningFailed = "IDENTITY_PROVISIONING_FAILED"
	CodeProfileWriteFailed         = "PROFILE_WRITE_FAILED"
	CodeMetadataSyncFailed         = "METADATA_SYNC_FAILED"
	CodeDuplicateRequest           = "DUPLICATE_REQUEST"
)

// Common domain errors
var (
	ErrValidation          = NewDomainError(CodeValidation, "Invalid input provided")
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrDuplicateRequest    = NewDomainError(CodeDuplicateRequest, "Request has already been processed")
)

// NewValidationError creates a VALIDATION_ERROR with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// CodeOf returns the domain error code carried by err, or "" when err is not a DomainError
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

package dto

import "net/http"

// Error codes returned by the API. Format: ERR_<DESCRIPTION>

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeUnavailable is used when a dependency is down
	ErrCodeUnavailable = "ERR_UNAVAILABLE"
	// ErrCodeRateLimited is used when a client exceeds the write rate
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// Input error codes
const (
	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	ErrCodeUnknownRole     = "ERR_UNKNOWN_ROLE"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeHouseNotFound       = "ERR_HOUSE_NOT_FOUND"
	ErrCodeAlreadyFormer       = "ERR_ALREADY_FORMER"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeHouseInUse          = "ERR_HOUSE_IN_USE"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeDuplicateRequest    = "ERR_DUPLICATE_REQUEST"
)

// Business rule error codes
const (
	ErrCodeInvalidState     = "ERR_INVALID_STATE"
	ErrCodeCapacityExceeded = "ERR_CAPACITY_EXCEEDED"
)

// Upstream store error codes
const (
	ErrCodeIdentityProvisioningFailed = "ERR_IDENTITY_PROVISIONING_FAILED"
	ErrCodeProfileWriteFailed         = "ERR_PROFILE_WRITE_FAILED"
	ErrCodeMetadataSyncFailed         = "ERR_METADATA_SYNC_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeUnavailable: http.StatusServiceUnavailable,
	ErrCodeRateLimited: http.StatusTooManyRequests,

	// Input errors -> 400 Bad Request
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeUnknownRole:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeHouseNotFound:       http.StatusNotFound,
	ErrCodeAlreadyFormer:       http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeHouseInUse:          http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeDuplicateRequest:    http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:     http.StatusUnprocessableEntity,
	ErrCodeCapacityExceeded: http.StatusUnprocessableEntity,

	// Identity or profile store failed during provisioning -> 502 Bad Gateway
	ErrCodeIdentityProvisioningFailed: http.StatusBadGateway,
	ErrCodeProfileWriteFailed:         http.StatusBadGateway,
	ErrCodeMetadataSyncFailed:         http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"VALIDATION_ERROR":             ErrCodeValidation,
	"NOT_FOUND":                    ErrCodeNotFound,
	"ALREADY_EXISTS":               ErrCodeAlreadyExists,
	"CONCURRENCY_CONFLICT":         ErrCodeConcurrencyConflict,
	"INVALID_STATE":                ErrCodeInvalidState,
	"CAPACITY_EXCEEDED":            ErrCodeCapacityExceeded,
	"UNKNOWN_ROLE":                 ErrCodeUnknownRole,
	"ALREADY_FORMER":               ErrCodeAlreadyFormer,
	"HOUSE_NOT_FOUND":              ErrCodeHouseNotFound,
	"HOUSE_IN_USE":                 ErrCodeHouseInUse,
	"IDENTITY_PROVISIONING_FAILED": ErrCodeIdentityProvisioningFailed,
	"PROFILE_WRITE_FAILED":         ErrCodeProfileWriteFailed,
	"METADATA_SYNC_FAILED":         ErrCodeMetadataSyncFailed,
	"DUPLICATE_REQUEST":            ErrCodeDuplicateRequest,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes without a mapping become ERR_INTERNAL.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return ErrCodeInternal
}

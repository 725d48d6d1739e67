package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeUpstream is used when a backing service failed or returned nothing
	ErrCodeUpstream = "ERR_UPSTREAM"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeDuplicateRequest is used when an Idempotency-Key was already seen
	ErrCodeDuplicateRequest = "ERR_DUPLICATE_REQUEST"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodePriceNotComputable is used when the sale price formula has no result
	ErrCodePriceNotComputable = "ERR_PRICE_NOT_COMPUTABLE"
	// ErrCodeInvalidCommissionConfig is used when a commission ruleset leaves
	// no positive profit factor
	ErrCodeInvalidCommissionConfig = "ERR_INVALID_COMMISSION_CONFIG"
)

// Form session error codes
const (
	ErrCodeFormClosed    = "ERR_FORM_CLOSED"
	ErrCodeFormNotReady  = "ERR_FORM_NOT_READY"
	ErrCodeFormBusy      = "ERR_FORM_BUSY"
	ErrCodeUnknownChoice = "ERR_UNKNOWN_CHOICE"
	ErrCodeNoProduct     = "ERR_NO_PRODUCT_SELECTED"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,
	ErrCodeUpstream: http.StatusBadGateway,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeConflict:         http.StatusConflict,
	ErrCodeDuplicateRequest: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:            http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:            http.StatusUnprocessableEntity,
	ErrCodePriceNotComputable:      http.StatusUnprocessableEntity,
	ErrCodeInvalidCommissionConfig: http.StatusUnprocessableEntity,

	// Form session errors
	ErrCodeFormClosed:    http.StatusUnprocessableEntity,
	ErrCodeFormNotReady:  http.StatusUnprocessableEntity,
	ErrCodeFormBusy:      http.StatusConflict,
	ErrCodeUnknownChoice: http.StatusBadRequest,
	ErrCodeNoProduct:     http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to the standardized codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"BUSINESS_RULE":        ErrCodeBusinessRule,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"UPSTREAM_ERROR":       ErrCodeUpstream,
	"DUPLICATE_REQUEST":    ErrCodeDuplicateRequest,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
	"PRICE_NOT_COMPUTABLE": ErrCodePriceNotComputable,

	"INVALID_COMMISSION_CONFIG": ErrCodeInvalidCommissionConfig,

	"FORM_CLOSED":         ErrCodeFormClosed,
	"FORM_NOT_READY":      ErrCodeFormNotReady,
	"FORM_BUSY":           ErrCodeFormBusy,
	"UNKNOWN_CHOICE":      ErrCodeUnknownChoice,
	"NO_PRODUCT_SELECTED": ErrCodeNoProduct,

	// Entity field checks
	"INVALID_CODE":       ErrCodeInvalidInput,
	"INVALID_NAME":       ErrCodeInvalidInput,
	"INVALID_PRICE":      ErrCodeInvalidInput,
	"INVALID_PRODUCT":    ErrCodeInvalidInput,
	"INVALID_PLATFORM":   ErrCodeInvalidInput,
	"INVALID_REFERENCE":  ErrCodeInvalidInput,
	"INVALID_TAX_ID":     ErrCodeInvalidInput,
	"INVALID_LINK":       ErrCodeInvalidInput,
	"INVALID_COMMISSION": ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a legacy error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}

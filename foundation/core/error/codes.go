// File: codes.go
// Title: Error Code Definitions
// Description: Defines standardized error codes for consistent error classification
//              across tempus. The gRPC layer maps codes to status codes through
//              Category and HTTPStatus.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-19 v0.2.0: Calendar codes (invalid date, unknown locale/unit/token)

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Storage
	CodeDatabaseError    Code = "DATABASE_ERROR"
	CodeConnectionFailed Code = "CONNECTION_FAILED"
	CodeDuplicateEntry   Code = "DUPLICATE_ENTRY"

	// Operations
	CodeInvalidOperation Code = "INVALID_OPERATION"
	CodeResourceLocked   Code = "RESOURCE_LOCKED"

	// Service and network
	CodeServiceUnavailable    Code = "SERVICE_UNAVAILABLE"
	CodeNetworkError          Code = "NETWORK_ERROR"
	CodeServiceInitialization Code = "SERVICE_INITIALIZATION"

	// Calendar
	CodeInvalidDate   Code = "INVALID_DATE"
	CodeUnknownLocale Code = "UNKNOWN_LOCALE"
	CodeUnknownUnit   Code = "UNKNOWN_UNIT"
	CodeUnknownToken  Code = "UNKNOWN_TOKEN"
	CodeEmptyRange    Code = "EMPTY_RANGE"

	// Configuration and environment
	CodeConfigError      Code = "CONFIG_ERROR"
	CodeMissingConfig    Code = "MISSING_CONFIG"
	CodeInvalidConfig    Code = "INVALID_CONFIG"
	CodeEnvironmentError Code = "ENVIRONMENT_ERROR"

	// Validation
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeRequiredField    Code = "REQUIRED_FIELD"
	CodeInvalidFormat    Code = "INVALID_FORMAT"
	CodeValueOutOfRange  Code = "VALUE_OUT_OF_RANGE"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeTimeout,
		CodeDatabaseError, CodeConnectionFailed, CodeDuplicateEntry,
		CodeInvalidOperation, CodeResourceLocked,
		CodeServiceUnavailable, CodeNetworkError, CodeServiceInitialization,
		CodeInvalidDate, CodeUnknownLocale, CodeUnknownUnit, CodeUnknownToken, CodeEmptyRange,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig, CodeEnvironmentError,
		CodeValidationFailed, CodeRequiredField, CodeInvalidFormat, CodeValueOutOfRange:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeDatabaseError, CodeConnectionFailed, CodeDuplicateEntry:
		return "database"
	case CodeInvalidOperation, CodeResourceLocked:
		return "operation"
	case CodeServiceUnavailable, CodeNetworkError, CodeServiceInitialization:
		return "service"
	case CodeInvalidDate, CodeUnknownLocale, CodeUnknownUnit, CodeUnknownToken, CodeEmptyRange:
		return "calendar"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig, CodeEnvironmentError:
		return "configuration"
	case CodeValidationFailed, CodeRequiredField, CodeInvalidFormat, CodeValueOutOfRange:
		return "validation"
	default:
		return "generic"
	}
}

// HTTPStatus returns the appropriate HTTP status code for this error code
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound, CodeUnknownLocale:
		return 404
	case CodeInvalidInput, CodeValidationFailed, CodeRequiredField, CodeInvalidFormat,
		CodeValueOutOfRange, CodeInvalidDate, CodeUnknownUnit, CodeUnknownToken, CodeEmptyRange:
		return 400
	case CodeDuplicateEntry, CodeResourceLocked, CodeInvalidOperation:
		return 409
	case CodeTimeout:
		return 408
	case CodeServiceUnavailable, CodeDatabaseError, CodeConnectionFailed:
		return 503
	default:
		return 500
	}
}

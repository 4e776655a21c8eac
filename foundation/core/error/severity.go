// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors. The logger picks its level
//              from the severity when logging an *Error.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-10-19 v0.2.0: Severity mapping for calendar codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates bad caller input (unparseable dates, unknown units)
	SeverityLow Severity = iota

	// SeverityMedium indicates a failure with a workaround
	SeverityMedium

	// SeverityHigh indicates a failing dependency such as the alarm database
	SeverityHigh

	// SeverityCritical indicates the process cannot continue
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeServiceUnavailable, CodeEnvironmentError:
		return SeverityCritical

	case CodeDatabaseError, CodeConnectionFailed, CodeServiceInitialization:
		return SeverityHigh

	case CodeInvalidInput, CodeNotFound, CodeValidationFailed, CodeRequiredField,
		CodeInvalidFormat, CodeValueOutOfRange,
		CodeInvalidDate, CodeUnknownLocale, CodeUnknownUnit, CodeUnknownToken, CodeEmptyRange:
		return SeverityLow

	default:
		return SeverityMedium
	}
}

package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Order source errors (SOURCE_*)
	ErrorCodeSourceUnavailable ErrorCode = "SOURCE_UNAVAILABLE"

	// Vendor errors (VENDOR_*)
	ErrorCodeVendorNotFound  ErrorCode = "VENDOR_NOT_FOUND"
	ErrorCodeVendorNotLinked ErrorCode = "VENDOR_NOT_LINKED"

	// Report errors (REPORT_*)
	ErrorCodeReportNotFound ErrorCode = "REPORT_NOT_FOUND"
	ErrorCodeRowNotFound    ErrorCode = "REPORT_ROW_NOT_FOUND"

	// Accounting system errors (ACCOUNTING_*)
	ErrorCodeAccountingAuthRequired ErrorCode = "ACCOUNTING_AUTH_REQUIRED"
	ErrorCodeAccountingAPIFailure   ErrorCode = "ACCOUNTING_API_FAILURE"

	// Validation errors (VALIDATION_*)
	ErrorCodeValidationFailed       ErrorCode = "VALIDATION_FAILED"
	ErrorCodeValidationMissingField ErrorCode = "VALIDATION_MISSING_FIELD"

	// Internal errors (INTERNAL_*)
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrorCodeDatabaseError ErrorCode = "INTERNAL_DATABASE_ERROR"
)

// DomainError represents a structured domain error with error code and context
type DomainError struct {
	Err     error
	Details map[string]interface{}
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail field to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with a domain error code
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// IsDomainError checks if an error is a DomainError with the given code
func IsDomainError(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error, returns empty string if not a DomainError
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsNotFoundError checks if an error represents a "not found" condition
func IsNotFoundError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeVendorNotFound ||
		code == ErrorCodeReportNotFound ||
		code == ErrorCodeRowNotFound
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeValidationFailed ||
		code == ErrorCodeValidationMissingField
}

// Errors below carry report id and vendor name so callers can re-read row
// state and retry without risking a duplicate purchase order.

// ErrVendorNotLinked is returned when PO creation is requested for a vendor
// with no accounting contact attached.
func ErrVendorNotLinked(reportID, vendor string) *DomainError {
	return NewDomainError(ErrorCodeVendorNotLinked, "vendor is not linked to a Xero contact").
		WithDetail("report_id", reportID).
		WithDetail("vendor", vendor)
}

// ErrReportNotFound is returned when the requested report does not exist.
func ErrReportNotFound(reportID string) *DomainError {
	return NewDomainError(ErrorCodeReportNotFound, "report not found").
		WithDetail("report_id", reportID)
}

// ErrRowNotFound is returned when the report exists but has no row for the
// requested vendor.
func ErrRowNotFound(reportID, vendor string) *DomainError {
	return NewDomainError(ErrorCodeRowNotFound, "vendor row not found in report").
		WithDetail("report_id", reportID).
		WithDetail("vendor", vendor)
}

// ErrVendorNotFound is returned when the named vendor is not in the vendor
// table.
func ErrVendorNotFound(vendor string) *DomainError {
	return NewDomainError(ErrorCodeVendorNotFound, "vendor not found").
		WithDetail("vendor", vendor)
}

// Package errors provides the error taxonomy shared by the assistant pipeline.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Configuration errors are fatal at startup.
	ErrCodeConfigMissing ErrorCode = "CONFIG_MISSING"
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	ErrCodeTranslationFailed  ErrorCode = "TRANSLATION_FAILED"
	ErrCodeTranslationTimeout ErrorCode = "TRANSLATION_TIMEOUT"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeEmptyQuery               ErrorCode = "EMPTY_QUERY"

	ErrCodeFeedbackWriteFailed ErrorCode = "FEEDBACK_WRITE_FAILED"
	ErrCodeFeedbackNotAllowed  ErrorCode = "FEEDBACK_NOT_ALLOWED"

	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the normalized error every component returns.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

func newError(code ErrorCode, message string, cause error) *StandardError {
	se := &StandardError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		se.Details = cause.Error()
	}
	return se
}

func NewConfigMissingError(name string) *StandardError {
	return newError(ErrCodeConfigMissing, fmt.Sprintf("Environment variable %s not set", name), nil)
}

func NewConfigInvalidError(err error) *StandardError {
	return newError(ErrCodeConfigInvalid, "Configuration is invalid", err)
}

func NewTranslationFailedError(err error) *StandardError {
	return newError(ErrCodeTranslationFailed, "Completion endpoint error", err)
}

func NewTranslationTimeoutError(err error) *StandardError {
	return newError(ErrCodeTranslationTimeout, "Completion endpoint timeout", err)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err)
}

func NewQueryExecutionFailedError(err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error", err)
}

func NewQueryTimeoutError(err error) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout", err)
}

func NewEmptyQueryError() *StandardError {
	return newError(ErrCodeEmptyQuery, "Query text is empty", nil)
}

func NewFeedbackWriteFailedError(err error) *StandardError {
	return newError(ErrCodeFeedbackWriteFailed, "Feedback could not be saved", err)
}

func NewFeedbackNotAllowedError(details string) *StandardError {
	se := newError(ErrCodeFeedbackNotAllowed, "Feedback is not open for this session", nil)
	se.Details = details
	return se
}

func NewInvalidRequestError(details string) *StandardError {
	se := newError(ErrCodeInvalidRequest, "Invalid request", nil)
	se.Details = details
	return se
}

// CodeOf extracts the ErrorCode from anywhere in err's chain.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// UserMessage is the text shown in place of results: the underlying
// driver or transport message when there is one.
func UserMessage(err error) string {
	var se *StandardError
	if errors.As(err, &se) {
		if se.Details != "" {
			return se.Details
		}
		return se.Message
	}
	return err.Error()
}

// Category groups codes for the error_category metrics label. An empty
// code has no category.
func Category(code ErrorCode) string {
	if code == "" {
		return ""
	}
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "CONFIG"):
		return "CONFIG"
	case strings.HasPrefix(codeStr, "TRANSLATION"):
		return "AI"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.HasPrefix(codeStr, "FEEDBACK"):
		return "FEEDBACK"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InvalidInput         ErrorCode = "invalid_input"
	InvalidAmount        ErrorCode = "invalid_amount"
	MalformedRow         ErrorCode = "malformed_row"
	DuplicateTransaction ErrorCode = "duplicate_transaction"
	PersistFailed        ErrorCode = "persist_failed"
	ReadFailed           ErrorCode = "read_failed"
	InternalError        ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// HTTPStatus maps the error code to a response status for the JSON envelope.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case InvalidInput, InvalidAmount:
		return http.StatusBadRequest
	case DuplicateTransaction:
		return http.StatusConflict
	case PersistFailed, ReadFailed, MalformedRow:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrDuplicateTransaction = NewAppError(DuplicateTransaction, "transaction already exists")
	ErrEmptyPayee           = NewAppError(InvalidInput, "payee must not be empty")
)

// MalformedRowError reports a stored row that cannot be parsed back into its
// entity form. Field names the column whose value failed to parse.
type MalformedRowError struct {
	Field string
	Err   error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed row: field %q: %v", e.Field, e.Err)
}

func (e *MalformedRowError) Unwrap() error {
	return e.Err
}

func NewMalformedRowError(field string, err error) *MalformedRowError {
	return &MalformedRowError{Field: field, Err: err}
}

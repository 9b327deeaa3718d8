package utils

import "fmt"

// Error classifications surfaced to clients alongside the message.
const (
	KindValidation       = "validation_error"
	KindAuthentication   = "authentication_error"
	KindNotFound         = "not_found"
	KindInvalidOperation = "invalid_operation"
	KindInternal         = "internal_error"
)

// AppError is a terminal request error: an HTTP status, a machine
// classification, a localizable message ID and an optional cause.
// Absence and ownership failures share KindNotFound so responses never
// reveal whether another user's record exists.
type AppError struct {
	Code    int    // HTTP status code
	Kind    string // classification, one of the Kind constants
	Message string // i18n message ID
	Err     error  // underlying cause, never shown to clients
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with an explicit status and kind.
func NewAppError(code int, kind, message string, err error) *AppError {
	return &AppError{Code: code, Kind: kind, Message: message, Err: err}
}

// Constructors for the error taxonomy.

func ValidationError(message string, err error) *AppError {
	return NewAppError(400, KindValidation, message, err)
}

func AuthenticationError(message string, err error) *AppError {
	return NewAppError(401, KindAuthentication, message, err)
}

func NotFoundError(message string, err error) *AppError {
	return NewAppError(404, KindNotFound, message, err)
}

// InvalidOperationError covers mutations of records that exist but must
// not change, such as renaming a special folder.
func InvalidOperationError(message string, err error) *AppError {
	return NewAppError(400, KindInvalidOperation, message, err)
}

func InternalServerError(message string, err error) *AppError {
	return NewAppError(500, KindInternal, message, err)
}

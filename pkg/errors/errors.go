package errors

import "errors"

// Error codes shared across the domain services. The planner distinguishes an
// empty search space (a negative result, not an error) from these faults, so
// there is deliberately no code for "no viable schedule".
const (
	CodeInvalidState = "invalid_state"
	CodeNotFound     = "not_found"
	CodeInvalidInput = "invalid_input"
	CodeConflict     = "conflict"
	CodeForbidden    = "forbidden"
	CodeStorage      = "storage_error"
	CodeAuth         = "auth_error"
	CodeInvalidToken = "invalid_token"
	CodeDataFault    = "data_integrity"
)

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode helps callers differentiate failures.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

package errors

import "errors"

// Stage codes shared across the pipeline. The HTTP layer and callers rely on
// these to tell a bad equipment file from a provider outage without digging
// into wrapped errors.
const (
	CodeInvalidInput = "invalid_input"
	CodeConfig       = "config_error"
	CodeWeather      = "weather_error"
	CodeGeneration   = "generation_error"
	CodeReport       = "report_error"
	CodeNotFound     = "not_found"
)

// AppError carries a stage code alongside the human readable message.
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

// IsCode reports whether err carries the given stage code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf extracts the stage code, or empty when err is not an AppError.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

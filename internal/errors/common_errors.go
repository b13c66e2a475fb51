package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
)

// ErrorType classifies failures so callers can map them to exit messages
// without matching on text.
type ErrorType string

const (
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeImputation ErrorType = "IMPUTATION"
)

// AppError is the error every package of the cleaner returns for failures
// a user can act on. Details holds the file path, column or sheet involved.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]any
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%s] %s", e.Type, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// With records a detail on e and returns e for chaining.
func (e *AppError) With(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// LogValue renders e as a structured group: type, message, cause and the
// details in key order.
func (e *AppError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", string(e.Type)),
		slog.String("message", e.Message),
	}
	if e.Cause != nil {
		attrs = append(attrs, slog.String("cause", e.Cause.Error()))
	}
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, e.Details[k]))
	}
	return slog.GroupValue(attrs...)
}

func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{Type: errType, Message: message, Cause: cause}
}

// NewNotFoundError reports a missing input. A nil cause defaults to
// fs.ErrNotExist so IsNotFound and errors.Is agree.
func NewNotFoundError(resource string, cause error) *AppError {
	if cause == nil {
		cause = fs.ErrNotExist
	}
	return NewAppError(ErrTypeNotFound, resource+" not found", cause)
}

func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewImputationError reports a column that could not be filled.
func NewImputationError(column string, cause error) *AppError {
	return NewAppError(ErrTypeImputation, "imputation of "+column+" failed", cause).
		With("column", column)
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// GetType returns the type of the first AppError in err's chain, or "" when
// err carries none.
func GetType(err error) ErrorType {
	if appErr, ok := As(err); ok {
		return appErr.Type
	}
	return ""
}

func IsType(err error, errType ErrorType) bool {
	return GetType(err) == errType
}

// IsNotFound reports whether err describes a missing file or resource.
func IsNotFound(err error) bool {
	return IsType(err, ErrTypeNotFound) || errors.Is(err, fs.ErrNotExist)
}

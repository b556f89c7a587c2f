package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies an AppError.
type ErrorType string

const (
	// ErrTypeInput: an input file cannot be opened. Always fatal.
	ErrTypeInput ErrorType = "INPUT"
	// ErrTypeParsing: an input was opened but its rows cannot be read.
	ErrTypeParsing ErrorType = "PARSING"
	// ErrTypeStorage: an output cannot be written.
	ErrTypeStorage ErrorType = "STORAGE"
	// ErrTypeValidation: a pipeline step was run out of order.
	ErrTypeValidation ErrorType = "VALIDATION"
	// ErrTypeConfig: configuration or command line rejected.
	ErrTypeConfig ErrorType = "CONFIG"
)

// Sentinels for errors.Is. They match any AppError of the same type.
var (
	ErrInput      = &AppError{Type: ErrTypeInput}
	ErrParsing    = &AppError{Type: ErrTypeParsing}
	ErrStorage    = &AppError{Type: ErrTypeStorage}
	ErrValidation = &AppError{Type: ErrTypeValidation}
	ErrConfig     = &AppError{Type: ErrTypeConfig}
)

// AppError is a classified error with optional cause and context.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	switch {
	case e.Message == "" && e.Cause == nil:
		return fmt.Sprintf("[%s]", e.Type)
	case e.Cause == nil:
		return fmt.Sprintf("[%s] %s", e.Type, e.Message)
	default:
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches the type sentinels: a target with no message and no cause
// compares by Type only.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || t.Message != "" || t.Cause != nil {
		return false
	}
	return t.Type == e.Type
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err wraps an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Type == errType
}

// NewInputError reports an input file that cannot be opened. The run stops
// before anything is exported.
func NewInputError(path string, cause error) *AppError {
	return NewAppError(ErrTypeInput, "cannot open input "+path, cause).WithContext("path", path)
}

func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

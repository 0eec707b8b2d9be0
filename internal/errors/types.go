package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeTemplate   ErrorType = "template"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeState      ErrorType = "state"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeArchive    ErrorType = "archive"
)

// Common error codes.
const (
	ErrCodeUnsupportedBoard       = "ERR_UNSUPPORTED_BOARD"
	ErrCodeConfigNotFound         = "ERR_CONFIG_NOT_FOUND"
	ErrCodeTemplateNotFound       = "ERR_TEMPLATE_NOT_FOUND"
	ErrCodeMalformedBoardDefaults = "ERR_MALFORMED_BOARD_DEFAULTS"
	ErrCodeInvalidProjectName     = "ERR_INVALID_PROJECT_NAME"
	ErrCodeUnsupportedCoreVariant = "ERR_UNSUPPORTED_CORE_VARIANT"
	ErrCodeNotGenerated           = "ERR_NOT_GENERATED"
	ErrCodeDestinationExists      = "ERR_DESTINATION_EXISTS"
	ErrCodeUnsupportedArchive     = "ERR_UNSUPPORTED_ARCHIVE"
	ErrCodeRenderFailed           = "ERR_RENDER_FAILED"
	ErrCodeFileWrite              = "ERR_FILE_WRITE"
	ErrCodeInvalidConfig          = "ERR_INVALID_CONFIG"
)

// Sentinels for errors.Is. Matching is done on Type and Code only, so any
// EngineError built by the constructors below compares equal to its sentinel.
var (
	ErrUnsupportedBoard       = &EngineError{Type: ErrorTypeConfig, Code: ErrCodeUnsupportedBoard}
	ErrConfigNotFound         = &EngineError{Type: ErrorTypeConfig, Code: ErrCodeConfigNotFound}
	ErrTemplateNotFound       = &EngineError{Type: ErrorTypeTemplate, Code: ErrCodeTemplateNotFound}
	ErrMalformedBoardDefaults = &EngineError{Type: ErrorTypeConfig, Code: ErrCodeMalformedBoardDefaults}
	ErrInvalidProjectName     = &EngineError{Type: ErrorTypeValidation, Code: ErrCodeInvalidProjectName}
	ErrUnsupportedCoreVariant = &EngineError{Type: ErrorTypeValidation, Code: ErrCodeUnsupportedCoreVariant}
	ErrNotGenerated           = &EngineError{Type: ErrorTypeState, Code: ErrCodeNotGenerated}
	ErrDestinationExists      = &EngineError{Type: ErrorTypeIO, Code: ErrCodeDestinationExists}
	ErrUnsupportedArchive     = &EngineError{Type: ErrorTypeArchive, Code: ErrCodeUnsupportedArchive}
	ErrRenderFailed           = &EngineError{Type: ErrorTypeTemplate, Code: ErrCodeRenderFailed}
	ErrFileWrite              = &EngineError{Type: ErrorTypeIO, Code: ErrCodeFileWrite}
	ErrInvalidConfig          = &EngineError{Type: ErrorTypeConfig, Code: ErrCodeInvalidConfig}
)

// EngineError is a structured error type with context.
type EngineError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Context map[string]interface{}
	// Fatal errors abort the whole operation before any file is produced.
	Fatal bool
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *EngineError) Is(target error) bool {
	var t *EngineError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *EngineError) WithContext(key string, value interface{}) *EngineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// IsFatal reports whether err aborts the operation it was raised in.
func IsFatal(err error) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Fatal
	}

	return false
}

// TypeOf returns the type of the first EngineError in err's tree, or "".
func TypeOf(err error) ErrorType {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Type
	}

	return ""
}

// Error creation functions

// UnsupportedBoard reports an unknown board identifier.
func UnsupportedBoard(name string, supported []string) *EngineError {
	return (&EngineError{
		Type:    ErrorTypeConfig,
		Code:    ErrCodeUnsupportedBoard,
		Message: fmt.Sprintf("unsupported board %q (supported: %s)", name, strings.Join(supported, ", ")),
		Fatal:   true,
	}).WithContext("board", name)
}

// ConfigNotFound reports a static asset that could not be resolved.
func ConfigNotFound(name string, cause error) *EngineError {
	return (&EngineError{
		Type:    ErrorTypeConfig,
		Code:    ErrCodeConfigNotFound,
		Message: fmt.Sprintf("static config %q not found", name),
		Cause:   cause,
		Fatal:   true,
	}).WithContext("name", name)
}

// TemplateNotFound reports a template that could not be resolved.
func TemplateNotFound(name string, cause error) *EngineError {
	return (&EngineError{
		Type:    ErrorTypeTemplate,
		Code:    ErrCodeTemplateNotFound,
		Message: fmt.Sprintf("template %q not found", name),
		Cause:   cause,
		Fatal:   true,
	}).WithContext("template", name)
}

// MalformedBoardDefaults reports a required default key that is absent or has the wrong shape.
func MalformedBoardDefaults(source, detail string) *EngineError {
	return (&EngineError{
		Type:    ErrorTypeConfig,
		Code:    ErrCodeMalformedBoardDefaults,
		Message: fmt.Sprintf("malformed defaults in %s: %s", source, detail),
		Fatal:   true,
	}).WithContext("source", source)
}

// InvalidProjectName reports an identifier that fails the project name pattern.
func InvalidProjectName(name string) *EngineError {
	return (&EngineError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeInvalidProjectName,
		Message: fmt.Sprintf("invalid project name '%s'", name),
		Fatal:   true,
	}).WithContext("project_name", name)
}

// UnsupportedCoreVariant reports a core variant outside the known enumeration.
// It is never fatal: callers downgrade to "no secondary core".
func UnsupportedCoreVariant(variant string) *EngineError {
	return (&EngineError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeUnsupportedCoreVariant,
		Message: fmt.Sprintf("unsupported core variant %q", variant),
	}).WithContext("variant", variant)
}

// NotGenerated reports a persistence call made before generate.
func NotGenerated(op string) *EngineError {
	return (&EngineError{
		Type:    ErrorTypeState,
		Code:    ErrCodeNotGenerated,
		Message: op + " called before generate",
		Fatal:   true,
	}).WithContext("operation", op)
}

// DestinationExists reports a destination that exists while rewrite is off.
func DestinationExists(path string) *EngineError {
	return (&EngineError{
		Type:    ErrorTypeIO,
		Code:    ErrCodeDestinationExists,
		Message: fmt.Sprintf("destination %q already exists", path),
		Fatal:   true,
	}).WithContext("path", path)
}

// UnsupportedArchive reports a destination whose archive method cannot be inferred.
func UnsupportedArchive(destination, method string) *EngineError {
	return (&EngineError{
		Type:    ErrorTypeArchive,
		Code:    ErrCodeUnsupportedArchive,
		Message: fmt.Sprintf("unsupported archive method %q for %q", method, destination),
		Fatal:   true,
	}).WithContext("destination", destination)
}

// RenderFailed summarises per-output rendering failures.
func RenderFailed(failed int, cause error) *EngineError {
	return (&EngineError{
		Type:    ErrorTypeTemplate,
		Code:    ErrCodeRenderFailed,
		Message: fmt.Sprintf("%d output(s) failed to render", failed),
		Cause:   cause,
	}).WithContext("failed", failed)
}

// FileWrite wraps a single file-level persistence failure.
func FileWrite(path string, cause error) *EngineError {
	return (&EngineError{
		Type:    ErrorTypeIO,
		Code:    ErrCodeFileWrite,
		Message: fmt.Sprintf("write %s", path),
		Cause:   cause,
	}).WithContext("path", path)
}

// InvalidConfig wraps a failure to load or validate the tool configuration.
func InvalidConfig(cause error) *EngineError {
	return &EngineError{
		Type:    ErrorTypeConfig,
		Code:    ErrCodeInvalidConfig,
		Message: "invalid configuration",
		Cause:   cause,
		Fatal:   true,
	}
}

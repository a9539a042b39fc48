package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigLoad     ErrorCode = "CONFIG_LOAD"
	ErrCodeConfigParse    ErrorCode = "CONFIG_PARSE"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"
	ErrCodeUnknownOption  ErrorCode = "UNKNOWN_OPTION"
	ErrCodeInvalidOption  ErrorCode = "INVALID_OPTION"
	ErrCodeMissingValue   ErrorCode = "MISSING_VALUE"
	ErrCodeNoPattern      ErrorCode = "NO_PATTERN"
	ErrCodeInvalidPattern ErrorCode = "INVALID_PATTERN"

	// Source errors
	ErrCodeSourceRead ErrorCode = "SOURCE_READ"

	// Output errors
	ErrCodeRenderWrite ErrorCode = "RENDER_WRITE"

	// Matching errors
	ErrCodeMatchFailed ErrorCode = "MATCH_FAILED"

	// Generic errors
	ErrCodeInternal ErrorCode = "INTERNAL"
)

var configurationCodes = map[ErrorCode]bool{
	ErrCodeConfigLoad:     true,
	ErrCodeConfigParse:    true,
	ErrCodeConfigInvalid:  true,
	ErrCodeUnknownOption:  true,
	ErrCodeInvalidOption:  true,
	ErrCodeMissingValue:   true,
	ErrCodeNoPattern:      true,
	ErrCodeInvalidPattern: true,
}

// Error represents a structured grepline error
type Error struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Context    map[string]any
	Stack      []Frame
}

// Frame represents a stack frame
type Frame struct {
	Function string
	File     string
	Line     int
}

// New creates a new structured error
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
		Stack:   captureStack(2), // Skip New and caller
	}
}

// Newf creates a new structured error with a formatted message
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Context: make(map[string]any),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with grepline error context
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}

	return &Error{
		Code:       code,
		Message:    message,
		Underlying: err,
		Context:    make(map[string]any),
		Stack:      captureStack(2),
	}
}

// WithContext adds context key-value pairs to the error
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Error implements the error interface
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%s: %v", k, e.Context[k]))
		}
		sb.WriteString("}")
	}

	if e.Underlying != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Underlying))
	}

	return sb.String()
}

// Describe renders the error for a terminal user: the message and the
// underlying cause, without the code or context map.
func (e *Error) Describe() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Underlying)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As
func (e *Error) Unwrap() error {
	return e.Underlying
}

// StackTrace returns a formatted stack trace
func (e *Error) StackTrace() string {
	var sb strings.Builder

	sb.WriteString("Stack trace:\n")
	for i, frame := range e.Stack {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, frame.String()))
		sb.WriteString(fmt.Sprintf("     %s:%d\n", frame.File, frame.Line))
	}

	return sb.String()
}

// String formats a stack frame
func (f Frame) String() string {
	return f.Function
}

// captureStack captures the current call stack
func captureStack(skip int) []Frame {
	const maxDepth = 32
	var pcs [maxDepth]uintptr

	n := runtime.Callers(skip+1, pcs[:])
	frames := make([]Frame, 0, n)

	for i := 0; i < n; i++ {
		pc := pcs[i]
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		file, line := fn.FileLine(pc)

		frames = append(frames, Frame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}

// As finds the first grepline error in err's chain.
func As(err error) (*Error, bool) {
	var target *Error
	if err == nil || !stderrors.As(err, &target) {
		return nil, false
	}
	return target, true
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code ErrorCode) bool {
	target, ok := As(err)
	if !ok {
		return false
	}
	return target.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	target, ok := As(err)
	if !ok {
		return ErrCodeInternal
	}

	return target.Code
}

// IsConfiguration reports whether err is one of the configuration failures
// that abort a run before any source is searched.
func IsConfiguration(err error) bool {
	target, ok := As(err)
	if !ok {
		return false
	}
	return configurationCodes[target.Code]
}

// Package errors provides coded errors for chartwire.
//
// Every failure that crosses a package boundary carries a [Code]. The CLI
// prints [UserMessage], the preview server maps codes to HTTP statuses, and
// callers branch with [Is]:
//
//	fn := chartjs.NewFunction()
//	if err := fn.AddArg("ctx"); err != nil { ... }
//	if err := fn.AddArg("ctx"); errors.Is(err, errors.ErrCodeDuplicateArgument) {
//	    // the parameter list already has ctx
//	}
//
// Codes group as:
//   - INVALID_*, DUPLICATE_ARGUMENT: schema misuse, caught before serialization
//   - EMBEDDING_FAILED, HOOK_FAILED, CONSTRUCT_FAILED: serialization and handoff
//   - NOT_FOUND: charts, spec files and stored entries
//   - NETWORK_ERROR, TIMEOUT: cache, store and publish backends
//
// [Annotate] adds context while keeping the code of the error it wraps, so a
// bad argument name found while loading a spec still reports
// INVALID_ARGUMENT_NAME.
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an error.
type Code string

const (
	// Schema misuse and input validation
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeInvalidChartType    Code = "INVALID_CHART_TYPE"
	ErrCodeInvalidChartID      Code = "INVALID_CHART_ID"
	ErrCodeInvalidFormat       Code = "INVALID_FORMAT"
	ErrCodeInvalidArgumentName Code = "INVALID_ARGUMENT_NAME"
	ErrCodeDuplicateArgument   Code = "DUPLICATE_ARGUMENT"
	ErrCodeInvalidPath         Code = "INVALID_PATH"
	ErrCodeInvalidSpec         Code = "INVALID_SPEC"

	// Serialization and handoff
	ErrCodeEmbedding Code = "EMBEDDING_FAILED"
	ErrCodeHook      Code = "HOOK_FAILED"
	ErrCodeConstruct Code = "CONSTRUCT_FAILED"

	ErrCodeNotFound Code = "NOT_FOUND"

	// Backends
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error. Message describes what failed; Cause, if set, is
// the underlying error.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error formats as "CODE: message: cause". When the cause carries the same
// code, its prefix is dropped so annotated chains read
// "INVALID_SPEC: sales.toml: patch 0: path is required".
func (e *Error) Error() string {
	return string(e.Code) + ": " + e.chain(e.Code)
}

func (e *Error) chain(outer Code) string {
	if e.Cause == nil {
		return e.Message
	}
	if inner, ok := e.Cause.(*Error); ok && inner.Code == outer {
		return e.Message + ": " + inner.chain(outer)
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Annotate adds context to err without changing its classification: the
// result keeps err's code, or uses fallback when err has none. It returns nil
// for a nil err.
func Annotate(err error, fallback Code, format string, args ...any) error {
	if err == nil {
		return nil
	}
	code := GetCode(err)
	if code == "" {
		code = fallback
	}
	return Wrap(code, err, format, args...)
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns err's message chain without codes, for display in the
// CLI, HTTP responses and live-reload messages.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}

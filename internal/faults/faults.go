package faults

import (
	"errors"
	"fmt"
)

// Code identifies a failure class surfaced across process boundaries.
type Code string

const (
	CodeMalformedSource      Code = "malformed_source"
	CodeEmptyDocument        Code = "empty_document"
	CodeUnknownSlideType     Code = "unknown_slide_type"
	CodeMissingRequiredField Code = "missing_required_field"
	CodeInvalidChartData     Code = "invalid_chart_data"
	CodeSlideGeneration      Code = "slide_generation"
	CodeSerialization        Code = "serialization"
	CodeEnhancement          Code = "enhancement"
	CodeAnalysis             Code = "analysis"
	CodeInternal             Code = "internal"
)

// Error is the structured failure reported by the compile pipeline and its
// collaborators. Details carry machine-usable context such as offending
// values and indexes.
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	cause   error
}

// New constructs an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf constructs an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an Error that records cause for errors.Unwrap.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// WithDetail attaches a key/value pair to the error details and returns
// the receiver for chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any, 2)
	}
	e.Details[key] = value
	return e
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches two faults by code so sentinel comparisons work through wrapping.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// CodeOf extracts the fault code from err, or CodeInternal when err is not
// a structured fault.
func CodeOf(err error) Code {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return CodeInternal
}

// From returns the structured fault inside err, or a CodeInternal wrapper
// so boundary layers always have an envelope to encode.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return &Error{Code: CodeInternal, Message: err.Error(), cause: err}
}

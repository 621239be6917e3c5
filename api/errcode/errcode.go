// Package errcode provides a toolkit for defining and assigning error codes
// to resolver failures. An ErrorCode is identified globally by a string Value; when
// registered it is assigned a process-unique numeric code usable for
// identity tests, and an HTTP status a future transport can surface.
package errcode

import (
	"fmt"
)

// ErrorCode represents the error type; the int is used for fast comparison
// and type switching.
type ErrorCode int

// ErrorDescriptor provides relevant information about a given ErrorCode.
type ErrorDescriptor struct {
	// Code is the registered code for this descriptor.
	Code ErrorCode

	// Value provides a unique, string key, often capitalized with
	// underscores, to identify the error code.
	Value string

	// Message is a short, human readable description of the error
	// condition, suitable for a fixed message string.
	Message string

	// Description provides a complete account of the errors purpose,
	// suitable for documentation.
	Description string

	// HTTPStatusCode provides the http status code that is associated with
	// this error condition.
	HTTPStatusCode int
}

// Error returns the ErrorCode's message, which satisfies the error
// interface.
func (ec ErrorCode) Error() string {
	return ec.Descriptor().Message
}

// Descriptor returns the descriptor for the error code.
func (ec ErrorCode) Descriptor() ErrorDescriptor {
	d, ok := errorCodeToDescriptors[ec]
	if !ok {
		return ErrorCodeUnknown.Descriptor()
	}
	return d
}

// String returns the Value of the descriptor.
func (ec ErrorCode) String() string {
	return ec.Descriptor().Value
}

// Message returned the human readable message for the error code.
func (ec ErrorCode) Message() string {
	return ec.Descriptor().Message
}

// WithDetail creates a new Error struct based on the passed-in info and
// overrides the Detail field.
func (ec ErrorCode) WithDetail(detail interface{}) Error {
	return Error{Code: ec, Message: ec.Message()}.WithDetail(detail)
}

// WithArgs creates a new Error struct, using the current ErrorCode, and
// overriding the Message with a formatted string.
func (ec ErrorCode) WithArgs(args ...interface{}) Error {
	return Error{Code: ec, Message: ec.Message()}.WithArgs(args...)
}

// Error provides a wrapper around ErrorCode with extra Details provided.
type Error struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

// Error returns a human readable representation of the error.
func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code.String(), e.Message)
}

// Unwrap allows errors.Is/errors.As to reach the underlying ErrorCode.
func (e Error) Unwrap() error {
	return e.Code
}

// WithDetail will return a new Error, based on the current one, but with the
// Detail set to the provided value.
func (e Error) WithDetail(detail interface{}) Error {
	return Error{
		Code:    e.Code,
		Message: e.Message,
		Detail:  detail,
	}
}

// WithArgs uses the passed-in list of arguments to format the error's
// message, using the format verbs defined in the ErrorCode's Message
// field, and returns a new Error.
func (e Error) WithArgs(args ...interface{}) Error {
	return Error{
		Code:    e.Code,
		Message: fmt.Sprintf(e.Code.Message(), args...),
		Detail:  e.Detail,
	}
}

// HTTPStatusCode returns the http status code for the underlying error
// code, suitable for a transport to surface.
func (e Error) HTTPStatusCode() int {
	return e.Code.Descriptor().HTTPStatusCode
}

// Errors provides the envelope for multiple errors, and a few sugar
// functions for use within the application.
type Errors []error

func (errs Errors) Error() string {
	switch len(errs) {
	case 0:
		return "<nil>"
	case 1:
		return errs[0].Error()
	default:
		msg := "errors:\n"
		for _, err := range errs {
			msg += err.Error() + "\n"
		}
		return msg
	}
}

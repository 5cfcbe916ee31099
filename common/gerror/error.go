package gerror

import (
	"fmt"
)

type Code string

// Error is an error value with a stable code that callers can match on, a
// human friendly message, and an optional wrapped inner error.
type Error struct {
	innerErr error
	// errorText is the full error chain suitable for logging and debugging
	errorText string
	// message is the human friendly error message suitable for display to an end user
	message        string
	code           Code
	httpStatusCode int
}

func NewError(message string, code Code, httpStatusCode int, inner error) Error {
	return Error{
		innerErr:       inner,
		message:        message,
		errorText:      makeErrorText(message, inner),
		code:           code,
		httpStatusCode: httpStatusCode,
	}
}

func (e Error) Error() string {
	if e.errorText != "" {
		return e.errorText
	}
	return e.message
}

func (e Error) Unwrap() error {
	return e.innerErr
}

func (e Error) Message() string {
	return e.message
}

func (e Error) Code() Code {
	return e.code
}

func (e Error) HTTPStatusCode() int {
	return e.httpStatusCode
}

// HasHTTPStatusCode returns true iff the supplied error is a gerror.Error object with the specified HTTP status code.
func HasHTTPStatusCode(err error, statusCode int) bool {
	errorDoc, ok := err.(Error)
	if !ok {
		return false
	}
	return errorDoc.HTTPStatusCode() == statusCode
}

// Wrap returns a copy of the error with the inner error set to the specified err.
func (e Error) Wrap(innerErr error) Error {
	return Error{
		innerErr:       innerErr,
		errorText:      makeErrorText(e.message, innerErr),
		message:        e.message,
		code:           e.code,
		httpStatusCode: e.httpStatusCode,
	}
}

func makeErrorText(message string, inner error) string {
	if inner == nil {
		return message
	}
	return fmt.Sprintf("%s: %s", message, inner.Error())
}

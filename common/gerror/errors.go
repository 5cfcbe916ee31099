package gerror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	ErrCodeInternal          Code = "Internal"
	ErrCodeValidationFailed  Code = "ValidationFailed"
	ErrCodeNotFound          Code = "NotFound"
	ErrCodeAlreadyExists     Code = "AlreadyExists"
	ErrCodeUnauthorized      Code = "Unauthorized"
	ErrCodeRenderFailed      Code = "RenderFailed"
	ErrHttpOperationFailed   Code = "HttpOperationFailed"
	ErrRemoteOperationFailed Code = "RemoteOperationFailed"
)

// ToError locates an Error with the provided code in the error chain and
// returns it. Errors carrying a different code are unwrapped and the search
// continues with their inner error. Returns nil if no match is found.
func ToError(err error, code Code) *Error {
	for err != nil {
		var gErr Error
		if !errors.As(err, &gErr) {
			return nil
		}
		if gErr.Code() == code {
			return &gErr
		}
		err = gErr.Unwrap()
	}
	return nil
}

func NewErrInternal(message string, err error) Error {
	return NewError(message, ErrCodeInternal, http.StatusInternalServerError, err)
}

func IsInternal(err error) bool {
	return ToError(err, ErrCodeInternal) != nil
}

func NewErrValidationFailed(message string) Error {
	return NewError(message, ErrCodeValidationFailed, http.StatusBadRequest, nil)
}

func IsValidationFailed(err error) bool {
	return ToError(err, ErrCodeValidationFailed) != nil
}

func NewErrNotFound(message string) Error {
	return NewError(message, ErrCodeNotFound, http.StatusNotFound, nil)
}

func IsNotFound(err error) bool {
	return ToError(err, ErrCodeNotFound) != nil
}

func NewErrAlreadyExists(message string) Error {
	return NewError(message, ErrCodeAlreadyExists, http.StatusConflict, nil)
}

func IsAlreadyExists(err error) bool {
	return ToError(err, ErrCodeAlreadyExists) != nil
}

func NewErrUnauthorized(message string) Error {
	return NewError(message, ErrCodeUnauthorized, http.StatusUnauthorized, nil)
}

func IsUnauthorized(err error) bool {
	return ToError(err, ErrCodeUnauthorized) != nil
}

// NewErrRenderFailed reports a job whose configuration document could not be
// serialized. The job name is included so batch callers can identify the
// offending job.
func NewErrRenderFailed(jobName string, err error) Error {
	return NewError(
		fmt.Sprintf("error rendering configuration for job %q", jobName),
		ErrCodeRenderFailed,
		http.StatusInternalServerError,
		err,
	)
}

func IsRenderFailed(err error) bool {
	return ToError(err, ErrCodeRenderFailed) != nil
}

func NewErrHttpOperationFailed(statusCode int, message string) Error {
	return NewError(message, ErrHttpOperationFailed, statusCode, nil)
}

func IsHttpOperationFailed(err error) bool {
	return ToError(err, ErrHttpOperationFailed) != nil
}

// NewErrRemoteOperationFailed reports a failed remote store call, naming the
// job and the operation that failed.
func NewErrRemoteOperationFailed(jobName string, operation string, err error) Error {
	return NewError(
		fmt.Sprintf("error performing %s for job %q", operation, jobName),
		ErrRemoteOperationFailed,
		http.StatusInternalServerError,
		err,
	)
}

func IsRemoteOperationFailed(err error) bool {
	return ToError(err, ErrRemoteOperationFailed) != nil
}

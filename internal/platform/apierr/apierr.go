package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes used across the API. Unauthenticated and unauthorized both map to
// 401 so a forbidden row is indistinguishable from a missing session.
const (
	CodeUnauthenticated  = "unauthenticated"
	CodeUnauthorized     = "unauthorized"
	CodeInvalidInput     = "invalid_input"
	CodeNotFound         = "not_found"
	CodeDanglingAnchor   = "dangling_anchor"
	CodeAlreadyResolved  = "already_resolved"
	CodeIngestionFailure = "ingestion_failure"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Unauthenticated(err error) *Error {
	return New(http.StatusUnauthorized, CodeUnauthenticated, err)
}

func Unauthorized(err error) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, err)
}

func InvalidInput(err error) *Error {
	return New(http.StatusBadRequest, CodeInvalidInput, err)
}

func NotFound(err error) *Error {
	return New(http.StatusNotFound, CodeNotFound, err)
}

func DanglingAnchor(err error) *Error {
	return New(http.StatusBadRequest, CodeDanglingAnchor, err)
}

func AlreadyResolved(err error) *Error {
	return New(http.StatusBadRequest, CodeAlreadyResolved, err)
}

func IngestionFailure(err error) *Error {
	return New(http.StatusBadRequest, CodeIngestionFailure, err)
}

// From returns err as an *Error, or nil if it is not one.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

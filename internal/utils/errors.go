package utils

import (
	"errors"
	"net/http"
	"strings"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeRateLimited     Code = "RATE_LIMITED"
	CodeUpstream        Code = "UPSTREAM"
	CodeInternal        Code = "INTERNAL"
)

// AppError carries a client-safe message and a Code that picks the HTTP
// status; Err keeps the cause for logs.
type AppError struct {
	Code    Code
	Op      string // "ProfileService.Update"
	Message string // shown to clients
	Err     error

	// Fields carries per-field validation messages, when any.
	Fields map[string]string
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{e.Op, e.Message} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(parts) == 0 {
		return string(e.Code)
	}
	return strings.Join(parts, ": ")
}

func (e *AppError) Unwrap() error { return e.Err }

func E(code Code, op, msg string, err error) error {
	return &AppError{Code: code, Op: op, Message: msg, Err: err}
}

// Invalid builds an INVALID_ARGUMENT error that lists the offending fields.
func Invalid(op, msg string, fields map[string]string) error {
	return &AppError{Code: CodeInvalidArgument, Op: op, Message: msg, Fields: fields}
}

func IsCode(err error, code Code) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// Conflicts surface as 400 like any other rejected input; upstream
// failures are reported as plain 500s.
var statusByCode = map[Code]int{
	CodeInvalidArgument: http.StatusBadRequest,
	CodeConflict:        http.StatusBadRequest,
	CodeUnauthorized:    http.StatusUnauthorized,
	CodeForbidden:       http.StatusForbidden,
	CodeNotFound:        http.StatusNotFound,
	CodeRateLimited:     http.StatusTooManyRequests,
	CodeUpstream:        http.StatusInternalServerError,
	CodeInternal:        http.StatusInternalServerError,
}

func HTTPStatus(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		if status, ok := statusByCode[ae.Code]; ok {
			return status
		}
		return http.StatusInternalServerError
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Sentinel errors returned by repositories and providers.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

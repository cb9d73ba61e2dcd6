// Package apperr defines the error taxonomy shared by every domain.
// Domains declare package-level sentinels with the constructors below and
// handlers turn any error into an HTTP response with response.FromError.
package apperr

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"library-backend/pkg/logger"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthorized
	KindValidation
	KindRepository
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindRepository:
		return "repository"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind and Code so copies made by Wrap still compare equal
// to the sentinel they came from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

// WithMessage returns a copy of e with a more specific message.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func NotFound(code, message string) *Error     { return New(KindNotFound, code, message) }
func Conflict(code, message string) *Error     { return New(KindConflict, code, message) }
func Forbidden(code, message string) *Error    { return New(KindForbidden, code, message) }
func Unauthorized(code, message string) *Error { return New(KindUnauthorized, code, message) }

var (
	ErrValidation = New(KindValidation, "VALIDATION_ERROR", "invalid request")
	ErrRepository = New(KindRepository, "REPOSITORY_ERROR", "storage failure")
)

// Validation wraps a field-level ozzo validation result. Any other error
// (including validation.InternalError) is returned unchanged.
func Validation(err error) error {
	if err == nil {
		return nil
	}
	var fields validation.Errors
	if errors.As(err, &fields) {
		cp := *ErrValidation
		cp.Details = fields
		cp.Err = err
		return &cp
	}
	var single validation.Error
	if errors.As(err, &single) {
		cp := *ErrValidation
		cp.Message = single.Error()
		cp.Err = err
		return &cp
	}
	return err
}

// Invalid builds a validation error for a single field.
func Invalid(field, message string) *Error {
	cp := *ErrValidation
	cp.Message = field + ": " + message
	cp.Details = map[string]string{field: message}
	return &cp
}

// Repository logs a storage failure and returns a generic error that keeps
// the cause on the chain. Context cancellation is passed through as is.
func Repository(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	logger.Error("repository failure", err, map[string]interface{}{"op": op})
	return ErrRepository.Wrap(err)
}

// KindOf reports the Kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

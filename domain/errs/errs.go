package errs

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindInternal    Kind = "internal"
	KindDecode      Kind = "decode"
	KindValidation  Kind = "validation"
	KindTransport   Kind = "transport"
	KindPersistence Kind = "persistence"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindBusy        Kind = "busy"
)

// Error is the error type returned across service boundaries.
type Error interface {
	error
	Kind() Kind
	Message() string
	Fields() map[string]string
	Unwrap() error
}

type ErrorOpts struct {
	Kind    Kind
	Message string
	Fields  map[string]string
}

type appError struct {
	kind    Kind
	message string
	fields  map[string]string
	cause   error
}

var _ Error = &appError{}

func (e *appError) Error() string {
	switch {
	case e.message != "" && e.cause != nil:
		return fmt.Sprintf("%s: %s", e.message, e.cause.Error())
	case e.message != "":
		return e.message
	case e.cause != nil:
		return e.cause.Error()
	default:
		return string(e.kind)
	}
}

func (e *appError) Kind() Kind                { return e.kind }
func (e *appError) Fields() map[string]string { return e.fields }
func (e *appError) Unwrap() error             { return e.cause }

func (e *appError) Message() string {
	if e.message != "" {
		return e.message
	}
	if e.cause != nil {
		return e.cause.Error()
	}
	return string(e.kind)
}

// WrapAppError wraps err into an Error. An err that already is an Error keeps
// its kind unless opts names a different one.
func WrapAppError(err error, opts *ErrorOpts) Error {
	if err == nil {
		return nil
	}
	if opts == nil {
		opts = &ErrorOpts{}
	}

	var existing Error
	if errors.As(err, &existing) && opts.Kind == "" && opts.Message == "" && opts.Fields == nil {
		return existing
	}

	kind := opts.Kind
	if kind == "" {
		if existing != nil {
			kind = existing.Kind()
		} else {
			kind = KindInternal
		}
	}

	fields := opts.Fields
	if fields == nil && existing != nil {
		fields = existing.Fields()
	}

	return &appError{kind: kind, message: opts.Message, fields: fields, cause: err}
}

func New(kind Kind, message string) Error {
	return &appError{kind: kind, message: message}
}

func Newf(kind Kind, format string, args ...any) Error {
	return &appError{kind: kind, message: fmt.Sprintf(format, args...)}
}

func Validation(message string, fields map[string]string) Error {
	return &appError{kind: KindValidation, message: message, fields: fields}
}

func Decode(err error) Error {
	return WrapAppError(err, &ErrorOpts{Kind: KindDecode, Message: "file is not a readable spreadsheet"})
}

func Transport(err error, message string) Error {
	return WrapAppError(err, &ErrorOpts{Kind: KindTransport, Message: message})
}

func Persistence(err error, message string) Error {
	return WrapAppError(err, &ErrorOpts{Kind: KindPersistence, Message: message})
}

// KindOf reports the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e Error
	if errors.As(err, &e) {
		return e.Kind()
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func HttpStatus(kind Kind) int {
	switch kind {
	case KindDecode:
		return http.StatusUnprocessableEntity
	case KindValidation:
		return http.StatusBadRequest
	case KindTransport:
		return http.StatusBadGateway
	case KindPersistence:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindBusy:
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}

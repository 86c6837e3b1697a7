// Package apperr defines the error taxonomy shared by the loan usecases.
//
// Every failure a caller can act on carries a Kind. Callers match on the kind
// sentinels with errors.Is and read the machine code and message with
// errors.As.
package apperr

import "fmt"

type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindInvalidState Kind = "invalid_state"
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
)

// Sentinels for errors.Is(err, apperr.ErrNotFound) style checks.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrInvalidState = &Error{Kind: KindInvalidState}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrForbidden    = &Error{Kind: KindForbidden}
)

// Code is a machine-readable error code.
type Code string

const (
	CodeInvalidInput        Code = "INVALID_INPUT"
	CodePendingLoanExists   Code = "PENDING_LOAN_EXISTS"
	CodeActiveLoanExists    Code = "ACTIVE_LOAN_EXISTS"
	CodeInvalidTransition   Code = "INVALID_STATUS_TRANSITION"
	CodeLoanNotFound        Code = "LOAN_NOT_FOUND"
	CodeNoActiveLoan        Code = "NO_ACTIVE_LOAN"
	CodeNoPendingLoan       Code = "NO_PENDING_LOAN"
	CodeTransactionNotFound Code = "TRANSACTION_NOT_FOUND"
	CodeInsufficientRole    Code = "INSUFFICIENT_ROLE"
	CodeReferenceTaken      Code = "REFERENCE_ALREADY_POSTED"
)

type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error of the same kind, so sentinels compare by kind only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" && t.Code != e.Code {
		return false
	}
	return t.Kind == e.Kind
}

func newf(kind Kind, code Code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// ValidationFields reports one message per offending field.
func ValidationFields(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Code: CodeInvalidInput, Message: "validation failed", Fields: fields}
}

func Conflict(code Code, format string, args ...any) *Error {
	return newf(KindConflict, code, format, args...)
}

func InvalidState(format string, args ...any) *Error {
	return newf(KindInvalidState, CodeInvalidTransition, format, args...)
}

func NotFound(code Code, format string, args ...any) *Error {
	return newf(KindNotFound, code, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newf(KindForbidden, CodeInsufficientRole, format, args...)
}

// Wrap attaches an underlying cause, e.g. a driver duplicate-key error.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.cause = cause
	return &cp
}


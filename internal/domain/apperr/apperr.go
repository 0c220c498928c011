package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies failures for transport mapping. Local validation and state
// checks always run before the settlement call, so Validation/Authorization/
// Conflict errors imply no external side effect happened.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindSettlement
	KindPersistence
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Msg: msg} }

func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Msg: msg} }

func NotFound(what string) error { return &Error{Kind: KindNotFound, Msg: what + " not found"} }

func Conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Settlement wraps a failed/reverted ledger call. No local mutation has been
// committed when one of these surfaces.
func Settlement(err error) error {
	return &Error{Kind: KindSettlement, Msg: "settlement transaction failed", Err: err}
}

// Persistence marks a local write that failed after a confirmed settlement
// call. This is a fatal inconsistency to reconcile, not something to retry
// silently.
func Persistence(err error) error {
	return &Error{Kind: KindPersistence, Msg: "local commit failed", Err: err}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsKind(err error, k Kind) bool { return KindOf(err) == k }

// HTTPStatus maps the taxonomy onto conventional status codes.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

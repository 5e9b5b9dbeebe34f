package errorModel

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindUnavailable   Kind = "unavailable"
	KindQuota         Kind = "quota"
	KindDataIntegrity Kind = "data_integrity"
	KindPersistence   Kind = "persistence"
	KindInternal      Kind = "internal"
)

// Error is the structured failure every layer above the adapters reports.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Detail + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func Wrap(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// DetailOf returns the user-facing detail, never the wrapped cause.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return "Internal Server Error"
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation, KindDataIntegrity:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable, KindQuota:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// CanRetry separates "retry later" from "fix your input".
func CanRetry(kind Kind) bool {
	switch kind {
	case KindUnavailable, KindQuota, KindPersistence:
		return true
	default:
		return false
	}
}

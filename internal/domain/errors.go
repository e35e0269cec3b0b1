package domain

import "fmt"

// ErrorKind enumerates the stable, serialisable error categories every
// core operation reports. Kinds are stable short codes; Message carries
// the human-readable detail.
type ErrorKind string

const (
	ErrNotFound     ErrorKind = "not-found"
	ErrInvalidInput ErrorKind = "invalid-input"
	ErrConflict     ErrorKind = "conflict"
	ErrPersistence  ErrorKind = "persistence"
	ErrScheduler    ErrorKind = "scheduler"
	ErrCancelled    ErrorKind = "cancelled"
	ErrInternal     ErrorKind = "internal"
)

// Error is the tagged error every command surface returns. It carries a
// stable Kind for programmatic dispatch and a Message for humans.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a tagged error with an optional wrapped cause.
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidInputf(format string, args ...any) *Error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func Persistencef(cause error, format string, args ...any) *Error {
	return &Error{Kind: ErrPersistence, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func Schedulerf(format string, args ...any) *Error {
	return &Error{Kind: ErrScheduler, Message: fmt.Sprintf(format, args...)}
}

func Cancelledf(format string, args ...any) *Error {
	return &Error{Kind: ErrCancelled, Message: fmt.Sprintf(format, args...)}
}

func Internalf(cause error, format string, args ...any) *Error {
	return &Error{Kind: ErrInternal, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf extracts the Kind of a domain error, defaulting to internal for
// anything that isn't one of ours.
func KindOf(err error) ErrorKind {
	var de *Error
	if ok := asDomainError(err, &de); ok {
		return de.Kind
	}
	return ErrInternal
}

func asDomainError(err error, target **Error) bool {
	for err != nil {
		if de, ok := err.(*Error); ok {
			*target = de
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

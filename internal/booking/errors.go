package booking

import "fmt"

// ErrKind classifies an engine failure; the HTTP layer maps kinds to
// status codes.
type ErrKind int

const (
	KindStore ErrKind = iota
	KindValidation
	KindConflict
	KindCapacity
	KindNotFound
	KindForbidden
	KindInvalidState
)

type Error struct {
	Kind    ErrKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func errf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func storeErr(op string, err error) *Error {
	return &Error{Kind: KindStore, Message: op + " failed", Err: err}
}

// KindOf extracts the kind; unclassified errors count as store failures.
func KindOf(err error) ErrKind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindStore
}

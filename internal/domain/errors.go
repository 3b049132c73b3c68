package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across layers.
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrSessionBusy       = errors.New("session already has a request in flight")
	ErrInvalidTransition = errors.New("invalid flow transition")
	ErrNotImplemented    = errors.New("not implemented")
)

// ErrorKind classifies failures for the caller. The kind decides the
// user-visible message; the wrapped error is for logs.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindValidation is a malformed action request or list item draft.
	KindValidation
	// KindAuthorization is an attempted cross-owner mutation or a missing identity.
	KindAuthorization
	// KindStorage is a backend failure on insert/update/delete/select.
	KindStorage
	// KindModel is a transport, timeout, or empty-response failure from the LLM.
	KindModel
	// KindContract is model output that breaks an invariant it was asked to keep.
	KindContract
	// KindCancelled is a flow abandoned by the caller.
	KindCancelled
)

// String returns the machine-readable kind used in logs and API responses.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindStorage:
		return "storage"
	case KindModel:
		return "model"
	case KindContract:
		return "contract_violation"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error is the typed error returned by the core. Op names the operation
// that failed ("dispatch.update", "matcher.check").
type Error struct {
	Kind ErrorKind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds a typed error with a formatted message.
func Errorf(kind ErrorKind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// WrapError attaches a kind and operation to err. Returns nil for a nil err.
func WrapError(kind ErrorKind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the outermost typed error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage collapses err into a single human-readable sentence.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrSessionBusy):
		return "Still working on your last request."
	case errors.Is(err, ErrInvalidTransition):
		return "That doesn't apply right now."
	case errors.Is(err, ErrNotFound):
		return "Not found."
	}
	switch KindOf(err) {
	case KindValidation:
		return "That request didn't describe a valid change to your list. Try rephrasing it."
	case KindAuthorization:
		return "That item isn't on your list."
	case KindStorage:
		return "Your list couldn't be updated right now. Please try again."
	case KindModel:
		return "The assistant is unavailable right now. Please try again."
	case KindContract:
		return "Something went wrong while checking that. Please try again."
	case KindCancelled:
		return "Cancelled."
	default:
		return "An unexpected error occurred."
	}
}

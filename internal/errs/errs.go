// Package errs implements the closed error taxonomy of spec.md §7 as a
// tagged variant rather than an inheritance hierarchy, per spec.md §9's
// re-architecture guidance for class-based error taxonomies.
package errs

import (
	"errors"
	"fmt"
)

// Kind closes the top-level error taxonomy.
type Kind string

const (
	KindValidation       Kind = "validation_error"
	KindRemote           Kind = "remote_error"
	KindTimeout          Kind = "timeout_error"
	KindPersistence      Kind = "persistence_error"
	KindValidationFailure Kind = "validation_failure"
	KindFatal            Kind = "fatal"
)

// RemoteSubtype closes the RemoteError subtype enum.
type RemoteSubtype string

const (
	SubtypeNotFound  RemoteSubtype = "not_found"
	SubtypeQuota     RemoteSubtype = "quota"
	SubtypeAccess    RemoteSubtype = "access"
	SubtypeTransient RemoteSubtype = "transient"
	SubtypeFatal     RemoteSubtype = "fatal"
)

// Error is the single concrete error type for the whole taxonomy.
type Error struct {
	Kind      Kind
	Subtype   RemoteSubtype // only meaningful when Kind == KindRemote
	Remaining int           // rate-limit remaining, when known
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	if e.Subtype != "" {
		return fmt.Sprintf("%s/%s: %s", e.Kind, e.Subtype, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is supports errors.Is against sentinel Kind/Subtype combinations produced
// by the New* constructors below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Subtype != "" && t.Subtype != e.Subtype {
		return false
	}
	return true
}

func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func NewRemote(subtype RemoteSubtype, remaining int, message string, cause error) *Error {
	return &Error{Kind: KindRemote, Subtype: subtype, Remaining: remaining, Message: message, Cause: cause}
}

func NewTimeout(message string, cause error) *Error {
	return &Error{Kind: KindTimeout, Message: message, Cause: cause}
}

func NewPersistence(message string, cause error) *Error {
	return &Error{Kind: KindPersistence, Message: message, Cause: cause}
}

// Retryable reports whether C2's retry executor should retry err: exactly
// the quota and transient RemoteError subtypes, or a governor reporting
// zero remaining quota via the same shape.
func Retryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	if e.Kind != KindRemote {
		return false
	}
	return e.Subtype == SubtypeQuota || e.Subtype == SubtypeTransient
}

// ShortCode renders a stable, user-visible code for err without leaking the
// raw message into persisted fields (spec.md §7: "a stable short code is
// surfaced while the full error is logged").
func ShortCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return string(KindFatal)
	}
	if e.Subtype != "" {
		return string(e.Kind) + ":" + string(e.Subtype)
	}
	return string(e.Kind)
}

// internal/domain/homework/errors.go
package homework

import (
	"errors"
	"fmt"
)

// Kind classifies a failed cycle stage.
type Kind int

const (
	KindUnknown Kind = iota
	KindTransport
	KindUnexpectedStatus
	KindMalformedBody
	KindShape
	KindMissingField
	KindUnknownStatus
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnexpectedStatus:
		return "unexpected_status"
	case KindMalformedBody:
		return "malformed_body"
	case KindShape:
		return "shape"
	case KindMissingField:
		return "missing_field"
	case KindUnknownStatus:
		return "unknown_status"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks against *Error values.
var (
	ErrTransport        = errors.New("api request failed")
	ErrUnexpectedStatus = errors.New("unexpected api response status")
	ErrMalformedBody    = errors.New("api response body is not valid json")
	ErrShape            = errors.New("api response has unexpected shape")
	ErrMissingField     = errors.New("homework record is missing a field")
	ErrUnknownStatus    = errors.New("unknown homework status")
)

func (k Kind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindUnexpectedStatus:
		return ErrUnexpectedStatus
	case KindMalformedBody:
		return ErrMalformedBody
	case KindShape:
		return ErrShape
	case KindMissingField:
		return ErrMissingField
	case KindUnknownStatus:
		return ErrUnknownStatus
	default:
		return nil
	}
}

// Error is the failure value returned by every stage of a poll cycle.
type Error struct {
	Kind       Kind
	Op         string // stage that failed, e.g. "fetch", "check_response"
	StatusCode int    // HTTP status, set for KindUnexpectedStatus and KindMalformedBody
	Detail     string
	Err        error // underlying cause, optional
}

func (e *Error) Error() string {
	msg := e.Kind.sentinel()
	if msg == nil {
		msg = errors.New("homework error")
	}
	s := fmt.Sprintf("%s: %v", e.Op, msg)
	if e.StatusCode != 0 {
		s += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind. A malformed body also
// matches ErrUnexpectedStatus.
func (e *Error) Is(target error) bool {
	if s := e.Kind.sentinel(); s != nil && s == target {
		return true
	}
	return e.Kind == KindMalformedBody && target == ErrUnexpectedStatus
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var he *Error
	if errors.As(err, &he) {
		return he.Kind
	}
	return KindUnknown
}

func newError(kind Kind, op, detail string) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail}
}

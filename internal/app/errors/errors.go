package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure by the pipeline stage that produced it.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindDecode        Kind = "decode"
	KindIO            Kind = "io"
	KindTranscription Kind = "transcription"
	KindReply         Kind = "reply"
)

// Reason narrows down a transcription failure.
type Reason string

const (
	ReasonUnknown     Reason = "unknown"
	ReasonAuth        Reason = "auth"
	ReasonRateLimited Reason = "rate_limited"
	ReasonRejected    Reason = "rejected"
	ReasonService     Reason = "service"
	ReasonNetwork     Reason = "network"
)

// Category sentinels, matched with errors.Is.
var (
	ErrConfiguration = &Error{kind: KindConfiguration, message: "configuration error", sentinel: true}
	ErrDecode        = &Error{kind: KindDecode, message: "decode error", sentinel: true}
	ErrIO            = &Error{kind: KindIO, message: "io error", sentinel: true}
	ErrTranscription = &Error{kind: KindTranscription, message: "transcription error", sentinel: true}
	ErrReply         = &Error{kind: KindReply, message: "reply error", sentinel: true}
)

// Error represents a standardized error
type Error struct {
	kind     Kind
	reason   Reason
	message  string
	cause    error
	sentinel bool
}

// New creates a new error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Newf creates a new formatted error of the given kind
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a kind and additional context
func Wrap(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, message: message, cause: err}
}

// Wrapf wraps an error with a kind and formatted context
func Wrapf(kind Kind, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, message: fmt.Sprintf(format, args...), cause: err}
}

// Transcription wraps a failure of the remote transcription call.
func Transcription(reason Reason, err error, message string) error {
	return Remote(KindTranscription, reason, err, message)
}

// Remote wraps a failed call to an external service with a reason.
func Remote(kind Kind, reason Reason, err error, message string) error {
	if reason == "" {
		reason = ReasonUnknown
	}
	return &Error{kind: kind, reason: reason, message: message, cause: err}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the failure category.
func (e *Error) Kind() Kind {
	return e.kind
}

// Reason returns the remote failure reason, empty for local failures.
func (e *Error) Reason() Reason {
	return e.reason
}

// Is reports whether target is the category sentinel of e, or an error with the same message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.sentinel {
		return e.kind == t.kind
	}
	return e.kind == t.kind && e.message == t.message
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if !stderrors.As(err, &e) {
		return "", false
	}
	return e.kind, true
}

// ReasonOf returns the reason of the first remote-call error in err's chain.
func ReasonOf(err error) Reason {
	for err != nil {
		if e, ok := err.(*Error); ok && e.reason != "" {
			return e.reason
		}
		err = stderrors.Unwrap(err)
	}
	return ""
}

// RequiredField returns a configuration error for missing required fields
func RequiredField(field string) error {
	return Newf(KindConfiguration, "%s is required", field)
}

// InvalidField returns a configuration error for invalid field values
func InvalidField(field string, reason string) error {
	return Newf(KindConfiguration, "%s is invalid: %s", field, reason)
}

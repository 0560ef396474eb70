// Package jerrors defines the wire shape for errors returned to GraphQL
// clients and the kind taxonomy the engine uses internally.
package jerrors

import (
	"errors"
	"fmt"
)

// Kind is one of the error kinds the engine distinguishes when propagating
// a failure to the wire response. The wire message is prefixed by the kind
// so client-side tests can assert on it without parsing extensions.
type Kind string

const (
	KindParse         Kind = "ParseError"
	KindCompiler      Kind = "CompilerError"
	KindInvalidArg    Kind = "InvalidArgument"
	KindInvalidCursor Kind = "InvalidCursor"
	KindUnauthorized  Kind = "Unauthorized"
	KindExecution     Kind = "ExecutionError"
	KindCancelled     Kind = "Cancelled"
	KindUnknown       Kind = "Unknown"
)

// Error is the shape serialized into the response's "errors" array.
type Error struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions,omitempty"`
	Paths      []interface{}  `json:"paths,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// kindError carries a Kind alongside the underlying cause so ConvertError
// can recover it without string-matching the message.
type kindError struct {
	kind Kind
	path []interface{}
	err  error
}

func (k *kindError) Error() string {
	return fmt.Sprintf("%s: %s", k.kind, k.err)
}

func (k *kindError) Unwrap() error {
	return k.err
}

// New wraps err with kind so ConvertError produces the right prefix and
// extensions code. path, if given, is attached as the field path.
func New(kind Kind, path []interface{}, format string, args ...interface{}) error {
	return &kindError{kind: kind, path: path, err: fmt.Errorf(format, args...)}
}

// Wrap attaches kind to an existing error without reformatting its message.
func Wrap(kind Kind, path []interface{}, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, path: path, err: err}
}

// KindOf returns the Kind carried by err, or KindUnknown if err was not
// produced by New/Wrap.
func KindOf(err error) Kind {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return KindUnknown
}

// PathOf returns the field path carried by err, if any.
func PathOf(err error) []interface{} {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.path
	}
	return nil
}

// ConvertError turns any error into the wire Error shape, prefixing the
// message with the error's Kind and surfacing its path when the error
// carries one. Unauthorized errors never surface the specific role/claim
// that was missing, only the rule kind.
func ConvertError(err error) *Error {
	if err == nil {
		return nil
	}

	var ke *kindError
	if errors.As(err, &ke) {
		msg := fmt.Sprintf("%s: %s", ke.kind, ke.err)
		if ke.kind == KindUnauthorized {
			msg = string(KindUnauthorized) + ": not authorized"
		}
		return &Error{
			Message:    msg,
			Extensions: map[string]any{"code": string(ke.kind)},
			Paths:      ke.path,
		}
	}

	return &Error{
		Message:    err.Error(),
		Extensions: map[string]any{"code": string(KindUnknown)},
	}
}

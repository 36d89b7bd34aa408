package apperr

import "errors"

// Kind classifies an error so handlers can pick the right HTTP response
// without inspecting message strings.
type Kind int

const (
	Validation Kind = iota + 1
	Unauthorized
	Forbidden
	NotFound
	Unavailable
	Internal
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a plain error of the given kind.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of err, or Internal if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func IsNotFound(err error) bool   { return KindOf(err) == NotFound }
func IsValidation(err error) bool { return KindOf(err) == Validation }

package canon

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a document could not be canonicalized.
type ErrorKind int

// Error kinds. Every kind is terminal for the document it occurred on.
const (
	// NotFound means the target path did not exist.
	NotFound ErrorKind = iota + 1
	// ReadError means the content could not be read or decoded as text.
	ReadError
	// ParseError means the content is not syntactically valid JSON.
	ParseError
	// WriteError means rendering or writing the result failed.
	WriteError
)

func (k ErrorKind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case ReadError:
		return "ReadError"
	case ParseError:
		return "ParseError"
	case WriteError:
		return "WriteError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a classified canonicalization failure.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}

	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf returns an *Error of the given kind wrapping a formatted cause.
func Errorf(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the ErrorKind carried by err.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return 0, false
}

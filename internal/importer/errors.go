package importer

import (
	"errors"
	"fmt"
)

// Kind classifies why an import failed.
type Kind int

const (
	KindSourceRead Kind = iota + 1
	KindStructural
	KindEmptyResult
	KindTransport
	KindPersist
	KindInFlight
)

func (k Kind) String() string {
	switch k {
	case KindSourceRead:
		return "source_read"
	case KindStructural:
		return "structural"
	case KindEmptyResult:
		return "empty_result"
	case KindTransport:
		return "transport"
	case KindPersist:
		return "persist"
	case KindInFlight:
		return "in_flight"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ImportError is the single failure an Import call returns.
// Msg is suitable for showing to the user as is.
type ImportError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *ImportError) Error() string {
	return e.Msg
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

func fail(kind Kind, msg string, err error) *ImportError {
	return &ImportError{Kind: kind, Msg: msg, Err: err}
}

// IsKind reports whether err is an ImportError of kind k.
func IsKind(err error, k Kind) bool {
	var ie *ImportError
	return errors.As(err, &ie) && ie.Kind == k
}

package refactor

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/phobologic/modgen/internal/qname"
)

// Kind classifies a refactoring failure.
type Kind string

const (
	KindNotFound      Kind = "not found"
	KindMalformedName Kind = "malformed name"
	KindConflict      Kind = "conflict"
	KindIO            Kind = "io"
)

// Error is returned by every failing rename operation.
type Error struct {
	Kind Kind
	Op   string // what was being attempted, e.g. "move package"
	Path string // offending path or name, if any
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func notFound(op, path string) error {
	return &Error{Kind: KindNotFound, Op: op, Path: path, Err: fs.ErrNotExist}
}

func conflict(op, path string) error {
	return &Error{Kind: KindConflict, Op: op, Path: path, Err: fs.ErrExist}
}

func ioError(op, path string, err error) error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}

// parseName wraps qname.Parse failures in the refactor taxonomy.
func parseName(op, s string) (qname.Name, error) {
	n, err := qname.Parse(s)
	if err != nil {
		return qname.Name{}, &Error{Kind: KindMalformedName, Op: op, Path: s, Err: err}
	}
	return n, nil
}

func malformed(op, name string, err error) error {
	return &Error{Kind: KindMalformedName, Op: op, Path: name, Err: err}
}

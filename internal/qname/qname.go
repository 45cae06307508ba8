// Package qname models dot-separated qualified names (packages and classes)
// and rewrites their occurrences in source text.
package qname

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrMalformed is returned when a name lacks the structure an operation needs.
var ErrMalformed = errors.New("malformed qualified name")

// Name is an ordered, non-empty sequence of identifier segments.
// The zero value is not a valid name; use Parse.
type Name struct {
	segments []string
}

// Parse splits s on dots and validates each segment.
func Parse(s string) (Name, error) {
	if s == "" {
		return Name{}, fmt.Errorf("%w: empty name", ErrMalformed)
	}
	parts := strings.Split(s, ".")
	for _, p := range parts {
		if err := validSegment(p); err != nil {
			return Name{}, fmt.Errorf("%w: %q: %v", ErrMalformed, s, err)
		}
	}
	return Name{segments: parts}, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) Name {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

// FromPath converts a slash- or separator-joined relative path into a name.
func FromPath(rel string) (Name, error) {
	rel = filepath.ToSlash(filepath.Clean(rel))
	if rel == "." || rel == "" {
		return Name{}, fmt.Errorf("%w: empty path", ErrMalformed)
	}
	return Parse(strings.ReplaceAll(rel, "/", "."))
}

func validSegment(seg string) error {
	if seg == "" {
		return errors.New("empty segment")
	}
	for i, r := range seg {
		if r == '/' || r == '\\' {
			return errors.New("segment contains a path separator")
		}
		if i == 0 && unicode.IsDigit(r) {
			return fmt.Errorf("segment %q starts with a digit", seg)
		}
		if !IsIdentRune(r) {
			return fmt.Errorf("segment %q contains %q", seg, r)
		}
	}
	return nil
}

// IsIdentRune reports whether r can appear inside a Java or Kotlin identifier.
func IsIdentRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// String returns the dot-joined form.
func (n Name) String() string {
	return strings.Join(n.segments, ".")
}

// Segments returns a copy of the segments.
func (n Name) Segments() []string {
	return append([]string(nil), n.segments...)
}

// Len returns the number of segments.
func (n Name) Len() int {
	return len(n.segments)
}

// IsZero reports whether n was never parsed.
func (n Name) IsZero() bool {
	return len(n.segments) == 0
}

// Path joins the segments with the OS path separator.
func (n Name) Path() string {
	return filepath.Join(n.segments...)
}

// Parent returns all segments but the last. A single-segment name has no
// enclosing scope and yields ErrMalformed.
func (n Name) Parent() (Name, error) {
	if len(n.segments) < 2 {
		return Name{}, fmt.Errorf("%w: %q has no enclosing package", ErrMalformed, n.String())
	}
	return Name{segments: n.segments[:len(n.segments)-1:len(n.segments)-1]}, nil
}

// Last returns the final segment.
func (n Name) Last() string {
	if len(n.segments) == 0 {
		return ""
	}
	return n.segments[len(n.segments)-1]
}

// Child returns n with seg appended.
func (n Name) Child(seg string) Name {
	segs := make([]string, 0, len(n.segments)+1)
	segs = append(segs, n.segments...)
	return Name{segments: append(segs, seg)}
}

// Equal reports whether both names have the same segments.
func (n Name) Equal(o Name) bool {
	return n.String() == o.String()
}

// Contains reports whether o equals n or lies beneath it (a.b contains a.b.c
// but not a.bc).
func (n Name) Contains(o Name) bool {
	if len(o.segments) < len(n.segments) {
		return false
	}
	for i, s := range n.segments {
		if o.segments[i] != s {
			return false
		}
	}
	return true
}

func lastRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r, true
}

func firstRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, true
}

package qname

import "strings"

// Occurrence is a token-boundary match of a name in a text.
type Occurrence struct {
	Offset int // byte offset of the first character
	Line   int // 1-based
	Column int // 1-based, in bytes
}

// Find returns every complete-token occurrence of name in text, in order.
//
// A match must not be preceded by an identifier rune or a dot, and must not
// be followed by an identifier rune. A following dot is allowed so that
// members of a package (a.b.Foo) are found when searching for a.b.
func Find(text string, name Name) []Occurrence {
	needle := name.String()
	if needle == "" {
		return nil
	}

	var occs []Occurrence
	line, lineStart, scanned := 1, 0, 0
	for _, off := range matchOffsets(text, needle) {
		for scanned < off {
			if text[scanned] == '\n' {
				line++
				lineStart = scanned + 1
			}
			scanned++
		}
		occs = append(occs, Occurrence{
			Offset: off,
			Line:   line,
			Column: off - lineStart + 1,
		})
	}
	return occs
}

// Rewrite replaces every complete-token occurrence of old in text with
// repl, using the same boundary rule as Find. It returns the new text and
// the number of replacements; zero replacements is not an error.
func Rewrite(text string, old, repl Name) (string, int) {
	needle := old.String()
	if needle == "" {
		return text, 0
	}
	offs := matchOffsets(text, needle)
	if len(offs) == 0 {
		return text, 0
	}

	replacement := repl.String()
	var b strings.Builder
	b.Grow(len(text) + len(offs)*(len(replacement)-len(needle)))
	prev := 0
	for _, off := range offs {
		b.WriteString(text[prev:off])
		b.WriteString(replacement)
		prev = off + len(needle)
	}
	b.WriteString(text[prev:])
	return b.String(), len(offs)
}

func matchOffsets(text, needle string) []int {
	var offs []int
	for from := 0; from <= len(text)-len(needle); {
		i := strings.Index(text[from:], needle)
		if i < 0 {
			break
		}
		off := from + i
		end := off + len(needle)
		if isBoundaryBefore(text[:off]) && isBoundaryAfter(text[end:]) {
			offs = append(offs, off)
			from = end
			continue
		}
		from = off + 1
	}
	return offs
}

func isBoundaryBefore(prefix string) bool {
	r, ok := lastRune(prefix)
	if !ok {
		return true
	}
	return r != '.' && !IsIdentRune(r)
}

func isBoundaryAfter(suffix string) bool {
	r, ok := firstRune(suffix)
	if !ok {
		return true
	}
	return !IsIdentRune(r)
}

// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/modgen/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// EncodeReport converts a rename Report into TOON format.
func EncodeReport(r *model.Report) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("operation: %s", encodeValue(string(r.Operation))))
	parts = append(parts, fmt.Sprintf("language: %s", encodeValue(r.Language)))
	parts = append(parts, fmt.Sprintf("from: %s", encodeValue(r.From)))
	parts = append(parts, fmt.Sprintf("to: %s", encodeValue(r.To)))

	var moveRows [][]string
	for i := range r.Moves {
		m := &r.Moves[i]
		moveRows = append(moveRows, []string{m.From, m.To})
	}
	parts = append(parts, formatTabular("moves", []string{"from", "to"}, moveRows))

	var editRows [][]string
	for i := range r.Edits {
		e := &r.Edits[i]
		editRows = append(editRows, []string{
			e.Path,
			fmt.Sprintf("%d", e.Declarations),
			fmt.Sprintf("%d", e.References),
		})
	}
	parts = append(parts, formatTabular("edits", []string{"path", "declarations", "references"}, editRows))

	return strings.Join(parts, "\n")
}

// EncodeReferences lists the occurrences of name in TOON format.
func EncodeReferences(name string, refs []model.Reference) string {
	var rows [][]string
	for i := range refs {
		ref := &refs[i]
		rows = append(rows, []string{
			ref.File,
			fmt.Sprintf("%d", ref.Line),
			fmt.Sprintf("%d", ref.Column),
		})
	}
	return fmt.Sprintf("name: %s\n", encodeValue(name)) +
		formatTabular("references", []string{"file", "line", "column"}, rows)
}

// EncodeCheck converts a CheckReport into TOON format.
func EncodeCheck(cr *model.CheckReport) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(cr.Root)))
	parts = append(parts, fmt.Sprintf("files: %d", cr.Files))

	var rows [][]string
	for i := range cr.Problems {
		p := &cr.Problems[i]
		rows = append(rows, []string{p.File, string(p.Kind), p.Expected, p.Actual})
	}
	parts = append(parts, formatTabular("problems", []string{"file", "kind", "expected", "actual"}, rows))

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}

// Package model defines core data structures for modgen.
package model

// Operation names a refactoring performed on a source tree.
type Operation string

const (
	RenamePackage Operation = "rename-package"
	RenameClass   Operation = "rename-class"
)

// TypeKind indicates the syntactic kind of a top-level type declaration.
type TypeKind string

const (
	Class      TypeKind = "class"
	Interface  TypeKind = "interface"
	Enum       TypeKind = "enum"
	Record     TypeKind = "record"
	Annotation TypeKind = "annotation"
	Object     TypeKind = "object"
)

// Move records a file or directory relocated by a rename.
type Move struct {
	From string // Relative to project root
	To   string
}

// Edit records the textual substitutions applied to one file.
type Edit struct {
	Path         string // Relative to project root
	Declarations int    // package or type declaration lines rewritten
	References   int    // token-boundary occurrences rewritten
}

// Report describes the outcome of a single rename operation.
type Report struct {
	Operation Operation
	Language  string
	From      string
	To        string
	Moves     []Move
	Edits     []Edit
}

// AddEdit merges counts for path into the report, keeping one entry per file.
func (r *Report) AddEdit(path string, declarations, references int) {
	if declarations == 0 && references == 0 {
		return
	}
	for i := range r.Edits {
		if r.Edits[i].Path == path {
			r.Edits[i].Declarations += declarations
			r.Edits[i].References += references
			return
		}
	}
	r.Edits = append(r.Edits, Edit{Path: path, Declarations: declarations, References: references})
}

// Reference is one occurrence of a qualified name in the project.
type Reference struct {
	File   string
	Line   int
	Column int
}

// TypeDecl is a top-level type declared in a source file.
type TypeDecl struct {
	Name string
	Kind TypeKind
	Line int
}

// Declarations holds what a source file declares about itself.
type Declarations struct {
	Package     string // "" when the file has no package declaration
	PackageLine int
	Types       []TypeDecl
}

// ProblemKind classifies a layout-convention violation found by check.
type ProblemKind string

const (
	PackageMismatch ProblemKind = "package-mismatch"
	MissingType     ProblemKind = "missing-type"
)

// Problem is one layout-convention violation.
type Problem struct {
	File     string
	Kind     ProblemKind
	Expected string
	Actual   string
}

// CheckReport is the result of inspecting a project's source roots.
type CheckReport struct {
	Root     string
	Files    int
	Problems []Problem
}

// Package lang provides the fixed registry of supported source languages:
// where their files live, how they are named, and how they declare packages
// and types.
package lang

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/modgen/internal/model"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Language names. The set is closed.
const (
	Java   = "java"
	Kotlin = "kotlin"
)

// Language holds the layout conventions and tree-sitter grammar for a
// supported language. Values are shared and must not be modified.
type Language struct {
	Name string

	// SourceDir is the directory under <root>/src/main holding this
	// language's files.
	SourceDir string

	// Extension is the source file suffix, including the dot.
	Extension string

	// PackageDecl is a fmt template for the package declaration line,
	// parameterised by the dotted package name.
	PackageDecl string

	// TypeKeywords introduce a top-level type declaration.
	TypeKeywords []string

	lang *sitter.Language

	// packageNode is the tree-sitter node type of the package declaration.
	packageNode string

	// typeNodes maps tree-sitter declaration node types to their kind.
	typeNodes map[string]model.TypeKind

	// textNodes are the comment and literal node types whose text is data,
	// not code.
	textNodes map[string]struct{}
}

// GetLanguage returns the tree-sitter Language pointer.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// PackageNodeType returns the tree-sitter node type of a package declaration.
func (l *Language) PackageNodeType() string {
	return l.packageNode
}

// TypeKindForNode returns the declaration kind for a tree-sitter node type,
// or "" if the node does not declare a type.
func (l *Language) TypeKindForNode(nodeType string) model.TypeKind {
	return l.typeNodes[nodeType]
}

// IsTextNode reports whether a tree-sitter node type is a comment or a
// string or character literal.
func (l *Language) IsTextNode(nodeType string) bool {
	_, ok := l.textNodes[nodeType]
	return ok
}

// SourceRoot returns <root>/src/main/<SourceDir>.
func (l *Language) SourceRoot(root string) string {
	return filepath.Join(root, "src", "main", l.SourceDir)
}

// Declaration returns the package declaration line for pkg.
func (l *Language) Declaration(pkg string) string {
	return fmt.Sprintf(l.PackageDecl, pkg)
}

// FileName returns the file name holding a top-level type.
func (l *Language) FileName(simpleName string) string {
	return simpleName + l.Extension
}

func (l *Language) String() string {
	return l.Name
}

// registry maps language names to their configuration.
// Populated by init() functions in per-language files and never changed after.
var registry = map[string]*Language{}

// Lookup returns the language with the given name.
func Lookup(name string) (*Language, error) {
	l, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unsupported language %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return l, nil
}

// Names returns the supported language names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every supported language, sorted by name.
func All() []*Language {
	var all []*Language
	for _, name := range Names() {
		all = append(all, registry[name])
	}
	return all
}

// ForExtension returns the language for a file extension, or nil if unsupported.
func ForExtension(ext string) *Language {
	for _, l := range registry {
		if l.Extension == ext {
			return l
		}
	}
	return nil
}

// Detect returns the only language whose source root exists under root.
func Detect(root string) (*Language, error) {
	var found []*Language
	for _, l := range All() {
		info, err := os.Stat(l.SourceRoot(root))
		if err == nil && info.IsDir() {
			found = append(found, l)
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return nil, fmt.Errorf("no source root found under %s/src/main (tried %s)", root, strings.Join(Names(), ", "))
	default:
		return nil, fmt.Errorf("several source roots under %s/src/main; pick a language explicitly", root)
	}
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

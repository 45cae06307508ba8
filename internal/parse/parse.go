// Package parse extracts package and top-level type declarations from source
// files using tree-sitter.
package parse

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/modgen/internal/lang"
	"github.com/phobologic/modgen/internal/model"
)

// Declarations parses a source file and returns its package declaration and
// top-level type declarations. The parser must be created for l.
func Declarations(l *lang.Language, parser *sitter.Parser, source []byte) model.Declarations {
	var decls model.Declarations
	if len(source) == 0 {
		return decls
	}

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return decls
	}
	defer tree.Close()

	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		if node.Type() == l.PackageNodeType() {
			if decls.Package == "" {
				decls.Package = packageName(node, source)
				decls.PackageLine = int(node.StartPoint().Row) + 1
			}
			continue
		}

		kind := l.TypeKindForNode(node.Type())
		if kind == "" {
			continue
		}
		name := typeName(node, source)
		if name == "" {
			continue
		}
		if kind == model.Class && hasChildOfType(node, "interface") {
			kind = model.Interface
		}
		decls.Types = append(decls.Types, model.TypeDecl{
			Name: name,
			Kind: kind,
			Line: int(node.StartPoint().Row) + 1,
		})
	}

	return decls
}

// Span is a half-open byte range of a source file.
type Span struct {
	Start, End int
}

// TextSpans returns the byte ranges of comments and string and character
// literals in source, in order. The parser must be created for l.
func TextSpans(l *lang.Language, parser *sitter.Parser, source []byte) []Span {
	if len(source) == 0 {
		return nil
	}
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil
	}
	defer tree.Close()

	var spans []Span
	collectTextSpans(l, tree.RootNode(), &spans)
	return spans
}

func collectTextSpans(l *lang.Language, node *sitter.Node, spans *[]Span) {
	if l.IsTextNode(node.Type()) {
		*spans = append(*spans, Span{Start: int(node.StartByte()), End: int(node.EndByte())})
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectTextSpans(l, node.Child(i), spans)
	}
}

// packageName returns the dotted name of a package declaration node. Java
// puts it in an identifier or scoped_identifier child, Kotlin in an
// identifier child made of simple_identifiers.
func packageName(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "identifier", "scoped_identifier":
			return stripSpace(lang.NodeText(child, source))
		}
	}
	// Fall back to the statement text minus keyword and terminator.
	text := strings.TrimSpace(lang.NodeText(node, source))
	text = strings.TrimPrefix(text, "package")
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")
	return stripSpace(text)
}

// typeName returns the declared name of a type declaration node.
func typeName(node *sitter.Node, source []byte) string {
	if name := node.ChildByFieldName("name"); name != nil {
		return lang.NodeText(name, source)
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "type_identifier", "identifier", "simple_identifier":
			return lang.NodeText(child, source)
		}
	}
	return ""
}

func hasChildOfType(node *sitter.Node, typ string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == typ {
			return true
		}
	}
	return false
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

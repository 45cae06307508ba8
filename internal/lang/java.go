package lang

import (
	"github.com/smacker/go-tree-sitter/java"

	"github.com/phobologic/modgen/internal/model"
)

func init() {
	registry[Java] = &Language{
		Name:         Java,
		SourceDir:    "java",
		Extension:    ".java",
		PackageDecl:  "package %s;",
		TypeKeywords: []string{"class", "interface", "enum", "record"},
		lang:         java.GetLanguage(),
		packageNode:  "package_declaration",
		typeNodes: map[string]model.TypeKind{
			"class_declaration":           model.Class,
			"interface_declaration":       model.Interface,
			"enum_declaration":            model.Enum,
			"record_declaration":          model.Record,
			"annotation_type_declaration": model.Annotation,
		},
		// string_literal covers text blocks too.
		textNodes: map[string]struct{}{
			"line_comment":      {},
			"block_comment":     {},
			"string_literal":    {},
			"character_literal": {},
		},
	}
}

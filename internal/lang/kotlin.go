package lang

import (
	"github.com/smacker/go-tree-sitter/kotlin"

	"github.com/phobologic/modgen/internal/model"
)

func init() {
	registry[Kotlin] = &Language{
		Name:         Kotlin,
		SourceDir:    "kotlin",
		Extension:    ".kt",
		PackageDecl:  "package %s",
		TypeKeywords: []string{"class", "interface", "object"},
		lang:         kotlin.GetLanguage(),
		packageNode:  "package_header",
		// class_declaration also covers interfaces and enum classes; parse
		// refines the kind from the keyword child.
		typeNodes: map[string]model.TypeKind{
			"class_declaration":  model.Class,
			"object_declaration": model.Object,
		},
		textNodes: map[string]struct{}{
			"line_comment":      {},
			"multiline_comment": {},
			"string_literal":    {},
			"character_literal": {},
		},
	}
}

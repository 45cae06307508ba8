package scaffold

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/phobologic/modgen/internal/qname"
)

type manifestEdit struct {
	modID, name        string
	oldMain, newMain   qname.Name
	oldPackage         qname.Name
	newPackage         qname.Name
	oldMixin, newMixin string
}

// updateModManifest rewrites fabric.mod.json: id, name, an empty
// description, entrypoints and the mixins entry.
func updateModManifest(path string, e manifestEdit) error {
	doc, mode, err := readJSON(path)
	if err != nil {
		return err
	}

	doc["id"] = e.modID
	doc["name"] = e.name
	doc["description"] = ""

	entrypoints, _ := doc["entrypoints"].(map[string]any)
	if entrypoints == nil {
		entrypoints = make(map[string]any)
		doc["entrypoints"] = entrypoints
	}
	for key, v := range entrypoints {
		entrypoints[key] = rewriteEntrypoints(v, e)
	}
	if _, ok := entrypoints["main"]; !ok {
		entrypoints["main"] = []any{e.newMain.String()}
	}

	if mixins, ok := doc["mixins"].([]any); ok {
		for i, m := range mixins {
			switch m := m.(type) {
			case string:
				if m == e.oldMixin {
					mixins[i] = e.newMixin
				}
			case map[string]any:
				if m["config"] == e.oldMixin {
					m["config"] = e.newMixin
				}
			}
		}
	}

	return writeJSON(path, doc, mode)
}

// rewriteEntrypoints handles the three shapes an entrypoint list takes: a
// single class name, an array of class names, or an array of
// {"adapter": ..., "value": ...} objects.
func rewriteEntrypoints(v any, e manifestEdit) any {
	switch v := v.(type) {
	case string:
		return rewriteEntrypoint(v, e)
	case []any:
		for i, item := range v {
			switch item := item.(type) {
			case string:
				v[i] = rewriteEntrypoint(item, e)
			case map[string]any:
				if s, ok := item["value"].(string); ok {
					item["value"] = rewriteEntrypoint(s, e)
				}
			}
		}
	}
	return v
}

// rewriteEntrypoint follows the main class rename first, then the package
// rename for any other class the template declared.
func rewriteEntrypoint(s string, e manifestEdit) string {
	if out, n := qname.Rewrite(s, e.oldMain, e.newMain); n > 0 {
		return out
	}
	out, _ := qname.Rewrite(s, e.oldPackage, e.newPackage)
	return out
}

// updateMixinPackage moves the mixin config's "package" from the template
// package to the renamed one.
func updateMixinPackage(path string, oldPkg, newPkg qname.Name) error {
	doc, mode, err := readJSON(path)
	if err != nil {
		return err
	}
	pkg, _ := doc["package"].(string)
	if pkg == "" {
		return nil
	}
	doc["package"], _ = qname.Rewrite(pkg, oldPkg, newPkg)
	return writeJSON(path, doc, mode)
}

// updateGradleProperties replaces the template's maven group and archive
// base name in gradle.properties.
func updateGradleProperties(path, oldGroup, newGroup, oldBase, newBase string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading gradle properties: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading gradle properties: %w", err)
	}
	text := string(data)
	if oldGroup != "" {
		text = strings.ReplaceAll(text, oldGroup, newGroup)
	}
	if oldBase != "" {
		text = strings.ReplaceAll(text, oldBase, newBase)
	}
	if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing gradle properties: %w", err)
	}
	return nil
}

func readJSON(path string) (map[string]any, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	if doc == nil {
		doc = make(map[string]any)
	}
	return doc, info.Mode().Perm(), nil
}

func writeJSON(path string, doc map[string]any, mode os.FileMode) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

package refactor

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/phobologic/modgen/internal/lang"
	"github.com/phobologic/modgen/internal/model"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// readTree returns the content of every file under root keyed by its
// slash-separated relative path.
func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return tree
}

func assertTree(t *testing.T, root string, want map[string]string) {
	t.Helper()
	if diff := cmp.Diff(want, readTree(t, root)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func newTestRenamer(t *testing.T, root string, l *lang.Language) *Renamer {
	t.Helper()
	return New(root, l, Options{Logger: zaptest.NewLogger(t)})
}

func mustLang(t *testing.T, name string) *lang.Language {
	t.Helper()
	l, err := lang.Lookup(name)
	require.NoError(t, err)
	return l
}

func TestRewriteLines(t *testing.T) {
	t.Parallel()

	in := "  package a.b;\r\nimport a.b.C;\npackage a.b; // trailing\npackage a.b;"
	out, decls, refs := rewriteLines(in, "package a.b;", "package x.y;", nil)
	assert.Equal(t, "  package x.y;\r\nimport a.b.C;\npackage a.b; // trailing\npackage x.y;", out)
	assert.Equal(t, 2, decls)
	assert.Zero(t, refs)

	out, decls, _ = rewriteLines("package a.b", "package a.b", "package a.b", nil)
	assert.Equal(t, "package a.b", out)
	assert.Zero(t, decls)
}

func TestRewriteTypeDeclaration(t *testing.T) {
	t.Parallel()

	keywords := []string{"class", "interface", "enum", "record"}
	tests := []struct {
		name  string
		in    string
		want  string
		count int
	}{
		{"class", "public class Foo {", "public class Bar {", 1},
		{"interface", "interface Foo extends X", "interface Bar extends X", 1},
		{"generic", "class Foo<T> {}", "class Bar<T> {}", 1},
		{"line start", "record Foo(int a) {}", "record Bar(int a) {}", 1},
		{"longer name", "class FooBar {}", "class FooBar {}", 0},
		{"keyword suffix", "subclass Foo", "subclass Foo", 0},
		{"not a declaration", "new Foo();", "new Foo();", 0},
		{"end of text", "class Foo", "class Bar", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, n := rewriteTypeDeclaration(tt.in, keywords, "Foo", "Bar")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.count, n)
		})
	}
}

func TestWithin(t *testing.T) {
	t.Parallel()

	assert.True(t, within("/a/b", "/a/b"))
	assert.True(t, within("/a/b/c", "/a/b"))
	assert.False(t, within("/a/bc", "/a/b"))
	assert.False(t, within("/a", "/a/b"))
	assert.True(t, within("/a/..b", "/a"))
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	r := New(t.TempDir(), mustLang(t, lang.Java), Options{})
	assert.NotNil(t, r.logger)
	assert.True(t, r.rollback)

	r = New(t.TempDir(), mustLang(t, lang.Java), Options{NoRollback: true})
	assert.False(t, r.rollback)
}

func TestEndToEnd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lang     string
		original map[string]string
		want     map[string]string
	}{
		{
			lang: lang.Java,
			original: map[string]string{
				"src/main/java/net/fabricmc/example/ExampleMod.java": "package net.fabricmc.example;\n\npublic class ExampleMod implements ModInitializer {\n}\n",
				"src/main/java/com/other/Hook.java":                  "package com.other;\n\nimport net.fabricmc.example.ExampleMod;\n",
			},
			want: map[string]string{
				"src/main/java/net/fabricmc/example2/ExampleMod2.java": "package net.fabricmc.example2;\n\npublic class ExampleMod2 implements ModInitializer {\n}\n",
				"src/main/java/com/other/Hook.java":                    "package com.other;\n\nimport net.fabricmc.example2.ExampleMod2;\n",
			},
		},
		{
			lang: lang.Kotlin,
			original: map[string]string{
				"src/main/kotlin/net/fabricmc/example/ExampleMod.kt": "package net.fabricmc.example\n\nobject ExampleMod : ModInitializer {\n}\n",
				"src/main/kotlin/com/other/Hook.kt":                  "package com.other\n\nimport net.fabricmc.example.ExampleMod\n",
			},
			want: map[string]string{
				"src/main/kotlin/net/fabricmc/example2/ExampleMod2.kt": "package net.fabricmc.example2\n\nobject ExampleMod2 : ModInitializer {\n}\n",
				"src/main/kotlin/com/other/Hook.kt":                    "package com.other\n\nimport net.fabricmc.example2.ExampleMod2\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			for rel, content := range tt.original {
				writeFile(t, root, rel, content)
			}
			l := mustLang(t, tt.lang)

			require.NoError(t, RenamePackage(root, l, "net.fabricmc.example", "net.fabricmc.example2"))
			require.NoError(t, RenameClass(root, l, "net.fabricmc.example2.ExampleMod", "net.fabricmc.example2.ExampleMod2"))

			assertTree(t, root, tt.want)
		})
	}
}

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	err := ioError("move package", "x", fs.ErrPermission)
	assert.Equal(t, KindIO, KindOf(err))
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, "move package: io: x: permission denied", err.Error())

	assert.True(t, IsKind(notFound("rename class", "A.java"), KindNotFound))
	assert.ErrorIs(t, conflict("rename class", "B.java"), fs.ErrExist)
	assert.Equal(t, Kind(""), KindOf(fs.ErrClosed))
}

func TestReportAddEditMergesByPath(t *testing.T) {
	t.Parallel()

	var r model.Report
	r.AddEdit("A.java", 1, 0)
	r.AddEdit("B.java", 0, 0)
	r.AddEdit("A.java", 0, 2)
	assert.Equal(t, []model.Edit{{Path: "A.java", Declarations: 1, References: 2}}, r.Edits)
}

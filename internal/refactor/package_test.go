package refactor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/modgen/internal/lang"
	"github.com/phobologic/modgen/internal/model"
)

func TestRenamePackage(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/main/java/net/fabricmc/example/ExampleMod.java",
		"package net.fabricmc.example;\n\npublic class ExampleMod {}\n")
	writeFile(t, root, "src/main/java/net/fabricmc/example/mixin/ExampleMixin.java",
		"package net.fabricmc.example.mixin;\n\nimport net.fabricmc.example.ExampleMod;\n")
	writeFile(t, root, "src/main/java/com/other/Use.java",
		"package com.other;\n\nimport net.fabricmc.example.ExampleMod;\nimport net.fabricmc.examples.Other;\n")
	writeFile(t, root, "src/main/kotlin/com/other/Util.kt",
		"package com.other\n\nval id = net.fabricmc.example.ExampleMod.MOD_ID\n")
	writeFile(t, root, "src/main/resources/fabric.mod.json", `{"main": "net.fabricmc.example.ExampleMod"}`)

	report, err := newTestRenamer(t, root, mustLang(t, lang.Java)).RenamePackage("net.fabricmc.example", "com.acme.mod")
	require.NoError(t, err)

	assertTree(t, root, map[string]string{
		"src/main/java/com/acme/mod/ExampleMod.java":         "package com.acme.mod;\n\npublic class ExampleMod {}\n",
		"src/main/java/com/acme/mod/mixin/ExampleMixin.java": "package com.acme.mod.mixin;\n\nimport com.acme.mod.ExampleMod;\n",
		"src/main/java/com/other/Use.java":                   "package com.other;\n\nimport com.acme.mod.ExampleMod;\nimport net.fabricmc.examples.Other;\n",
		"src/main/kotlin/com/other/Util.kt":                  "package com.other\n\nval id = com.acme.mod.ExampleMod.MOD_ID\n",
		// Not a source file.
		"src/main/resources/fabric.mod.json": `{"main": "net.fabricmc.example.ExampleMod"}`,
	})

	// The vacated net/fabricmc chain is gone; the source root stays.
	assert.NoDirExists(t, filepath.Join(root, "src/main/java/net"))
	assert.DirExists(t, filepath.Join(root, "src/main/java"))

	assert.Equal(t, model.RenamePackage, report.Operation)
	assert.Equal(t, []model.Move{{From: "src/main/java/net/fabricmc/example", To: "src/main/java/com/acme/mod"}}, report.Moves)
	assert.ElementsMatch(t, []model.Edit{
		{Path: "src/main/java/com/acme/mod/ExampleMod.java", Declarations: 1},
		{Path: "src/main/java/com/acme/mod/mixin/ExampleMixin.java", References: 2},
		{Path: "src/main/java/com/other/Use.java", References: 1},
		{Path: "src/main/kotlin/com/other/Util.kt", References: 1},
	}, report.Edits)
}

func TestRenamePackageReachesPackagesNamedLikeBuildDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/main/java/net/x/Foo.java", "package net.x;\n\nclass Foo {}\n")
	for _, pkg := range []string{"build", "run", "util"} {
		writeFile(t, root, "src/main/java/com/acme/"+pkg+"/Use.java",
			"package com.acme."+pkg+";\n\nimport net.x.Foo;\n")
	}

	_, err := newTestRenamer(t, root, mustLang(t, lang.Java)).RenamePackage("net.x", "net.y")
	require.NoError(t, err)

	assertTree(t, root, map[string]string{
		"src/main/java/net/y/Foo.java":          "package net.y;\n\nclass Foo {}\n",
		"src/main/java/com/acme/build/Use.java": "package com.acme.build;\n\nimport net.y.Foo;\n",
		"src/main/java/com/acme/run/Use.java":   "package com.acme.run;\n\nimport net.y.Foo;\n",
		"src/main/java/com/acme/util/Use.java":  "package com.acme.util;\n\nimport net.y.Foo;\n",
	})

	refs, err := FindReferences(root, "net.y.Foo")
	require.NoError(t, err)
	assert.Len(t, refs, 3)
}

func TestRenamePackageKeepsSiblings(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/main/kotlin/a/b/c/C.kt", "package a.b.c\n")
	writeFile(t, root, "src/main/kotlin/a/b/d/D.kt", "package a.b.d\n")

	_, err := newTestRenamer(t, root, mustLang(t, lang.Kotlin)).RenamePackage("a.b.c", "x.c")
	require.NoError(t, err)

	assertTree(t, root, map[string]string{
		"src/main/kotlin/x/c/C.kt":   "package x.c\n",
		"src/main/kotlin/a/b/d/D.kt": "package a.b.d\n",
	})
	assert.NoDirExists(t, filepath.Join(root, "src/main/kotlin/a/b/c"))
	assert.DirExists(t, filepath.Join(root, "src/main/kotlin/a/b"))
}

func TestRenamePackageIntoSubpackage(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/main/java/a/b/X.java", "package a.b;\n\nimport a.b.inner.Y;\n")
	writeFile(t, root, "src/main/java/a/b/inner/Y.java", "package a.b.inner;\n")

	_, err := newTestRenamer(t, root, mustLang(t, lang.Java)).RenamePackage("a.b", "a.b.c")
	require.NoError(t, err)

	assertTree(t, root, map[string]string{
		"src/main/java/a/b/c/X.java":       "package a.b.c;\n\nimport a.b.c.inner.Y;\n",
		"src/main/java/a/b/c/inner/Y.java": "package a.b.c.inner;\n",
	})
}

func TestRenamePackageToAncestor(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/main/java/a/b/c/X.java", "package a.b.c;\n")

	_, err := newTestRenamer(t, root, mustLang(t, lang.Java)).RenamePackage("a.b.c", "a.b")
	require.NoError(t, err)

	assertTree(t, root, map[string]string{
		"src/main/java/a/b/X.java": "package a.b;\n",
	})
	assert.NoDirExists(t, filepath.Join(root, "src/main/java/a/b/c"))
}

func TestRenamePackageMergesExistingDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/main/java/a/old/X.java", "package a.old;\n")
	writeFile(t, root, "src/main/java/a/old/sub/Z.java", "package a.old.sub;\n")
	writeFile(t, root, "src/main/java/a/fresh/Y.java", "package a.fresh;\n")

	report, err := newTestRenamer(t, root, mustLang(t, lang.Java)).RenamePackage("a.old", "a.fresh")
	require.NoError(t, err)

	assertTree(t, root, map[string]string{
		"src/main/java/a/fresh/X.java":     "package a.fresh;\n",
		"src/main/java/a/fresh/Y.java":     "package a.fresh;\n",
		"src/main/java/a/fresh/sub/Z.java": "package a.fresh.sub;\n",
	})
	assert.NoDirExists(t, filepath.Join(root, "src/main/java/a/old"))
	assert.Len(t, report.Moves, 1)

	entries, err := os.ReadDir(filepath.Join(root, "src/main/java"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "staging directory must not be left behind")
	assert.Equal(t, "a", entries[0].Name())
}

func TestRenamePackageConflict(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	original := map[string]string{
		"src/main/java/a/old/X.java":   "package a.old;\n",
		"src/main/java/a/fresh/X.java": "package a.fresh;\n",
		"src/main/java/c/Use.java":     "import a.old.X;\n",
	}
	for rel, content := range original {
		writeFile(t, root, rel, content)
	}

	_, err := newTestRenamer(t, root, mustLang(t, lang.Java)).RenamePackage("a.old", "a.fresh")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConflict), "got %v", err)
	assertTree(t, root, original)
}

func TestRenamePackageNotFound(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/main/java/a/b/X.java", "package a.b;\n")

	_, err := newTestRenamer(t, root, mustLang(t, lang.Java)).RenamePackage("a.missing", "a.c")
	assert.True(t, IsKind(err, KindNotFound), "got %v", err)

	// The Kotlin source root does not exist at all.
	err = RenamePackage(root, mustLang(t, lang.Kotlin), "a.b", "a.c")
	assert.True(t, IsKind(err, KindNotFound), "got %v", err)

	// A file where the package directory should be.
	writeFile(t, root, "src/main/java/a/file", "")
	_, err = newTestRenamer(t, root, mustLang(t, lang.Java)).RenamePackage("a.file", "a.c")
	assert.True(t, IsKind(err, KindNotFound), "got %v", err)
}

func TestRenamePackageMalformed(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/main/java/a/b/X.java", "package a.b;\n")
	r := newTestRenamer(t, root, mustLang(t, lang.Java))

	for _, tt := range []struct{ old, new string }{
		{"", "a.c"},
		{"a..b", "a.c"},
		{"a.b", "a/c"},
		{"a.b", "1a.c"},
		{"a.b", "a.c."},
	} {
		_, err := r.RenamePackage(tt.old, tt.new)
		assert.True(t, IsKind(err, KindMalformedName), "%q -> %q: got %v", tt.old, tt.new, err)
	}
	assertTree(t, root, map[string]string{"src/main/java/a/b/X.java": "package a.b;\n"})
}

func TestRenamePackageSameName(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	original := map[string]string{
		"src/main/java/a/b/X.java": "package a.b;\n\nclass X { a.b.X self; }\n",
		"src/main/java/c/Use.java": "import a.b.X;\n",
	}
	for rel, content := range original {
		writeFile(t, root, rel, content)
	}

	report, err := newTestRenamer(t, root, mustLang(t, lang.Java)).RenamePackage("a.b", "a.b")
	require.NoError(t, err)
	assert.Empty(t, report.Moves)
	assert.Empty(t, report.Edits)
	assertTree(t, root, original)
}

func TestRenamePackageSeveralDeclarationLines(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/main/java/a/b/X.java", "package a.b;\n/*\npackage a.b;\n*/\n")
	writeFile(t, root, "src/main/java/a/b/Y.java", "// no declaration\n")

	report, err := newTestRenamer(t, root, mustLang(t, lang.Java)).RenamePackage("a.b", "c.d")
	require.NoError(t, err)

	assertTree(t, root, map[string]string{
		"src/main/java/c/d/X.java": "package c.d;\n/*\npackage c.d;\n*/\n",
		"src/main/java/c/d/Y.java": "// no declaration\n",
	})
	assert.Equal(t, []model.Edit{{Path: "src/main/java/c/d/X.java", Declarations: 2}}, report.Edits)
}

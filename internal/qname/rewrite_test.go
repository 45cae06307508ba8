package qname

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        string
		old, repl string
		want      string
		count     int
	}{
		{"exact", "a.b", "a.b", "a.c", "a.c", 1},
		{"member", "import a.b.Foo;", "a.b", "a.c", "import a.c.Foo;", 1},
		{"wildcard import", "import a.b.*;", "a.b", "a.c", "import a.c.*;", 1},
		{"longer segment", "a.bx", "a.b", "a.c", "a.bx", 0},
		{"identifier before", "xa.b", "a.b", "a.c", "xa.b", 0},
		{"inside dotted chain", "q.a.b.z", "a.b", "a.c", "q.a.b.z", 0},
		{"dollar is identifier", "a.b$1", "a.b", "a.c", "a.b$1", 0},
		{"unicode identifier", "éa.b a.bé", "a.b", "a.c", "éa.b a.bé", 0},
		{"string literal", `"a.b"`, "a.b", "a.c", `"a.c"`, 1},
		{"no match", "nothing here", "a.b", "a.c", "nothing here", 0},
		{"empty text", "", "a.b", "a.c", "", 0},
		{"overlapping candidates", "a.a.b", "a.b", "x.y", "a.a.b", 0},
		{"shrinking", "package net.fabricmc.example;", "net.fabricmc.example", "n", "package n;", 1},
		{
			name:  "mixed true and deceptive matches",
			in:    "import a.b.C;\nimport a.bc.D;\nimport q.a.b.z;\nval x = a.b\nval y = xa.b + a.bx\n",
			old:   "a.b",
			repl:  "a.c",
			want:  "import a.c.C;\nimport a.bc.D;\nimport q.a.b.z;\nval x = a.c\nval y = xa.b + a.bx\n",
			count: 2,
		},
		{
			name:  "fully qualified class",
			in:    "net.fabricmc.example.ExampleMod.LOGGER.info(net.fabricmc.example.ExampleModule.X)",
			old:   "net.fabricmc.example.ExampleMod",
			repl:  "net.fabricmc.example2.ExampleMod2",
			want:  "net.fabricmc.example2.ExampleMod2.LOGGER.info(net.fabricmc.example.ExampleModule.X)",
			count: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, n := Rewrite(tt.in, MustParse(tt.old), MustParse(tt.repl))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.count, n)
		})
	}
}

func TestRewriteIdentity(t *testing.T) {
	t.Parallel()

	in := "package a.b;\nimport a.b.C;\n"
	got, n := Rewrite(in, MustParse("a.b"), MustParse("a.b"))
	assert.Equal(t, in, got)
	assert.Equal(t, 2, n)
}

func TestFind(t *testing.T) {
	t.Parallel()

	text := "package a.b;\n\nimport a.bc.X;\n  use(a.b.Y)\n"
	occs := Find(text, MustParse("a.b"))
	require.Len(t, occs, 2)

	assert.Equal(t, Occurrence{Offset: 8, Line: 1, Column: 9}, occs[0])
	assert.Equal(t, 4, occs[1].Line)
	assert.Equal(t, 7, occs[1].Column)
	assert.Equal(t, "a.b", text[occs[1].Offset:occs[1].Offset+3])
}

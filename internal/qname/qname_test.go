package qname

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		wantErr bool
	}{
		{"net.fabricmc.example", false},
		{"ExampleMod", false},
		{"a.b$Inner", false},
		{"_x.y1", false},
		{"", true},
		{"a..b", true},
		{".a", true},
		{"a.", true},
		{"a/b", true},
		{"a.1b", true},
		{"a b", true},
		{"a-b.c", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			n, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformed), "error %v should wrap ErrMalformed", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in, n.String())
		})
	}
}

func TestPathRoundTrip(t *testing.T) {
	t.Parallel()

	n := MustParse("net.fabricmc.example")
	assert.Equal(t, filepath.Join("net", "fabricmc", "example"), n.Path())

	back, err := FromPath(n.Path())
	require.NoError(t, err)
	assert.True(t, back.Equal(n))

	_, err = FromPath(".")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParent(t *testing.T) {
	t.Parallel()

	n := MustParse("net.fabricmc.example.ExampleMod")
	p, err := n.Parent()
	require.NoError(t, err)
	assert.Equal(t, "net.fabricmc.example", p.String())
	assert.Equal(t, "ExampleMod", n.Last())

	// Appending to the parent must not clobber the original's backing array.
	child := p.Child("Other")
	assert.Equal(t, "net.fabricmc.example.Other", child.String())
	assert.Equal(t, "net.fabricmc.example.ExampleMod", n.String())

	_, err = MustParse("ExampleMod").Parent()
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestContains(t *testing.T) {
	t.Parallel()

	ab := MustParse("a.b")
	assert.True(t, ab.Contains(MustParse("a.b")))
	assert.True(t, ab.Contains(MustParse("a.b.c")))
	assert.False(t, ab.Contains(MustParse("a.bc")))
	assert.False(t, ab.Contains(MustParse("a")))
	assert.False(t, MustParse("a.b.c").Contains(ab))
}

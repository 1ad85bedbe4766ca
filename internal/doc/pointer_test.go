package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePointer(t *testing.T) {
	tests := []struct {
		in   string
		want Pointer
	}{
		{"", Pointer{}},
		{"/", Pointer{""}},
		{"/a", Pointer{"a"}},
		{"/a/0/b", Pointer{"a", "0", "b"}},
		{"/a~1b", Pointer{"a/b"}},
		{"/m~0n", Pointer{"m~n"}},
		{"/~01", Pointer{"~1"}},
		{"/-", Pointer{"-"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePointer(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
			assert.Equal(t, tt.in, p.String(), "wire form round trip")
		})
	}
}

func TestParsePointerErrors(t *testing.T) {
	for _, in := range []string{"a", "a/b", "/a~2b", "/a~"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParsePointer(in)
			assert.Error(t, err)
		})
	}
}

func TestPointerChildDoesNotAlias(t *testing.T) {
	parent, err := ParsePointer("/a")
	require.NoError(t, err)
	c1 := parent.Child("x")
	c2 := parent.Child("y")
	assert.Equal(t, "/a/x", c1.String())
	assert.Equal(t, "/a/y", c2.String())
}

func TestStrictPrefixOf(t *testing.T) {
	a := Pointer{"a"}
	ab := Pointer{"a", "b"}
	assert.True(t, a.StrictPrefixOf(ab))
	assert.False(t, ab.StrictPrefixOf(a))
	assert.False(t, a.StrictPrefixOf(a), "a pointer is not its own strict prefix")
	assert.False(t, Pointer{"a"}.StrictPrefixOf(Pointer{"ab", "c"}))
	assert.True(t, Pointer{}.StrictPrefixOf(a), "root contains everything")
}

func TestResolve(t *testing.T) {
	root := mustParse(t, `{"a": {"b": [10, 20]}, "": 7, "x/y": 8}`)

	tests := []struct {
		ptr  string
		want Value
	}{
		{"", root},
		{"/a/b/1", Number("20")},
		{"/", Number("7")},
		{"/x~1y", Number("8")},
	}
	for _, tt := range tests {
		t.Run(tt.ptr, func(t *testing.T) {
			p, err := ParsePointer(tt.ptr)
			require.NoError(t, err)
			got, ok := Resolve(root, p)
			require.True(t, ok)
			assert.True(t, Equal(tt.want, got))
		})
	}

	for _, ptr := range []string{"/missing", "/a/b/2", "/a/b/-", "/a/b/01", "/a/b/0/deep"} {
		t.Run(ptr+" fails", func(t *testing.T) {
			p, err := ParsePointer(ptr)
			require.NoError(t, err)
			_, ok := Resolve(root, p)
			assert.False(t, ok)
		})
	}
}

func TestArrayIndex(t *testing.T) {
	tests := []struct {
		tok  string
		idx  int
		ok   bool
	}{
		{"0", 0, true},
		{"7", 7, true},
		{"10", 10, true},
		{"01", 0, false},
		{"-1", 0, false},
		{"-", 0, false},
		{"", 0, false},
		{"1x", 0, false},
	}
	for _, tt := range tests {
		idx, ok := ArrayIndex(tt.tok)
		assert.Equal(t, tt.ok, ok, "token %q", tt.tok)
		if tt.ok {
			assert.Equal(t, tt.idx, idx, "token %q", tt.tok)
		}
	}
}

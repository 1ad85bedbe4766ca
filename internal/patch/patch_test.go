package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jp/internal/doc"
)

func mustParsePatch(t *testing.T, src string) Patch {
	t.Helper()
	p, err := Parse([]byte(src))
	require.NoError(t, err)
	return p
}

func TestParsePatch(t *testing.T) {
	p := mustParsePatch(t, `[
  {"op": "add", "path": "/a", "value": 1},
  {"op": "remove", "path": "/b"},
  {"op": "replace", "path": "", "value": null},
  {"op": "move", "from": "/x", "path": "/y"},
  {"op": "copy", "from": "/x", "path": "/z"},
  {"op": "test", "path": "/a", "value": [1, 2]}
]`)
	require.Len(t, p, 6)

	assert.Equal(t, OpAdd, p[0].Op)
	assert.Equal(t, "/a", p[0].Path.String())
	assert.Equal(t, doc.Number("1"), p[0].Value)

	assert.Equal(t, OpRemove, p[1].Op)
	assert.Nil(t, p[1].Value)

	assert.Equal(t, OpReplace, p[2].Op)
	assert.True(t, p[2].Path.IsRoot())
	assert.Equal(t, doc.Null{}, p[2].Value, "explicit null value is doc.Null, not absent")

	assert.Equal(t, OpMove, p[3].Op)
	assert.Equal(t, "/x", p[3].From.String())

	assert.Equal(t, OpTest, p[5].Op)
}

func TestParsePatchEmpty(t *testing.T) {
	p := mustParsePatch(t, `[]`)
	assert.Empty(t, p)
}

func TestParsePatchFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"not an array", `{"op": "add"}`, "expected a JSON array"},
		{"element not an object", `[42]`, "expected an object"},
		{"missing op", `[{"path": "/a"}]`, `missing "op"`},
		{"unknown op", `[{"op": "merge", "path": "/a"}]`, "unknown op"},
		{"missing path", `[{"op": "remove"}]`, `missing "path"`},
		{"bad pointer", `[{"op": "remove", "path": "a"}]`, "must start with '/'"},
		{"add without value", `[{"op": "add", "path": "/a"}]`, `requires "value"`},
		{"move without from", `[{"op": "move", "path": "/a"}]`, `missing "from"`},
		{"path not a string", `[{"op": "remove", "path": 3}]`, "must be a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			var formatErr *FormatError
			require.ErrorAs(t, err, &formatErr)
			assert.Contains(t, formatErr.Error(), tt.want)
		})
	}
}

func TestParsePatchSyntaxError(t *testing.T) {
	_, err := Parse([]byte(`[{"op": `))
	var parseErr *doc.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestEncodeRoundTrip(t *testing.T) {
	src := `[
  {
    "op": "add",
    "path": "/a~1b",
    "value": {
      "x": 1
    }
  },
  {
    "op": "move",
    "from": "/here",
    "path": "/there"
  }
]`
	p := mustParsePatch(t, src)
	assert.Equal(t, src, string(Encode(p)))
}

func TestEncodeEmptyPatch(t *testing.T) {
	assert.Equal(t, "[]", string(Encode(Patch{})))
}

func TestEncodeDeterministic(t *testing.T) {
	p := mustParsePatch(t, `[{"op": "test", "path": "/a", "value": {"b": 1, "a": 2}}]`)
	assert.Equal(t, Encode(p), Encode(p))
}

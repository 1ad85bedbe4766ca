package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jp/internal/doc"
)

func mustParse(t *testing.T, src string) doc.Value {
	t.Helper()
	v, err := doc.ParseJSON([]byte(src))
	require.NoError(t, err)
	return v
}

// applyOK applies and requires success.
func applyOK(t *testing.T, document, patchSrc string) doc.Value {
	t.Helper()
	out, err := Apply(mustParse(t, document), mustParsePatch(t, patchSrc))
	require.NoError(t, err)
	return out
}

// applyErr applies and requires a failure with the given code.
func applyErr(t *testing.T, document, patchSrc string, code ErrorCode) *ApplyError {
	t.Helper()
	_, err := Apply(mustParse(t, document), mustParsePatch(t, patchSrc))
	var applyError *ApplyError
	require.ErrorAs(t, err, &applyError)
	assert.Equal(t, code, applyError.Code)
	return applyError
}

func assertDoc(t *testing.T, want string, got doc.Value) {
	t.Helper()
	assert.True(t, doc.Equal(mustParse(t, want), got),
		"want %s, got %s", want, doc.EncodeJSON(got))
}

func TestAddObjectKey(t *testing.T) {
	out := applyOK(t, `{"a": 1}`, `[{"op": "add", "path": "/b", "value": 2}]`)
	assertDoc(t, `{"a": 1, "b": 2}`, out)
}

func TestAddOverwritesExistingKey(t *testing.T) {
	out := applyOK(t, `{"a": 1}`, `[{"op": "add", "path": "/a", "value": 2}]`)
	assertDoc(t, `{"a": 2}`, out)
}

func TestAddArrayInsertShiftsRight(t *testing.T) {
	out := applyOK(t, `["a", "c"]`, `[{"op": "add", "path": "/1", "value": "b"}]`)
	assertDoc(t, `["a", "b", "c"]`, out)
}

func TestAddArrayAppendMarker(t *testing.T) {
	out := applyOK(t, `[1]`, `[{"op": "add", "path": "/-", "value": 2}]`)
	assertDoc(t, `[1, 2]`, out)
}

func TestAddArrayIndexOnePastEndAppends(t *testing.T) {
	out := applyOK(t, `[1]`, `[{"op": "add", "path": "/1", "value": 2}]`)
	assertDoc(t, `[1, 2]`, out)
}

func TestAddArrayIndexOutOfBounds(t *testing.T) {
	applyErr(t, `[1]`, `[{"op": "add", "path": "/2", "value": 2}]`, ErrCodeIndexOutOfBounds)
}

func TestAddMissingParent(t *testing.T) {
	e := applyErr(t, `{}`, `[{"op": "add", "path": "/a/b", "value": 1}]`, ErrCodePathNotFound)
	assert.Equal(t, "/a", e.Path, "error names the first unresolvable prefix")
}

func TestAddAtRootReplacesDocument(t *testing.T) {
	out := applyOK(t, `{"a": 1}`, `[{"op": "add", "path": "", "value": [true]}]`)
	assertDoc(t, `[true]`, out)
}

func TestRemoveObjectKey(t *testing.T) {
	out := applyOK(t, `{"a": 1, "b": 2}`, `[{"op": "remove", "path": "/a"}]`)
	assertDoc(t, `{"b": 2}`, out)
}

func TestRemoveArrayElementShiftsLeft(t *testing.T) {
	out := applyOK(t, `["a", "b", "c"]`, `[{"op": "remove", "path": "/1"}]`)
	assertDoc(t, `["a", "c"]`, out)
}

func TestRemoveMissing(t *testing.T) {
	applyErr(t, `{}`, `[{"op": "remove", "path": "/a"}]`, ErrCodePathNotFound)
}

func TestRemoveRootIsInvalid(t *testing.T) {
	applyErr(t, `{}`, `[{"op": "remove", "path": ""}]`, ErrCodeInvalidPatch)
}

// Remove then add at the same index replaces in place: verifies that
// indices are interpreted against the current document state, not the
// authored-time state.
func TestRemoveThenAddIndexSemantics(t *testing.T) {
	out := applyOK(t, `["a", "b"]`,
		`[{"op": "remove", "path": "/0"}, {"op": "add", "path": "/0", "value": "z"}]`)
	assertDoc(t, `["z", "b"]`, out)
}

func TestReplaceExisting(t *testing.T) {
	out := applyOK(t, `{"a": {"b": 1}}`, `[{"op": "replace", "path": "/a/b", "value": 2}]`)
	assertDoc(t, `{"a": {"b": 2}}`, out)
}

func TestReplaceKeepsMemberOrder(t *testing.T) {
	out := applyOK(t, `{"x": 1, "y": 2, "z": 3}`, `[{"op": "replace", "path": "/y", "value": 9}]`)
	assert.Equal(t, []string{"x", "y", "z"}, out.(doc.Object).Keys())
}

func TestReplaceMissingFails(t *testing.T) {
	applyErr(t, `{}`, `[{"op": "replace", "path": "/a", "value": 1}]`, ErrCodePathNotFound)
}

func TestReplaceArrayElement(t *testing.T) {
	out := applyOK(t, `[1, 2, 3]`, `[{"op": "replace", "path": "/2", "value": 9}]`)
	assertDoc(t, `[1, 2, 9]`, out)
}

func TestReplaceRoot(t *testing.T) {
	out := applyOK(t, `{"a": 1}`, `[{"op": "replace", "path": "", "value": 7}]`)
	assertDoc(t, `7`, out)
}

func TestMoveObjectValue(t *testing.T) {
	out := applyOK(t, `{"a": {"deep": [1]}, "b": {}}`,
		`[{"op": "move", "from": "/a/deep", "path": "/b/moved"}]`)
	assertDoc(t, `{"a": {}, "b": {"moved": [1]}}`, out)
}

func TestMoveWithinArray(t *testing.T) {
	out := applyOK(t, `["a", "b", "c"]`, `[{"op": "move", "from": "/0", "path": "/2"}]`)
	assertDoc(t, `["b", "c", "a"]`, out)
}

func TestMoveToSamePathIsNoop(t *testing.T) {
	out := applyOK(t, `{"a": 1}`, `[{"op": "move", "from": "/a", "path": "/a"}]`)
	assertDoc(t, `{"a": 1}`, out)
}

func TestMoveIntoOwnSubtreeRejected(t *testing.T) {
	e := applyErr(t, `{"a": {"b": 1}}`,
		`[{"op": "move", "from": "/a", "path": "/a/b"}]`, ErrCodeInvalidMove)
	assert.True(t, IsInvalidMove(e))
}

func TestMoveMissingSource(t *testing.T) {
	applyErr(t, `{}`, `[{"op": "move", "from": "/a", "path": "/b"}]`, ErrCodePathNotFound)
}

func TestCopyValue(t *testing.T) {
	out := applyOK(t, `{"a": {"x": 1}}`, `[{"op": "copy", "from": "/a", "path": "/b"}]`)
	assertDoc(t, `{"a": {"x": 1}, "b": {"x": 1}}`, out)
}

func TestCopyIntoOwnSubtreeAllowed(t *testing.T) {
	// Unlike move, copying a value into itself is legal.
	out := applyOK(t, `{"a": {"b": 1}}`, `[{"op": "copy", "from": "/a", "path": "/a/c"}]`)
	assertDoc(t, `{"a": {"b": 1, "c": {"b": 1}}}`, out)
}

func TestCopyMissingSource(t *testing.T) {
	applyErr(t, `{}`, `[{"op": "copy", "from": "/a", "path": "/b"}]`, ErrCodePathNotFound)
}

func TestTestOpGatePasses(t *testing.T) {
	out := applyOK(t, `{"x": 1}`,
		`[{"op": "test", "path": "/x", "value": 1}, {"op": "replace", "path": "/x", "value": 2}]`)
	assertDoc(t, `{"x": 2}`, out)
}

func TestTestOpGateFails(t *testing.T) {
	e := applyErr(t, `{"x": 9}`,
		`[{"op": "test", "path": "/x", "value": 1}, {"op": "replace", "path": "/x", "value": 2}]`,
		ErrCodeTestFailed)
	assert.True(t, IsTestFailed(e))
	assert.True(t, doc.Equal(doc.Number("1"), e.Expected))
	assert.True(t, doc.Equal(doc.Number("9"), e.Actual))
	assert.Equal(t, 0, e.OpIndex)
}

func TestTestIgnoresKeyOrder(t *testing.T) {
	applyOK(t, `{"o": {"a": 1, "b": 2}}`,
		`[{"op": "test", "path": "/o", "value": {"b": 2, "a": 1}}]`)
}

func TestApplyIsTransactional(t *testing.T) {
	input := mustParse(t, `{"a": 1, "b": [1, 2]}`)
	p := mustParsePatch(t, `[
  {"op": "replace", "path": "/a", "value": 99},
  {"op": "remove", "path": "/b/1"},
  {"op": "test", "path": "/a", "value": "never"}
]`)
	_, err := Apply(input, p)
	require.Error(t, err)

	// The caller's document is untouched despite two operations
	// having succeeded before the failure.
	assertDoc(t, `{"a": 1, "b": [1, 2]}`, input)
}

func TestApplyEmptyPatch(t *testing.T) {
	out := applyOK(t, `{"a": 1}`, `[]`)
	assertDoc(t, `{"a": 1}`, out)
}

func TestApplyErrorIdentifiesOperation(t *testing.T) {
	e := applyErr(t, `{}`, `[
  {"op": "add", "path": "/ok", "value": 1},
  {"op": "remove", "path": "/missing"}
]`, ErrCodePathNotFound)
	assert.Equal(t, 1, e.OpIndex)
	assert.Equal(t, OpRemove, e.Op)
	assert.Equal(t, "/missing", e.Path)
	assert.Contains(t, e.Error(), "PATH_NOT_FOUND")
	assert.Contains(t, e.Error(), "/missing")
}

func TestAddRemoveInverse(t *testing.T) {
	base := `{"list": [1, 2], "obj": {}}`
	out := applyOK(t, base, `[
  {"op": "add", "path": "/list/1", "value": "mid"},
  {"op": "remove", "path": "/list/1"},
  {"op": "add", "path": "/obj/k", "value": true},
  {"op": "remove", "path": "/obj/k"}
]`)
	assertDoc(t, base, out)
}

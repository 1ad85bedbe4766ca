package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func mustNode(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var n yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &n))
	return &n
}

func TestScenarioDirectory(t *testing.T) {
	scenarios, err := LoadScenarioDir(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			RunWithGolden(t, s)
		})
	}
}

func TestRunApplyScenarioResultMismatch(t *testing.T) {
	s := &Scenario{
		Name:  "mismatch",
		Doc:   mustNode(t, `{a: 1}`),
		Patch: mustNode(t, `[{op: replace, path: /a, value: 2}]`),
		Expect: ExpectClause{
			Result: mustNode(t, `{a: 99}`),
		},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "result mismatch")
}

func TestRunApplyScenarioUnexpectedSuccess(t *testing.T) {
	s := &Scenario{
		Name:   "should-fail",
		Doc:    mustNode(t, `{a: 1}`),
		Patch:  mustNode(t, `[{op: test, path: /a, value: 1}]`),
		Expect: ExpectClause{Error: "TEST_FAILED"},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "apply succeeded")
}

func TestRunApplyScenarioWrongErrorCode(t *testing.T) {
	s := &Scenario{
		Name:   "wrong-code",
		Doc:    mustNode(t, `{a: 1}`),
		Patch:  mustNode(t, `[{op: remove, path: /b}]`),
		Expect: ExpectClause{Error: "TEST_FAILED"},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "PATH_NOT_FOUND")
}

func TestRunDiffScenarioRoundTrip(t *testing.T) {
	s := &Scenario{
		Name: "roundtrip",
		From: mustNode(t, `{a: [1, 2, 3], b: {c: true}}`),
		To:   mustNode(t, `{a: [1, 3], b: {c: false}, d: null}`),
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.NotEmpty(t, result.Patch)
}

func TestRunRejectsMalformedPatch(t *testing.T) {
	s := &Scenario{
		Name:   "bad-patch",
		Doc:    mustNode(t, `{a: 1}`),
		Patch:  mustNode(t, `[{op: teleport, path: /a}]`),
		Expect: ExpectClause{Error: "TEST_FAILED"},
	}
	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad-patch")
}

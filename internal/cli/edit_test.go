package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jp/internal/testutil"
)

func runEditCommand(t *testing.T, args ...string) (error, string, string) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewEditCommand(rootOpts)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return err, stdout.String(), stderr.String()
}

func TestEditSingleShotWritesPatch(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "input.json", `{"a": 1}`)
	patchPath := filepath.Join(dir, "patch.json")
	editor := testutil.WriteScript(t, dir, "editor.sh",
		`printf '{\n  "a": 1,\n  "b": "added"\n}\n' > "$1"`+"\n")

	err, _, _ := runEditCommand(t, input, "-p", patchPath, "-e", editor)
	require.NoError(t, err)

	want := "[\n" +
		"  {\n" +
		"    \"op\": \"add\",\n" +
		"    \"path\": \"/b\",\n" +
		"    \"value\": \"added\"\n" +
		"  }\n" +
		"]\n"
	assert.Equal(t, want, testutil.ReadFile(t, patchPath))
}

func TestEditYAMLInput(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "input.yaml", "replicas: 2\n")
	patchPath := filepath.Join(dir, "patch.json")
	editor := testutil.WriteScript(t, dir, "editor.sh",
		`printf '{\n  "replicas": 4\n}\n' > "$1"`+"\n")

	err, _, _ := runEditCommand(t, input, "-p", patchPath, "-e", editor)
	require.NoError(t, err)
	assert.Contains(t, testutil.ReadFile(t, patchPath), `"path": "/replicas"`)
	assert.Contains(t, testutil.ReadFile(t, patchPath), `"value": 4`)
}

func TestEditApplyErrorFailPolicyExitsOne(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "input.json", `{"a": 1}`)
	patchPath := testutil.WriteFile(t, dir, "patch.json",
		`[{"op": "test", "path": "/a", "value": 999}]`)
	editor := testutil.WriteScript(t, dir, "editor.sh", "exit 0\n")

	err, stdout, _ := runEditCommand(t, input, "-p", patchPath, "-e", editor,
		"--on-apply-error", "fail")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "TEST_FAILED")
}

func TestEditInvalidPolicyExitsTwo(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "input.json", `{}`)

	err, _, _ := runEditCommand(t, input, "-p", filepath.Join(dir, "patch.json"),
		"-e", "true", "--on-apply-error", "retry")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "retry")
}

func TestEditMissingInputExitsTwo(t *testing.T) {
	dir := t.TempDir()
	editor := testutil.WriteScript(t, dir, "editor.sh", "exit 0\n")

	err, stdout, _ := runEditCommand(t, filepath.Join(dir, "absent.json"),
		"-p", filepath.Join(dir, "patch.json"), "-e", editor)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "IO_ERROR")
}

func TestEditEditorFailureExitsTwo(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "input.json", `{}`)
	editor := testutil.WriteScript(t, dir, "editor.sh", "exit 7\n")

	err, stdout, _ := runEditCommand(t, input, "-p", filepath.Join(dir, "patch.json"),
		"-e", editor)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "EDITOR_ERROR")
}

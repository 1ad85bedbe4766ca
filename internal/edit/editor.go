package edit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EditorError reports a failed editor spawn or a nonzero editor exit.
type EditorError struct {
	Cmd string
	Err error
}

func (e *EditorError) Error() string {
	return fmt.Sprintf("editor %q: %v", e.Cmd, e.Err)
}

func (e *EditorError) Unwrap() error { return e.Err }

// ResolveEditor picks the editor command: the explicit flag value if
// set, then $VISUAL, then $EDITOR, then vim.
func ResolveEditor(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv("VISUAL"); v != "" {
		return v
	}
	if v := os.Getenv("EDITOR"); v != "" {
		return v
	}
	return "vim"
}

// editorCommand builds the editor invocation. The editor string may
// carry arguments ("code --wait"); the scratch path is appended last.
// Stdio is inherited so terminal editors work.
func editorCommand(ctx context.Context, editor, path string) (*exec.Cmd, error) {
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return nil, &EditorError{Cmd: editor, Err: errors.New("empty editor command")}
	}
	cmd := exec.CommandContext(ctx, parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// runEditor spawns the editor and blocks until it exits.
func runEditor(ctx context.Context, editor, path string) error {
	cmd, err := editorCommand(ctx, editor, path)
	if err != nil {
		return err
	}
	if err := cmd.Run(); err != nil {
		return &EditorError{Cmd: editor, Err: err}
	}
	return nil
}

// startEditor launches the editor without waiting. The caller owns
// the returned command's Wait.
func startEditor(ctx context.Context, editor, path string) (*exec.Cmd, error) {
	cmd, err := editorCommand(ctx, editor, path)
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, &EditorError{Cmd: editor, Err: err}
	}
	return cmd, nil
}

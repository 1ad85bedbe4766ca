package edit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/jp/internal/diff"
	"github.com/roach88/jp/internal/doc"
	"github.com/roach88/jp/internal/fileio"
	"github.com/roach88/jp/internal/patch"
)

// scratchName is the file handed to the editor, in a fresh temp dir.
const scratchName = "patched.json"

// DefaultDebounce is the watch-mode coalescing window.
const DefaultDebounce = 500 * time.Millisecond

// State identifies where a Session is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateApplying
	StateEditorRunning
	StateDiffing
	StateWriting
	StateWatchWaiting
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateApplying:
		return "applying"
	case StateEditorRunning:
		return "editor-running"
	case StateDiffing:
		return "diffing"
	case StateWriting:
		return "writing"
	case StateWatchWaiting:
		return "watch-waiting"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// ApplyFailurePolicy decides what a Session does when the existing
// patch fails to apply to the input document.
type ApplyFailurePolicy int

const (
	// PolicyEditBase reports the failure and proceeds with the
	// unpatched input, letting the user repair the patch by editing.
	PolicyEditBase ApplyFailurePolicy = iota

	// PolicyFail terminates the session on an apply failure.
	PolicyFail
)

// ParsePolicy parses the --on-apply-error flag value.
func ParsePolicy(s string) (ApplyFailurePolicy, error) {
	switch s {
	case "edit":
		return PolicyEditBase, nil
	case "fail":
		return PolicyFail, nil
	}
	return 0, fmt.Errorf("invalid apply-error policy %q: must be \"edit\" or \"fail\"", s)
}

// LoadFunc loads and parses a document from disk. The CLI supplies a
// loader that dispatches on file extension; the default reads JSON.
type LoadFunc func(path string) (doc.Value, error)

// Options configures a Session.
type Options struct {
	InputPath string
	PatchPath string
	Editor    string // resolved command; see ResolveEditor
	Watch     bool
	Policy    ApplyFailurePolicy
	Debounce  time.Duration

	LoadDocument LoadFunc
	Logger       *slog.Logger
	Stdout       io.Writer // patch-text diff rendering
}

// Session is one edit-loop run over an input document and its patch
// file. It is single-threaded: the only asynchrony is the watcher's
// notification channel, consumed at one blocking wait point per
// cycle.
type Session struct {
	opts   Options
	id     string
	logger *slog.Logger
	state  State

	scratchDir  string
	scratchPath string
	patchText   string // last known serialized patch
	lastHash    string // content hash of the last diffed scratch document
}

// NewSession validates options and prepares a session.
func NewSession(opts Options) (*Session, error) {
	if opts.InputPath == "" || opts.PatchPath == "" {
		return nil, errors.New("edit session requires an input path and a patch path")
	}
	if opts.Editor == "" {
		opts.Editor = ResolveEditor("")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.LoadDocument == nil {
		opts.LoadDocument = loadJSONDocument
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	id := uuid.Must(uuid.NewV7()).String()
	return &Session{
		opts:   opts,
		id:     id,
		logger: opts.Logger.With("session", id),
		state:  StateIdle,
	}, nil
}

// State returns the session's current state.
func (s *Session) State() State { return s.state }

// Run executes the edit loop until completion, interrupt, or failure.
func (s *Session) Run(ctx context.Context) error {
	s.transition(StateApplying)

	base, err := s.opts.LoadDocument(s.opts.InputPath)
	if err != nil {
		return s.fail(err)
	}
	p, patchText, err := s.loadPatch()
	if err != nil {
		return s.fail(err)
	}
	s.patchText = patchText

	applied, applyErr := patch.Apply(base, p)
	if applyErr != nil {
		if s.opts.Policy == PolicyFail {
			return s.fail(fmt.Errorf("applying %s: %w", s.opts.PatchPath, applyErr))
		}
		s.logger.Warn("patch does not apply; editing the unpatched document",
			"error", applyErr)
		applied = base
	}

	dir, err := os.MkdirTemp("", "jp-edit-*")
	if err != nil {
		return s.fail(fmt.Errorf("creating scratch dir: %w", err))
	}
	s.scratchDir = dir
	s.scratchPath = filepath.Join(dir, scratchName)
	defer os.RemoveAll(s.scratchDir)

	if err := fileio.WriteAtomic(s.scratchPath, append(doc.EncodeJSON(applied), '\n'), 0o600); err != nil {
		return s.fail(err)
	}
	s.lastHash = doc.Hash(applied)
	s.logger.Debug("scratch file written", "path", s.scratchPath)

	if s.opts.Watch {
		return s.runWatch(ctx)
	}
	return s.runOnce(ctx)
}

// runOnce is single-shot mode: block on the editor, then one
// diff/write pass.
func (s *Session) runOnce(ctx context.Context) error {
	s.transition(StateEditorRunning)
	if err := runEditor(ctx, s.opts.Editor, s.scratchPath); err != nil {
		return s.fail(err)
	}
	edited, err := s.loadScratch()
	if err != nil {
		return s.fail(err)
	}
	if err := s.rediff(edited, true); err != nil {
		return s.fail(err)
	}
	s.transition(StateIdle)
	return nil
}

// runWatch is live-editing mode: the editor is launched once,
// detached, and every coalesced save triggers a re-diff until the
// user interrupts or the editor exits.
func (s *Session) runWatch(ctx context.Context) error {
	w, err := NewFileWatcher(s.scratchPath, s.opts.Debounce, s.logger)
	if err != nil {
		return s.fail(fmt.Errorf("watching %s: %w", s.scratchPath, err))
	}
	defer w.Close()
	w.Start(ctx)

	s.transition(StateEditorRunning)
	cmd, err := startEditor(ctx, s.opts.Editor, s.scratchPath)
	if err != nil {
		return s.fail(err)
	}
	editorDone := make(chan error, 1)
	go func() { editorDone <- cmd.Wait() }()

	for {
		s.transition(StateWatchWaiting)
		select {
		case <-ctx.Done():
			// Interrupt: any in-flight write already completed before
			// this wait point, so the last written patch is intact.
			s.logger.Info("interrupted; stopping watch loop")
			s.transition(StateIdle)
			return nil

		case <-w.Events():
			if err := s.rediffWatch(); err != nil {
				return s.fail(err)
			}

		case werr := <-w.Errors():
			return s.fail(fmt.Errorf("watching %s: %w", s.scratchPath, werr))

		case editorErr := <-editorDone:
			if editorErr != nil {
				s.logger.Warn("editor exited with an error",
					"error", &EditorError{Cmd: s.opts.Editor, Err: editorErr})
			}
			edited, err := s.loadScratch()
			if err != nil {
				return s.fail(err)
			}
			if err := s.rediff(edited, true); err != nil {
				return s.fail(err)
			}
			s.transition(StateIdle)
			return nil
		}
	}
}

// rediffWatch is one watch cycle. A scratch file that does not parse
// is reported and skipped (the user is mid-edit); a save that did not
// change the document is suppressed by content hash.
func (s *Session) rediffWatch() error {
	edited, err := s.loadScratch()
	if err != nil {
		var parseErr *doc.ParseError
		if errors.As(err, &parseErr) {
			s.logger.Warn("scratch file is not valid JSON; waiting for the next save",
				"error", parseErr)
			return nil
		}
		return err
	}
	if doc.Hash(edited) == s.lastHash {
		s.logger.Debug("document unchanged; skipping re-diff")
		return nil
	}
	return s.rediff(edited, false)
}

// rediff recomputes the patch from the (re-read) input document to
// the edited scratch document and atomically rewrites the patch file.
// The input is reloaded each cycle so concurrent changes to it are
// reflected in the recomputed patch.
func (s *Session) rediff(edited doc.Value, render bool) error {
	s.transition(StateDiffing)
	base, err := s.opts.LoadDocument(s.opts.InputPath)
	if err != nil {
		return err
	}
	newPatch := diff.Diff(base, edited)
	text := string(patch.Encode(newPatch)) + "\n"

	s.transition(StateWriting)
	if err := fileio.WriteAtomic(s.opts.PatchPath, []byte(text), 0o644); err != nil {
		return err
	}
	s.logger.Info("patch written", "path", s.opts.PatchPath, "ops", len(newPatch))

	if render {
		RenderPatchDiff(s.opts.Stdout, s.patchText, text)
	}
	s.patchText = text
	s.lastHash = doc.Hash(edited)
	return nil
}

// loadPatch reads the existing patch file; a missing file is an empty
// patch, not an error, so a session can author a patch from scratch.
func (s *Session) loadPatch() (patch.Patch, string, error) {
	data, err := os.ReadFile(s.opts.PatchPath)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Info("patch file does not exist yet; starting from an empty patch",
			"path", s.opts.PatchPath)
		return patch.Patch{}, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", s.opts.PatchPath, err)
	}
	p, err := patch.Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("parsing %s: %w", s.opts.PatchPath, err)
	}
	return p, string(data), nil
}

func (s *Session) loadScratch() (doc.Value, error) {
	data, err := fileio.ReadFile(s.scratchPath)
	if err != nil {
		return nil, err
	}
	v, err := doc.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.scratchPath, err)
	}
	return v, nil
}

func (s *Session) transition(next State) {
	s.logger.Debug("state transition", "from", s.state, "to", next)
	s.state = next
}

func (s *Session) fail(err error) error {
	s.transition(StateFailed)
	return err
}

func loadJSONDocument(path string) (doc.Value, error) {
	data, err := fileio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := doc.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return v, nil
}

// Package edit implements the interactive edit loop: apply the
// current patch to the input document, hand the result to an external
// editor, recompute the patch from the edited result, and write it
// back atomically.
//
// # State machine
//
// A Session moves through explicit states:
//
//	Idle → Applying → EditorRunning → Diffing → Writing →
//	    (Idle | WatchWaiting | Failed)
//
// In single-shot mode the editor runs synchronously and one
// Diffing/Writing pass follows its exit. In watch mode the editor is
// launched once, detached, and every observed save of the scratch
// file re-enters Diffing directly; the loop has exactly one blocking
// wait point per cycle and bursts of saves are coalesced by the
// watcher's debounce window. A content hash of the parsed scratch
// document suppresses re-diffs for saves that did not change the
// document.
//
// A failed patch apply is recoverable by default: the user is warned
// and edits the unpatched base, since the point of the session may be
// to fix the broken patch itself (PolicyFail makes it fatal instead).
// I/O and editor-spawn failures terminate the loop in Failed without
// touching the patch file; patch writes are atomic, so an interrupt
// never leaves a torn patch on disk.
package edit

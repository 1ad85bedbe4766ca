package patch

import (
	"errors"
	"fmt"

	"github.com/roach88/jp/internal/doc"
)

// ErrorCode categorizes apply failures.
type ErrorCode string

const (
	// ErrCodePathNotFound indicates a path or from pointer did not
	// resolve against the current document state.
	ErrCodePathNotFound ErrorCode = "PATH_NOT_FOUND"

	// ErrCodeIndexOutOfBounds indicates an array index past the
	// insertable range.
	ErrCodeIndexOutOfBounds ErrorCode = "INDEX_OUT_OF_BOUNDS"

	// ErrCodeInvalidMove indicates a move whose destination descends
	// from its source.
	ErrCodeInvalidMove ErrorCode = "INVALID_MOVE"

	// ErrCodeTestFailed indicates a test operation whose expected
	// value did not match the document.
	ErrCodeTestFailed ErrorCode = "TEST_FAILED"

	// ErrCodeInvalidPatch indicates an operation that is structurally
	// valid but can never apply, such as removing the document root.
	ErrCodeInvalidPatch ErrorCode = "INVALID_PATCH"
)

// ApplyError reports the first failing operation of an apply. The
// document visible to the caller is unchanged when one is returned.
type ApplyError struct {
	Code    ErrorCode
	OpIndex int    // position of the failing operation in the patch
	Op      Op     // kind of the failing operation
	Path    string // wire form of the pointer that triggered the failure
	Reason  string // optional human detail

	// Expected and Actual are set for TEST_FAILED.
	Expected doc.Value
	Actual   doc.Value
}

func (e *ApplyError) Error() string {
	msg := fmt.Sprintf("%s: op %d (%s %s)", e.Code, e.OpIndex, e.Op, e.Path)
	if e.Code == ErrCodeTestFailed {
		return fmt.Sprintf("%s: expected %s, got %s", msg,
			doc.EncodeJSON(e.Expected), doc.EncodeJSON(e.Actual))
	}
	if e.Reason != "" {
		return msg + ": " + e.Reason
	}
	return msg
}

// IsTestFailed reports whether err is an ApplyError with TEST_FAILED.
func IsTestFailed(err error) bool { return hasCode(err, ErrCodeTestFailed) }

// IsPathNotFound reports whether err is an ApplyError with PATH_NOT_FOUND.
func IsPathNotFound(err error) bool { return hasCode(err, ErrCodePathNotFound) }

// IsInvalidMove reports whether err is an ApplyError with INVALID_MOVE.
func IsInvalidMove(err error) bool { return hasCode(err, ErrCodeInvalidMove) }

func hasCode(err error, code ErrorCode) bool {
	var ae *ApplyError
	return errors.As(err, &ae) && ae.Code == code
}

func pathNotFound(p doc.Pointer) *ApplyError {
	return &ApplyError{Code: ErrCodePathNotFound, Path: p.String()}
}

// FormatError reports a patch document that parsed as JSON but does
// not conform to the RFC 6902 operation shape. Index is the offending
// operation's position, or -1 when the whole document is malformed.
type FormatError struct {
	Index int
	Msg   string
}

func (e *FormatError) Error() string {
	if e.Index < 0 {
		return "invalid patch: " + e.Msg
	}
	return fmt.Sprintf("invalid patch: op %d: %s", e.Index, e.Msg)
}

package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Domain errors represent the failure kinds of a patch run.
// They are returned wrapped in a *PatchError and can be checked with errors.Is.
var (
	// ErrAnchorNotFound is returned when a rule's anchor does not occur in the buffer.
	ErrAnchorNotFound = errors.New("anchorpatch: anchor not found")

	// ErrAmbiguousAnchor is returned when a unique rule's anchor occurs more than once.
	ErrAmbiguousAnchor = errors.New("anchorpatch: ambiguous anchor")

	// ErrIO is returned when the target cannot be read or written.
	ErrIO = errors.New("anchorpatch: i/o failure")

	// ErrInvalidRule is returned when a rule fails static validation.
	ErrInvalidRule = errors.New("anchorpatch: invalid rule")

	// ErrInvalidEncoding is returned when the target is not valid UTF-8.
	ErrInvalidEncoding = errors.New("anchorpatch: file is not valid UTF-8")
)

// AnchorPreviewRunes bounds how much of an anchor appears in diagnostics.
const AnchorPreviewRunes = 60

// PatchError reports why a patch run failed.
type PatchError struct {
	// Kind is one of the sentinel errors above.
	Kind error

	// Index is the 0-based rule position, or -1 when no rule is involved.
	Index int

	// Rule is the failing rule, zero when Index is -1.
	Rule Rule

	// Count is the number of occurrences found.
	Count int

	// Path is the target file.
	Path string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements error.
func (e *PatchError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Path != "" {
		fmt.Fprintf(&b, " in %s", e.Path)
	}
	if e.Index >= 0 {
		fmt.Fprintf(&b, ": %s anchor %s", e.Rule.Label(e.Index), TruncateAnchor(e.Rule.Anchor, AnchorPreviewRunes))
	}
	if errors.Is(e.Kind, ErrAmbiguousAnchor) {
		fmt.Fprintf(&b, " matched %d times", e.Count)
	}
	if e.Rule.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Rule.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %s", strings.TrimPrefix(e.Err.Error(), e.Kind.Error()+": "))
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *PatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// TruncateAnchor quotes an anchor for display, keeping at most max runes.
func TruncateAnchor(anchor string, max int) string {
	if max <= 0 || utf8.RuneCountInString(anchor) <= max {
		return fmt.Sprintf("%q", anchor)
	}
	n := 0
	for i := range anchor {
		if n == max {
			return fmt.Sprintf("%q...", anchor[:i])
		}
		n++
	}
	return fmt.Sprintf("%q", anchor)
}

// NewIOError wraps a file system failure for path.
func NewIOError(path string, err error) *PatchError {
	return &PatchError{Kind: ErrIO, Index: -1, Path: path, Err: err}
}

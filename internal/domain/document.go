package domain

import "io/fs"

// Document is the full text of a target file during one invocation.
// It is loaded once, mutated in memory and written at most once.
type Document struct {
	// Path identifies the file the text was loaded from and is written back to.
	Path string

	// Text is the current buffer.
	Text string

	// Mode is the permission set of the file when it was loaded.
	Mode fs.FileMode
}

// Result describes a completed patch run.
type Result struct {
	// Path is the target file.
	Path string

	// Original is the text as loaded.
	Original string

	// Patched is the text after all rules were applied.
	Patched string

	// Applied holds one entry per rule, in rule order.
	Applied []Applied

	// Written reports whether the patched text was persisted.
	Written bool
}

// Changed reports whether the rules altered the text.
func (r Result) Changed() bool {
	return r.Original != r.Patched
}

// Applied records what a single rule did.
type Applied struct {
	Rule     Rule
	Matches  int // occurrences found before replacement
	Replaced int // occurrences replaced
}

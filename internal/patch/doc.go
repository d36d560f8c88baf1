// Package patch applies ordered anchor rules to a document.
//
// A run is load → validate → transform → persist. Rules are applied in order
// against the current buffer, so a rule may match text inserted by an earlier
// one. The first failing rule aborts the run and nothing is written.
package patch

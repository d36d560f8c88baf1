// Package anchorpatch applies exact-match anchor rules to text files.
//
// Example usage:
//
//	rules := []anchorpatch.Rule{{
//	    Anchor:      "X = 1\n",
//	    Replacement: "X = 2\nY = 3\n",
//	    Policy:      anchorpatch.PolicyUnique,
//	}}
//	if _, err := anchorpatch.Apply(context.Background(), "config.py", rules); err != nil {
//	    log.Fatal(err)
//	}
package anchorpatch

import (
	"context"

	"github.com/bft-labs/anchorpatch/internal/adapters/fs"
	logAdapter "github.com/bft-labs/anchorpatch/internal/adapters/log"
	"github.com/bft-labs/anchorpatch/internal/domain"
	"github.com/bft-labs/anchorpatch/internal/patch"
	"github.com/bft-labs/anchorpatch/internal/ports"
)

// Rule is a single exact-match substitution.
type Rule = domain.Rule

// Policy selects which occurrences of an anchor a rule replaces.
type Policy = domain.Policy

// Result describes a completed patch run.
type Result = domain.Result

// PatchError reports why a patch run failed.
type PatchError = domain.PatchError

// Logger is the structured logging interface used during a run.
type Logger = ports.Logger

// Occurrence policies.
const (
	PolicyFirst  = domain.PolicyFirst
	PolicyUnique = domain.PolicyUnique
	PolicyAll    = domain.PolicyAll
)

// Error kinds, matched with errors.Is.
var (
	ErrAnchorNotFound  = domain.ErrAnchorNotFound
	ErrAmbiguousAnchor = domain.ErrAmbiguousAnchor
	ErrIO              = domain.ErrIO
	ErrInvalidRule     = domain.ErrInvalidRule
)

// Option configures Apply.
type Option func(*options)

type options struct {
	logger Logger
	dryRun bool
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDryRun computes the result without writing the file.
func WithDryRun(dryRun bool) Option {
	return func(o *options) { o.dryRun = dryRun }
}

// Apply patches the file at path with rules, in order, all or nothing.
// If any rule fails the file is left untouched.
func Apply(ctx context.Context, path string, rules []Rule, opts ...Option) (Result, error) {
	o := options{logger: logAdapter.NewNoopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	applier := patch.NewApplier(fs.NewDocumentFileStore(), o.logger, patch.WithDryRun(o.dryRun))
	return applier.Apply(ctx, path, rules)
}

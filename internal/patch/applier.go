package patch

import (
	"context"
	"errors"

	"github.com/bft-labs/anchorpatch/internal/domain"
	"github.com/bft-labs/anchorpatch/internal/ports"
)

// Applier runs rule lists against documents held by a DocumentStore.
type Applier struct {
	store  ports.DocumentStore
	logger ports.Logger
	dryRun bool
}

// Option configures an Applier.
type Option func(*Applier)

// WithDryRun skips the persist step. The Result still carries the patched text.
func WithDryRun(dryRun bool) Option {
	return func(a *Applier) { a.dryRun = dryRun }
}

// NewApplier creates an Applier backed by store.
func NewApplier(store ports.DocumentStore, logger ports.Logger, opts ...Option) *Applier {
	a := &Applier{store: store, logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply patches the file at path with rules, all or nothing.
// On failure the file is left untouched and the error is a *domain.PatchError.
func (a *Applier) Apply(ctx context.Context, path string, rules []domain.Rule) (domain.Result, error) {
	// Reject bad rules before touching the file system
	if err := ValidateRules(rules); err != nil {
		return domain.Result{Path: path}, withPath(err, path)
	}

	doc, err := a.store.Load(ctx, path)
	if err != nil {
		return domain.Result{Path: path}, err
	}
	a.logger.Debug("loaded document", ports.String("path", path), ports.Int("bytes", len(doc.Text)))

	result := domain.Result{Path: path, Original: doc.Text}

	patched, applied, err := Transform(doc.Text, rules)
	result.Applied = applied
	if err != nil {
		result.Patched = doc.Text
		return result, withPath(err, path)
	}
	result.Patched = patched

	for _, ap := range applied {
		a.logger.Debug("rule applied",
			ports.String("rule", ap.Rule.Name),
			ports.String("policy", string(ap.Rule.EffectivePolicy())),
			ports.Int("matches", ap.Matches),
			ports.Int("replaced", ap.Replaced),
		)
	}

	if a.dryRun {
		a.logger.Info("dry run, not writing", ports.String("path", path), ports.Int("rules", len(rules)))
		return result, nil
	}

	doc.Text = patched
	if err := a.store.Save(ctx, doc); err != nil {
		return result, err
	}
	result.Written = true
	a.logger.Info("patched", ports.String("path", path), ports.Int("rules", len(rules)))
	return result, nil
}

func withPath(err error, path string) error {
	var pe *domain.PatchError
	if errors.As(err, &pe) && pe.Path == "" {
		pe.Path = path
	}
	return err
}

package patch

import (
	"strings"

	"github.com/bft-labs/anchorpatch/internal/domain"
)

// ValidateRules checks every rule before any text is touched.
func ValidateRules(rules []domain.Rule) error {
	for i, r := range rules {
		if err := r.Validate(); err != nil {
			return &domain.PatchError{Kind: domain.ErrInvalidRule, Index: i, Rule: r, Err: err}
		}
	}
	return nil
}

// Transform applies rules to text in order and returns the patched text.
// It stops at the first rule whose anchor is missing, or ambiguous under
// domain.PolicyUnique; the returned error is a *domain.PatchError.
func Transform(text string, rules []domain.Rule) (string, []domain.Applied, error) {
	if err := ValidateRules(rules); err != nil {
		return text, nil, err
	}

	applied := make([]domain.Applied, 0, len(rules))
	for i, r := range rules {
		next, a, err := applyRule(text, i, r)
		if err != nil {
			return text, applied, err
		}
		text = next
		applied = append(applied, a)
	}
	return text, applied, nil
}

func applyRule(text string, index int, r domain.Rule) (string, domain.Applied, error) {
	count := strings.Count(text, r.Anchor)
	if count == 0 {
		return text, domain.Applied{}, &domain.PatchError{Kind: domain.ErrAnchorNotFound, Index: index, Rule: r}
	}

	policy := r.EffectivePolicy()
	r.Policy = policy
	if policy == domain.PolicyUnique && count > 1 {
		return text, domain.Applied{}, &domain.PatchError{Kind: domain.ErrAmbiguousAnchor, Index: index, Rule: r, Count: count}
	}

	replaced := 1
	if policy == domain.PolicyAll {
		replaced = count
	}
	return strings.Replace(text, r.Anchor, r.Replacement, replaced),
		domain.Applied{Rule: r, Matches: count, Replaced: replaced}, nil
}

package domain

import (
	"fmt"
	"strings"
)

// Policy selects which occurrences of an anchor a rule replaces and how many
// occurrences it tolerates.
type Policy string

const (
	// PolicyFirst replaces the first occurrence. Any count >= 1 is accepted.
	PolicyFirst Policy = "first"

	// PolicyUnique requires exactly one occurrence and replaces it.
	PolicyUnique Policy = "unique"

	// PolicyAll replaces every occurrence. Any count >= 1 is accepted.
	PolicyAll Policy = "all"
)

// DefaultPolicy is used by rules that do not name a policy.
const DefaultPolicy = PolicyFirst

// ParsePolicy converts a textual policy name. An empty name yields DefaultPolicy.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DefaultPolicy, nil
	case PolicyFirst, PolicyUnique, PolicyAll:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown policy %q (want first, unique or all)", ErrInvalidRule, s)
	}
}

// Rule is a single exact-match substitution.
type Rule struct {
	// Name is an optional label used in diagnostics.
	Name string

	// Anchor is the literal text to locate. Must not be empty.
	Anchor string

	// Replacement is the literal text written in place of the anchor.
	Replacement string

	// Policy selects the replaced occurrence(s). Empty means DefaultPolicy.
	Policy Policy

	// Message is an optional diagnostic reported when the anchor is missing.
	Message string
}

// EffectivePolicy returns the rule's normalized policy, falling back to
// DefaultPolicy. An unknown policy is returned unchanged; Validate rejects it.
func (r Rule) EffectivePolicy() Policy {
	p, err := ParsePolicy(string(r.Policy))
	if err != nil {
		return r.Policy
	}
	return p
}

// Validate checks the rule's static constraints.
func (r Rule) Validate() error {
	if r.Anchor == "" {
		return fmt.Errorf("%w: empty anchor", ErrInvalidRule)
	}
	if _, err := ParsePolicy(string(r.Policy)); err != nil {
		return err
	}
	return nil
}

// Label identifies the rule in diagnostics: its name if set, otherwise its
// 1-based position.
func (r Rule) Label(index int) string {
	if r.Name != "" {
		return fmt.Sprintf("rule %d (%s)", index+1, r.Name)
	}
	return fmt.Sprintf("rule %d", index+1)
}

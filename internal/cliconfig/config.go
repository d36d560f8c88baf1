package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/bft-labs/anchorpatch/internal/domain"
	"github.com/bft-labs/anchorpatch/internal/preview"
	"github.com/bft-labs/anchorpatch/internal/watch"
)

// Config holds CLI configuration for anchorpatch.
type Config struct {
	Target    string
	RulesFile string

	// Inline rule, appended after any rules from RulesFile.
	Anchor      string
	Replacement string
	Message     string

	// Policy is the default for rules that do not name one.
	Policy string

	DryRun   bool
	Diff     bool
	Color    string
	Watch    bool
	Debounce time.Duration
	LogLevel string

	// Rules is resolved from RulesFile and the inline rule.
	Rules []domain.Rule
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Policy:   string(domain.DefaultPolicy),
		Color:    string(preview.ColorAuto),
		Debounce: watch.DefaultDebounce,
		LogLevel: zerolog.InfoLevel.String(),
	}
}

// AddInlineRule appends the rule given by the Anchor/Replacement flags.
// Values are unescaped first so "\n" and "\r\n" can be typed on a shell.
func (c *Config) AddInlineRule() error {
	if c.Anchor == "" {
		if c.Replacement != "" {
			return fmt.Errorf("replacement given without anchor")
		}
		return nil
	}
	anchor, err := Unescape(c.Anchor)
	if err != nil {
		return fmt.Errorf("parse anchor: %w", err)
	}
	replacement, err := Unescape(c.Replacement)
	if err != nil {
		return fmt.Errorf("parse replacement: %w", err)
	}
	c.Rules = append(c.Rules, domain.Rule{
		Name:        "inline",
		Anchor:      anchor,
		Replacement: replacement,
		Message:     c.Message,
	})
	return nil
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("target file is required (argument or `target` in rules file)")
	}
	if len(c.Rules) == 0 {
		return fmt.Errorf("no rules given (use --rules or --anchor)")
	}

	policy, err := domain.ParsePolicy(c.Policy)
	if err != nil {
		return err
	}
	c.Policy = string(policy)
	for i := range c.Rules {
		if c.Rules[i].Policy == "" {
			c.Rules[i].Policy = policy
		}
	}

	if _, err := preview.ParseColorMode(c.Color); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.Watch && c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive")
	}
	if c.Watch && c.DryRun {
		return fmt.Errorf("--watch and --dry-run are mutually exclusive")
	}

	return nil
}

// Unescape interprets Go string escapes (\n, \r, \t, \\, \", \', \xNN, \uNNNN).
func Unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for len(s) > 0 {
		if strings.HasPrefix(s, `\"`) || strings.HasPrefix(s, `\'`) {
			b.WriteByte(s[1])
			s = s[2:]
			continue
		}
		r, multibyte, tail, err := strconv.UnquoteChar(s, 0)
		if err != nil {
			return "", fmt.Errorf("invalid escape in %q: %w", s, err)
		}
		if r < utf8.RuneSelf || !multibyte {
			b.WriteByte(byte(r))
		} else {
			b.WriteRune(r)
		}
		s = tail
	}
	return b.String(), nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

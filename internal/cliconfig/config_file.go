package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/anchorpatch/internal/domain"
)

// FileConfig is the on-disk rules file. TOML uses [[rule]] tables, YAML a
// `rules` list.
type FileConfig struct {
	Target   string     `toml:"target" yaml:"target"`
	Policy   string     `toml:"policy" yaml:"policy"`
	Color    string     `toml:"color" yaml:"color"`
	Debounce string     `toml:"debounce" yaml:"debounce"`
	DryRun   *bool      `toml:"dry_run" yaml:"dry_run"`
	Diff     *bool      `toml:"diff" yaml:"diff"`
	Rules    []FileRule `toml:"rule" yaml:"rules"`
}

// FileRule is one rule entry of a FileConfig.
type FileRule struct {
	Name        string `toml:"name" yaml:"name"`
	Anchor      string `toml:"anchor" yaml:"anchor"`
	Replacement string `toml:"replacement" yaml:"replacement"`
	Policy      string `toml:"policy" yaml:"policy"`
	Message     string `toml:"message" yaml:"message"`
}

// LoadFileConfig reads and parses a rules file. Files ending in .yaml or
// .yml are YAML; anything else is TOML.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &fc)
	default:
		err = toml.Unmarshal(b, &fc)
	}
	if err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}

	// A relative target is relative to the rules file.
	if fc.Target != "" && !filepath.IsAbs(fc.Target) {
		fc.Target = filepath.Join(filepath.Dir(path), fc.Target)
	}
	return fc, nil
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map). File rules
// are placed before any inline rule.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("target", fc.Target, &cfg.Target)
	s.setString("policy", fc.Policy, &cfg.Policy)
	s.setString("color", fc.Color, &cfg.Color)

	if err := s.setDuration("debounce", fc.Debounce, &cfg.Debounce); err != nil {
		return err
	}

	s.setBool("dry-run", fc.DryRun, &cfg.DryRun)
	s.setBool("diff", fc.Diff, &cfg.Diff)

	rules := make([]domain.Rule, 0, len(fc.Rules)+len(cfg.Rules))
	for i, fr := range fc.Rules {
		// An empty policy is filled from the default during Validate.
		var policy domain.Policy
		if fr.Policy != "" {
			p, err := domain.ParsePolicy(fr.Policy)
			if err != nil {
				return fmt.Errorf("rule %d: %w", i+1, err)
			}
			policy = p
		}
		rules = append(rules, domain.Rule{
			Name:        fr.Name,
			Anchor:      fr.Anchor,
			Replacement: fr.Replacement,
			Policy:      policy,
			Message:     fr.Message,
		})
	}
	cfg.Rules = append(rules, cfg.Rules...)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

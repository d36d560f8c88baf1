package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/anchorpatch/internal/adapters/fs"
	logAdapter "github.com/bft-labs/anchorpatch/internal/adapters/log"
	"github.com/bft-labs/anchorpatch/internal/cliconfig"
	"github.com/bft-labs/anchorpatch/internal/domain"
	"github.com/bft-labs/anchorpatch/internal/patch"
	"github.com/bft-labs/anchorpatch/internal/preview"
	"github.com/bft-labs/anchorpatch/internal/watch"
)

const longHelp = `Apply exact-match anchor rules to a text file.

Each rule names a literal anchor and the text that replaces it. Rules run in
order against the current buffer; if any anchor is missing (or duplicated under
the unique policy) nothing is written. Line endings are matched literally.

Policies:
  first   replace the first occurrence (default)
  unique  require exactly one occurrence
  all     replace every occurrence`

var exampleUsage = strings.TrimSpace(`
  anchorpatch --rules sale.patch.toml
  anchorpatch config.py --anchor 'X = 1\n' --replacement 'X = 2\nY = 3\n' --policy unique
  anchorpatch --rules gen.patch.yaml --watch
  anchorpatch --rules sale.patch.toml --dry-run --diff
`)

// Exit codes.
const (
	exitOK = iota
	exitError
	exitAnchorNotFound
	exitAmbiguousAnchor
	exitIO
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		log := cliconfig.Logger()
		log.Error().Err(err).Msg("anchorpatch")
		os.Exit(exitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := cliconfig.DefaultConfig()

	root := &cobra.Command{
		Use:           "anchorpatch [target]",
		Short:         "Apply exact-match anchor rules to a text file",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
			if len(args) == 1 {
				cfg.Target = args[0]
				changed["target"] = true
			}

			if err := cfg.AddInlineRule(); err != nil {
				return err
			}

			if cfg.RulesFile != "" {
				fc, err := cliconfig.LoadFileConfig(cfg.RulesFile)
				if err != nil {
					return fmt.Errorf("load rules: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			cliconfig.SetLogLevel(cfg.LogLevel)

			return run(cmd, cfg)
		},
	}

	root.Flags().StringVar(&cfg.RulesFile, "rules", "", "rules file (TOML, or YAML with .yaml/.yml extension)")
	root.Flags().StringVar(&cfg.Anchor, "anchor", "", "inline rule anchor (Go escapes such as \\n are interpreted)")
	root.Flags().StringVar(&cfg.Replacement, "replacement", "", "inline rule replacement")
	root.Flags().StringVar(&cfg.Message, "message", "", "diagnostic shown when the inline anchor is missing")
	root.Flags().StringVar(&cfg.Policy, "policy", cfg.Policy, "default occurrence policy: first, unique or all")

	root.Flags().BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "apply in memory only, do not write the file")
	root.Flags().BoolVar(&cfg.Diff, "diff", cfg.Diff, "print a diff of the changes to stdout")
	root.Flags().StringVar(&cfg.Color, "color", cfg.Color, "diff color: auto, always or never")

	root.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "re-apply whenever the target is rewritten")
	root.Flags().DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "delay after a change before re-applying (watch mode)")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")

	return root
}

func run(cmd *cobra.Command, cfg cliconfig.Config) error {
	log := cliconfig.Logger()
	logger := logAdapter.NewZerologAdapterWithLogger(log)

	applier := patch.NewApplier(fs.NewDocumentFileStore(), logger, patch.WithDryRun(cfg.DryRun))

	if cfg.Watch {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log.Info().Str("target", cfg.Target).Int("rules", len(cfg.Rules)).Msg("watching")
		return watch.New(applier, logger, cfg.Target, cfg.Rules, cfg.Debounce).Run(ctx)
	}

	res, err := applier.Apply(cmd.Context(), cfg.Target, cfg.Rules)
	if err != nil {
		return err
	}

	if cfg.Diff {
		mode, _ := preview.ParseColorMode(cfg.Color)
		out := cmd.OutOrStdout()
		p := preview.Printer{Context: preview.DefaultContext, Color: mode.Enabled(out)}
		if err := p.Fprint(out, res.Path, res.Original, res.Patched); err != nil {
			return fmt.Errorf("write diff: %w", err)
		}
	}
	return nil
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrAnchorNotFound):
		return exitAnchorNotFound
	case errors.Is(err, domain.ErrAmbiguousAnchor):
		return exitAmbiguousAnchor
	case errors.Is(err, domain.ErrIO):
		return exitIO
	default:
		return exitError
	}
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/combo/internal/config"
	"github.com/idilsaglam/combo/internal/engine"
	"github.com/idilsaglam/combo/internal/logging"
	"github.com/idilsaglam/combo/internal/model"
	"github.com/idilsaglam/combo/internal/store"
	"github.com/idilsaglam/combo/internal/ui"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	StatePath  string
	Backend    string
	Format     string // "text" | "json"
	Theme      string
	Verbose    bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// app is the per-invocation context shared by every command.
type app struct {
	opt   Options
	flags RootOptions
	paths *config.Paths
	cfg   *config.Config
	log   *zap.Logger
}

// NewRootCommand creates the root command for the combo CLI.
func NewRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combo",
		Short: "draw a random combination, one item per list",
		Long: `combo - draw a random combination, one item per list

Define lists, mark combinations that must never come up together,
and draw. Recent draws are avoided when possible.`,
		Example: `  combo list add Protein
  combo item add Protein Chicken
  combo item add Protein Tofu
  combo list add Side
  combo item add Side Rice
  combo item add Side Fries
  combo rule add Protein:Tofu Side:Fries
  combo draw
  combo ui`,
		Version:           a.opt.Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup() },
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &exitError{code: 2, err: err}
	})

	f := cmd.PersistentFlags()
	f.StringVar(&a.flags.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/combo/config.yaml)")
	f.StringVar(&a.flags.StatePath, "state", "", "state file (overrides storage.path)")
	f.StringVar(&a.flags.Backend, "backend", "", "storage backend (json|sqlite)")
	f.StringVar(&a.flags.Format, "format", "text", "output format (text|json)")
	f.StringVar(&a.flags.Theme, "theme", "", "terminal theme (classic|neon|mono)")
	f.BoolVarP(&a.flags.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewListCommand(a))
	cmd.AddCommand(NewItemCommand(a))
	cmd.AddCommand(NewRuleCommand(a))
	cmd.AddCommand(NewCheckCommand(a))
	cmd.AddCommand(NewDrawCommand(a))
	cmd.AddCommand(NewHistoryCommand(a))
	cmd.AddCommand(NewStatsCommand(a))
	cmd.AddCommand(NewImportCommand(a))
	cmd.AddCommand(NewExportCommand(a))
	cmd.AddCommand(NewConfigCommand(a))
	cmd.AddCommand(NewUICommand(a))
	return cmd
}

func (a *app) setup() error {
	if !slices.Contains(ValidFormats, a.flags.Format) {
		return usageErr("invalid format %q: must be one of %v", a.flags.Format, ValidFormats)
	}
	a.paths = config.DefaultPaths()

	cfg, err := config.LoadFromFile(a.configPath())
	if err != nil {
		return err
	}
	if a.flags.Backend != "" {
		cfg.Storage.Backend = a.flags.Backend
	}
	if a.flags.StatePath != "" {
		cfg.Storage.Path = a.flags.StatePath
	}
	if a.flags.Theme != "" {
		cfg.UI.Theme = a.flags.Theme
	}
	if err := cfg.Validate(); err != nil {
		return usageErr("%v", err)
	}
	a.cfg = cfg

	ui.SetTheme(cfg.UI.Theme)
	switch cfg.UI.Color {
	case "always":
		ui.SetColorForcing(true, false)
	case "never":
		ui.SetColorForcing(false, true)
	default:
		ui.SetColorForcing(false, false)
	}

	log, err := logging.New(cfg.Log, a.flags.Verbose)
	if err != nil {
		return err
	}
	a.log = log
	a.log.Debug("config loaded",
		zap.String("config", a.configPath()),
		zap.String("backend", cfg.Storage.Backend),
		zap.String("state", a.statePath()))
	return nil
}

func (a *app) close() {
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func (a *app) configPath() string {
	if a.flags.ConfigPath != "" {
		return a.flags.ConfigPath
	}
	return a.paths.ConfigFile()
}

func (a *app) statePath() string { return a.cfg.StatePath(a.paths) }

func (a *app) openStore() (store.Store, error) {
	return store.Open(a.cfg.Storage.Backend, a.statePath(), a.log)
}

// view loads the state read-only.
func (a *app) view(ctx context.Context, fn func(*model.State) error) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	st, err := s.Load(ctx)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	return fn(st)
}

// update loads, mutates and saves the state.
func (a *app) update(ctx context.Context, fn func(*model.State) error) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	_, err = store.Update(ctx, s, fn)
	return err
}

func (a *app) selector(opts engine.Options, seed uint64) *engine.Selector {
	return engine.NewSelector(engine.NewSource(seed), opts, a.log)
}

func (a *app) jsonOut() bool { return a.flags.Format == "json" }

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.opt.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exactArgs and rangeArgs report arity problems as usage errors.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return rangeArgs(n, n, usage)
}

func rangeArgs(min, max int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < min || (max >= 0 && len(args) > max) {
			return usageErr("usage: %s", usage)
		}
		return nil
	}
}

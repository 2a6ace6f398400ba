package cli

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cybernetics/specnaz/internal/config"
	"github.com/cybernetics/specnaz/internal/engine"
	"github.com/cybernetics/specnaz/internal/harness"
	"github.com/cybernetics/specnaz/internal/logging"
)

// RootOptions holds global flags for all commands and the settings
// resolved from them.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"; empty defers to config
	ConfigFile string
	NoColor    bool

	// RunIDs overrides the run ID generator (for testing).
	// If nil, defaults to engine.UUIDv7Generator.
	RunIDs engine.RunIDGenerator

	// Now overrides the wall clock used for recorded start times (for testing).
	Now func() time.Time

	config *config.Config
	logger *slog.Logger
}

// subcommand flags that map onto config keys
var flagKeys = map[string]string{
	"db":              "store.path",
	"filter":          "run.filter",
	"progress":        "output.progress",
	"fail-on-focused": "run.fail_on_focused",
}

// NewRootCommand creates the root command for the specnaz CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specnaz",
		Short: "specnaz - describe, plan and run BDD specs",
		Long: `specnaz runs behaviour specs written as nested describe blocks.

Specs are loaded from YAML or CUE scenario files. Each spec is planned
before it runs, so structural mistakes are reported without executing a
single test. Results can be recorded in a SQLite history database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default: ./.specnaz.yaml or ~/.specnaz.yaml)")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	// Add subcommands
	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// resolve loads the configuration once, layering flags over environment,
// config file and defaults, and builds the diagnostic logger.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	if o.config != nil {
		return nil
	}

	v, err := config.New(o.ConfigFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}
	if err := bindFlags(v, cmd); err != nil {
		return WrapExitError(ExitCommandError, "bind flags", err)
	}
	if o.Format != "" {
		v.Set("output.format", o.Format)
	}
	if o.NoColor {
		v.Set("output.color", false)
	}
	if o.Verbose {
		v.Set("logging.level", "debug")
	}

	cfg, err := config.Load(v)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	o.config = cfg
	o.logger = logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	o.logger.Debug("config resolved",
		"file", v.ConfigFileUsed(),
		"format", cfg.Output.Format,
		"store", cfg.Store.Path,
	)
	return nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

// formatter returns an OutputFormatter for cmd using the resolved format.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.config.Output.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// harness builds a Harness wired to the resolved logger and run IDs.
func (o *RootOptions) harness() *harness.Harness {
	hopts := []harness.Option{harness.WithLogger(o.logger)}
	if o.RunIDs != nil {
		hopts = append(hopts, harness.WithRunIDGenerator(o.RunIDs))
	}
	return harness.New(hopts...)
}

func (o *RootOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/tokenmeta/internal/store"
)

// EnvPrefix prefixes environment overrides, e.g. TOKENMETA_FORMAT=json.
const EnvPrefix = "TOKENMETA"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Backend    string // "memory" | "sqlite"
	DB         string // SQLite path when Backend is "sqlite"
	ConfigFile string

	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ValidBackends defines the allowed storage backends.
var ValidBackends = []string{"memory", "sqlite"}

// NewRootCommand creates the root command for the tokenmeta CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tokenmeta",
		Short: "tokenmeta - token metadata documents",
		Long: `Store layered token metadata and render it as self-contained
JSON documents encoded in data URIs.

Flags can also be set in a YAML config file (--config) or through
TOKENMETA_* environment variables, e.g. TOKENMETA_FORMAT=json.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&opts.Backend, "backend", "memory", "storage backend (memory|sqlite)")
	pf.StringVar(&opts.DB, "db", store.MemoryDSN, "SQLite database path for the sqlite backend")
	pf.StringVar(&opts.ConfigFile, "config", "", "config file (YAML)")

	// Add subcommands
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewDecodeCommand(opts))
	cmd.AddCommand(NewKeyCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// load layers flag, environment and config file values, validates them
// and installs the logger. Explicit flags win over the environment, which
// wins over the config file.
func (o *RootOptions) load(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return WrapExitError(ExitCommandError, "failed to bind flags", err)
	}

	if cfg := v.GetString("config"); cfg != "" {
		v.SetConfigFile(cfg)
		if err := v.ReadInConfig(); err != nil {
			return WrapExitError(ExitCommandError, "failed to read config", err)
		}
		o.ConfigFile = v.ConfigFileUsed()
	}

	o.Format = v.GetString("format")
	o.Verbose = v.GetBool("verbose")
	o.Backend = v.GetString("backend")
	o.DB = v.GetString("db")

	if !slices.Contains(ValidFormats, o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}
	if !slices.Contains(ValidBackends, o.Backend) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid backend %q: must be one of %v", o.Backend, ValidBackends))
	}

	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if o.ConfigFile != "" {
		o.Logger.Debug("using config file", "path", o.ConfigFile)
	}
	return nil
}

// logger returns the configured logger, or a discarding one when the
// command runs without the root pre-run hook.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// Execute runs cmd and returns the process exit code. Errors that no
// command wrote out already are printed to cmd's error stream.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		// Flag parsing and argument count errors from cobra.
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return ExitCommandError
	}
	if !exitErr.reported {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return exitErr.Code
}

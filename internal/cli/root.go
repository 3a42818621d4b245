package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	SchemaPath string

	// Config is the effective configuration. PersistentPreRunE loads it;
	// tests set it directly.
	Config     *Config
	ConfigFile string

	// Logger is the process logger. Nil means slog.Default().
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the soqlgen CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "soqlgen",
		Short: "soqlgen - natural language to SOQL",
		Long: `Turn plain-English questions into SOQL queries against a schema graph.

Generation is deterministic: the same question against the same schema
always yields the same query, so generated queries can be recorded,
replayed and checked in scenario suites.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.setup(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: soqlgen.yaml found by walking up)")
	cmd.PersistentFlags().StringVar(&opts.SchemaPath, "schema", "", "schema path, overrides schema.path")

	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code.
// Errors the commands already reported are not printed again.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return GetExitCode(err)
}

// setup loads the configuration and installs the logger.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg, err := o.settings()
	if err != nil {
		return o.formatter(cmd).Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	o.Logger = NewLogger(cmd.ErrOrStderr(), o.Format, cfg.LogLevel(o.Verbose))
	slog.SetDefault(o.Logger)
	return nil
}

// settings returns the effective configuration, loading it on first use.
func (o *RootOptions) settings() (*Config, error) {
	if o.Config == nil {
		cfg, path, err := LoadConfig(o.ConfigPath)
		if err != nil {
			return nil, err
		}
		o.Config, o.ConfigFile = cfg, path
	}
	if o.SchemaPath != "" {
		o.Config.Schema.Path = o.SchemaPath
	}
	return o.Config, nil
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ConfigOutput is the payload of config show.
type ConfigOutput struct {
	File   string  `json:"file"`
	Config *Config `json:"config"`
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after applying defaults, the config file,
SOQLGEN_* environment variables and flags, in that order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(rootOpts, cmd)
		},
	})

	return cmd
}

func runConfigShow(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.settings()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ConfigOutput{File: opts.ConfigFile, Config: cfg})
	}

	w := formatter.Writer
	if opts.ConfigFile != "" {
		fmt.Fprintf(w, "# config file: %s\n", opts.ConfigFile)
	} else {
		fmt.Fprintln(w, "# no config file, using defaults")
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return formatter.Fail(ExitFailure, ErrCodeConfig, "failed to encode configuration", err)
	}
	return enc.Close()
}

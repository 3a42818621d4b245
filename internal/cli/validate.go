package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/soqlgen/internal/compiler"
	"github.com/roach88/soqlgen/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid         bool               `json:"valid"`
	Path          string             `json:"path"`
	Objects       int                `json:"objects"`
	Relationships int                `json:"relationships"`
	Digest        string             `json:"digest"`
	Warnings      []compiler.Warning `json:"warnings"`
}

// NewValidateCommand creates the schema validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a schema",
		Long: `Compile a CUE or YAML schema and report problems.

Compilation errors fail the command. Lint findings (relationship cycles,
objects without date fields or default fields, unrelated objects) are
reported but do not fail it. Without a path the configured schema is
validated, or the built-in sample schema when none is configured.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(rootOpts, path, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if path == "" {
		cfg, err := opts.settings()
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
		}
		path = cfg.Schema.Path
	}

	g, err := LoadSchema(path)
	if err != nil {
		return failLoad(formatter, err)
	}

	digest, err := ir.SchemaDigest(g.Describe())
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeSchemaInvalid, "failed to digest schema", err)
	}

	warnings := compiler.Lint(g)
	if warnings == nil {
		warnings = []compiler.Warning{}
	}
	result := ValidationResult{
		Valid:         true,
		Path:          displayPath(path),
		Objects:       len(g.Objects()),
		Relationships: len(g.Edges()),
		Digest:        digest,
		Warnings:      warnings,
	}
	formatter.VerboseLog("Schema digest %s", digest)

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Schema valid: %s (%d objects, %d relationships)\n", result.Path, result.Objects, result.Relationships)
	for _, warn := range warnings {
		if warn.Level == "info" && !opts.Verbose {
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", warn.Level, warn.Message)
	}
	return nil
}

func displayPath(path string) string {
	if path == "" {
		return "built-in sample"
	}
	return path
}

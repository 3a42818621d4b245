package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/soqlgen/internal/ir"
	"github.com/roach88/soqlgen/internal/store"
)

// HistoryOptions holds flags shared by the history subcommands.
type HistoryOptions struct {
	*RootOptions
	Database string // overrides history.path
}

// GenerationOutput is one history entry as printed by the history commands.
type GenerationOutput struct {
	ID            string          `json:"id"`
	Seq           int64           `json:"seq"`
	Question      string          `json:"question"`
	Query         string          `json:"query"`
	Object        string          `json:"object"`
	Rule          string          `json:"rule"`
	Resolution    string          `json:"resolution"`
	Capabilities  string          `json:"capabilities"`
	Diagnostics   []ir.Diagnostic `json:"diagnostics"`
	Fingerprint   string          `json:"fingerprint"`
	SchemaDigest  string          `json:"schema_digest"`
	EngineVersion string          `json:"engine_version"`
	CreatedAt     string          `json:"created_at"`
}

// NewHistoryCommand creates the history command and its subcommands.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and replay recorded generations",
		Long: `Inspect and replay the generations recorded with generate --history.

The history is a SQLite database (history.path, default .soqlgen/history.db).
Entries are ordered by their sequence number, newest first.`,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to the history database (default: history.path)")

	cmd.AddCommand(newHistoryListCommand(opts))
	cmd.AddCommand(newHistoryShowCommand(opts))
	cmd.AddCommand(newHistoryStatsCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))

	return cmd
}

func newHistoryListCommand(opts *HistoryOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List recent generations",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := opts.formatter(cmd)
			st, err := opts.open(formatter)
			if err != nil {
				return err
			}
			defer closeHistory(st, opts.logger())

			gens, err := st.List(commandContext(cmd), limit)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeHistory, "failed to list history", err)
			}

			if formatter.Format == "json" {
				out := make([]GenerationOutput, 0, len(gens))
				for _, g := range gens {
					out = append(out, newGenerationOutput(g))
				}
				return formatter.Success(out)
			}

			w := formatter.Writer
			if len(gens) == 0 {
				fmt.Fprintln(w, "No generations recorded.")
				return nil
			}
			for _, g := range gens {
				fmt.Fprintf(w, "%6d  %s  %-14s %s\n", g.Seq, g.ID, g.Object, g.Query)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries (0 for all)")

	return cmd
}

func newHistoryShowCommand(opts *HistoryOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id>",
		Short:         "Show one generation",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := opts.formatter(cmd)
			st, err := opts.open(formatter)
			if err != nil {
				return err
			}
			defer closeHistory(st, opts.logger())

			g, err := st.Read(commandContext(cmd), args[0])
			if errors.Is(err, sql.ErrNoRows) {
				return formatter.Fail(ExitCommandError, ErrCodeHistory, fmt.Sprintf("generation not found: %s", args[0]), nil)
			}
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeHistory, "failed to read history", err)
			}

			out := newGenerationOutput(g)
			if formatter.Format == "json" {
				return formatter.Success(out)
			}
			writeGenerationText(formatter.Writer, out)
			return nil
		},
	}
}

// ObjectCountOutput is one row of history stats.
type ObjectCountOutput struct {
	Object string `json:"object"`
	Count  int    `json:"count"`
}

func newHistoryStatsCommand(opts *HistoryOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stats",
		Short:         "Count generations per root object",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := opts.formatter(cmd)
			st, err := opts.open(formatter)
			if err != nil {
				return err
			}
			defer closeHistory(st, opts.logger())

			counts, err := st.CountByObject(commandContext(cmd))
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeHistory, "failed to count history", err)
			}

			out := make([]ObjectCountOutput, 0, len(counts))
			for _, c := range counts {
				out = append(out, ObjectCountOutput{Object: c.Object, Count: c.Count})
			}
			if formatter.Format == "json" {
				return formatter.Success(out)
			}
			for _, c := range out {
				fmt.Fprintf(formatter.Writer, "%-20s %d\n", c.Object, c.Count)
			}
			return nil
		},
	}
}

// open opens the existing history database, reporting a missing file as a
// command error.
func (o *HistoryOptions) open(formatter *OutputFormatter) (*store.Store, error) {
	path, err := o.path()
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	st, err := openHistory(path, false)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeHistory, "failed to open history", err)
	}
	return st, nil
}

func (o *HistoryOptions) path() (string, error) {
	if o.Database != "" {
		return o.Database, nil
	}
	cfg, err := o.settings()
	if err != nil {
		return "", err
	}
	return cfg.History.Path, nil
}

// openHistory opens the history database at path. With create it makes the
// parent directory; without it a missing database is an error.
func openHistory(path string, create bool) (*store.Store, error) {
	if create {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create history directory: %w", err)
			}
		}
	} else if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("history database not found: %s", path)
	}
	return store.Open(path)
}

func closeHistory(st *store.Store, logger *slog.Logger) {
	if err := st.Close(); err != nil {
		logger.Error("error closing history", "error", err)
	}
}

func newGenerationOutput(g store.Generation) GenerationOutput {
	diags := g.Diagnostics
	if diags == nil {
		diags = []ir.Diagnostic{}
	}
	return GenerationOutput{
		ID:            g.ID,
		Seq:           g.Seq,
		Question:      g.Question,
		Query:         g.Query,
		Object:        g.Object,
		Rule:          g.Rule,
		Resolution:    g.Resolution,
		Capabilities:  g.Capabilities,
		Diagnostics:   diags,
		Fingerprint:   g.Fingerprint,
		SchemaDigest:  g.SchemaDigest,
		EngineVersion: g.EngineVersion,
		CreatedAt:     g.CreatedAt,
	}
}

func writeGenerationText(w io.Writer, g GenerationOutput) {
	fmt.Fprintf(w, "id:           %s\n", g.ID)
	fmt.Fprintf(w, "seq:          %d\n", g.Seq)
	fmt.Fprintf(w, "created:      %s\n", g.CreatedAt)
	fmt.Fprintf(w, "question:     %s\n", g.Question)
	fmt.Fprintf(w, "query:        %s\n", g.Query)
	fmt.Fprintf(w, "object:       %s\n", g.Object)
	fmt.Fprintf(w, "rule:         %s\n", g.Rule)
	fmt.Fprintf(w, "resolution:   %s\n", g.Resolution)
	fmt.Fprintf(w, "capabilities: %s\n", g.Capabilities)
	fmt.Fprintf(w, "fingerprint:  %s\n", g.Fingerprint)
	fmt.Fprintf(w, "engine:       %s\n", g.EngineVersion)
	if len(g.Diagnostics) == 0 {
		fmt.Fprintln(w, "diagnostics:  none")
		return
	}
	fmt.Fprintln(w, "diagnostics:")
	for _, d := range g.Diagnostics {
		fmt.Fprintf(w, "  %s\n", d)
	}
}

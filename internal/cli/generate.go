package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/soqlgen/internal/engine"
	"github.com/roach88/soqlgen/internal/ir"
	"github.com/roach88/soqlgen/internal/schema"
	"github.com/roach88/soqlgen/internal/store"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Explain bool
	History bool

	// IDs allows overriding the request ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs engine.IDGenerator

	// Now allows overriding the recorded creation time (for testing).
	Now func() time.Time
}

// GenerateOutput is the JSON payload of the generate command.
type GenerateOutput struct {
	RequestID    string          `json:"request_id"`
	Seq          int64           `json:"seq"`
	Question     string          `json:"question"`
	Query        string          `json:"query"`
	Object       string          `json:"object"`
	Rule         string          `json:"rule"`
	Resolution   string          `json:"resolution"`
	Capabilities []string        `json:"capabilities"`
	Diagnostics  []ir.Diagnostic `json:"diagnostics"`
	Fingerprint  string          `json:"fingerprint"`

	// Recorded is true when the generation was written to the history.
	Recorded bool `json:"recorded"`

	// Previous lists earlier history entries with the same fingerprint.
	Previous []string `json:"previous,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <question...>",
		Short: "Generate a SOQL query from a question",
		Long: `Generate a SOQL query from a plain-English question.

The question may be given as one quoted argument or as several words.
Phrasing the engine does not understand is dropped and reported as a
diagnostic; generation itself only fails for an empty schema.

Examples:
  soqlgen generate "Show me accounts with their contacts"
  soqlgen generate count accounts by industry --explain
  soqlgen generate "top 5 opportunities by amount" --history --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, strings.Join(args, " "), cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Explain, "explain", false, "show how the question was understood")
	cmd.Flags().BoolVar(&opts.History, "history", false, "record the generation in the history database")

	return cmd
}

func runGenerate(opts *GenerateOptions, question string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger()
	ctx := commandContext(cmd)

	cfg, err := opts.settings()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}

	g, err := LoadSchema(cfg.Schema.Path)
	if err != nil {
		return failLoad(formatter, err)
	}
	formatter.VerboseLog("Loaded schema with %d object(s)", len(g.Objects()))

	record := opts.History || cfg.History.Enabled
	var st *store.Store
	clock := engine.NewClock()
	if record {
		st, err = openHistory(cfg.History.Path, true)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeHistory, "failed to open history", err)
		}
		defer closeHistory(st, logger)

		last, err := st.MaxSeq(ctx)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeHistory, "failed to read history", err)
		}
		clock = engine.NewClockAt(last)
	}

	engineOpts := append(cfg.EngineOptions(),
		engine.WithLogger(logger),
		engine.WithIDGenerator(opts.IDs),
		engine.WithClock(clock),
	)
	eng := engine.New(g, engineOpts...)

	res, err := eng.Generate(question)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGenerate, "generation failed", err)
	}

	out := newGenerateOutput(res)
	if record {
		previous, err := recordGeneration(ctx, st, g, res, opts.now())
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeHistory, "failed to record generation", err)
		}
		out.Recorded = true
		out.Previous = previous
		logger.Info("generation recorded", "request_id", res.RequestID, "seq", res.Seq)
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}
	writeGenerateText(formatter.Writer, out, opts.Explain)
	return nil
}

func newGenerateOutput(res engine.Result) GenerateOutput {
	caps := res.Capabilities.Names()
	if caps == nil {
		caps = []string{}
	}
	diags := res.Diagnostics
	if diags == nil {
		diags = []ir.Diagnostic{}
	}
	return GenerateOutput{
		RequestID:    res.RequestID,
		Seq:          res.Seq,
		Question:     res.Question,
		Query:        res.Query,
		Object:       res.Object,
		Rule:         res.Rule,
		Resolution:   string(res.Resolution),
		Capabilities: caps,
		Diagnostics:  diags,
		Fingerprint:  res.Fingerprint,
	}
}

// recordGeneration writes res to the history and returns the IDs of earlier
// generations with the same fingerprint.
func recordGeneration(ctx context.Context, st *store.Store, g *schema.Graph, res engine.Result, now time.Time) ([]string, error) {
	earlier, err := st.FindByFingerprint(ctx, res.Fingerprint)
	if err != nil {
		return nil, err
	}
	var previous []string
	for _, gen := range earlier {
		previous = append(previous, gen.ID)
	}

	digest, err := ir.SchemaDigest(g.Describe())
	if err != nil {
		return nil, fmt.Errorf("schema digest: %w", err)
	}

	_, err = st.Write(ctx, store.Generation{
		ID:            res.RequestID,
		Seq:           res.Seq,
		Fingerprint:   res.Fingerprint,
		Question:      res.Question,
		Normalized:    res.Normalized,
		Query:         res.Query,
		Object:        res.Object,
		Rule:          res.Rule,
		Resolution:    string(res.Resolution),
		Capabilities:  res.Capabilities.String(),
		Diagnostics:   res.Diagnostics,
		SchemaDigest:  digest,
		EngineVersion: ir.EngineVersion,
		CreatedAt:     now.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	return previous, nil
}

func writeGenerateText(w io.Writer, out GenerateOutput, explain bool) {
	fmt.Fprintln(w, out.Query)
	if explain {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  request:      %s (seq %d)\n", out.RequestID, out.Seq)
		fmt.Fprintf(w, "  object:       %s\n", out.Object)
		fmt.Fprintf(w, "  rule:         %s\n", out.Rule)
		fmt.Fprintf(w, "  resolution:   %s\n", out.Resolution)
		fmt.Fprintf(w, "  capabilities: %s\n", joinOrNone(out.Capabilities))
		fmt.Fprintf(w, "  fingerprint:  %s\n", out.Fingerprint)
		if len(out.Previous) > 0 {
			fmt.Fprintf(w, "  seen before:  %s\n", strings.Join(out.Previous, ", "))
		}
	}
	for _, d := range out.Diagnostics {
		fmt.Fprintf(w, "  ! %s\n", d)
	}
}

func (o *GenerateOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

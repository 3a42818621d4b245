package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/soqlgen/internal/engine"
	"github.com/roach88/soqlgen/internal/ir"
	"github.com/roach88/soqlgen/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*HistoryOptions
	Object string // optional - one root object only
	Limit  int
	Run    int64 // show a stored run instead of replaying

	// Now allows overriding the recorded run time (for testing).
	Now func() time.Time
}

// ReplayDriftOutput is one question whose query changed.
type ReplayDriftOutput struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Recorded string `json:"recorded"`
	Current  string `json:"current"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	RunID         int64               `json:"run_id"`
	SchemaDigest  string              `json:"schema_digest"`
	EngineVersion string              `json:"engine_version"`
	Checked       int                 `json:"checked"`
	Drifts        []ReplayDriftOutput `json:"drifts"`
	Stable        bool                `json:"stable"`
}

// NewReplayCommand creates the history replay command.
func NewReplayCommand(historyOpts *HistoryOptions) *cobra.Command {
	opts := &ReplayOptions{HistoryOptions: historyOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Regenerate recorded questions and report drift",
		Long: `Regenerate every recorded question against the current schema and
compare the queries with the recorded ones.

Generation is deterministic, so a drifted query means the schema or the
engine changed since the question was recorded. Each replay is stored as
a run with its drifts.

Exit codes:
  0 - Every query matches its recording
  1 - One or more queries drifted
  2 - Command error (database not found, schema invalid, etc.)

Examples:
  soqlgen history replay
  soqlgen history replay --object Account --limit 50
  soqlgen history replay --schema ./schema --format json
  soqlgen history replay --run 3`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Object, "object", "", "replay generations rooted at this object only")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of generations (0 for all)")
	cmd.Flags().Int64Var(&opts.Run, "run", 0, "show a stored replay run")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger()
	ctx := commandContext(cmd)

	st, err := opts.open(formatter)
	if err != nil {
		return err
	}
	defer closeHistory(st, logger)

	if opts.Run > 0 {
		return showReplayRun(ctx, st, opts.Run, formatter)
	}

	cfg, err := opts.settings()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	g, err := LoadSchema(cfg.Schema.Path)
	if err != nil {
		return failLoad(formatter, err)
	}

	gens, err := st.ReplaySet(ctx, opts.Object, opts.Limit)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, "failed to read history", err)
	}

	records := make([]engine.Recorded, 0, len(gens))
	for _, gen := range gens {
		records = append(records, engine.Recorded{ID: gen.ID, Question: gen.Question, Query: gen.Query})
	}

	eng := engine.New(g, append(cfg.EngineOptions(), engine.WithLogger(logger))...)
	report, err := eng.Replay(ctx, records)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGenerate, "replay failed", err)
	}

	digest, err := ir.SchemaDigest(g.Describe())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeSchemaInvalid, "failed to digest schema", err)
	}

	run := store.ReplayRun{
		SchemaDigest:  digest,
		EngineVersion: ir.EngineVersion,
		Checked:       report.Checked,
		CreatedAt:     opts.now().UTC().Format(time.RFC3339),
	}
	result := ReplayResult{
		SchemaDigest:  digest,
		EngineVersion: ir.EngineVersion,
		Checked:       report.Checked,
		Drifts:        []ReplayDriftOutput{},
		Stable:        len(report.Drifted) == 0,
	}
	for _, d := range report.Drifted {
		run.Drifts = append(run.Drifts, store.ReplayDrift{GenerationID: d.ID, CurrentQuery: d.Current})
		result.Drifts = append(result.Drifts, ReplayDriftOutput{
			ID:       d.ID,
			Question: d.Question,
			Recorded: d.Recorded,
			Current:  d.Current,
		})
	}

	result.RunID, err = st.WriteReplay(ctx, run)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, "failed to record replay", err)
	}

	return outputReplay(formatter, result)
}

// showReplayRun prints a stored run. Recorded queries come from the
// generations the drifts point at.
func showReplayRun(ctx context.Context, st *store.Store, id int64, formatter *OutputFormatter) error {
	run, err := st.ReadReplay(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, fmt.Sprintf("replay run not found: %d", id), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, "failed to read replay run", err)
	}

	result := ReplayResult{
		RunID:         run.ID,
		SchemaDigest:  run.SchemaDigest,
		EngineVersion: run.EngineVersion,
		Checked:       run.Checked,
		Drifts:        []ReplayDriftOutput{},
		Stable:        len(run.Drifts) == 0,
	}
	for _, d := range run.Drifts {
		gen, err := st.Read(ctx, d.GenerationID)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeHistory, "failed to read history", err)
		}
		result.Drifts = append(result.Drifts, ReplayDriftOutput{
			ID:       d.GenerationID,
			Question: gen.Question,
			Recorded: gen.Query,
			Current:  d.CurrentQuery,
		})
	}
	return outputReplay(formatter, result)
}

// outputReplay prints the result; drift is a failure (exit code 1).
func outputReplay(formatter *OutputFormatter, result ReplayResult) error {
	if formatter.Format == "json" {
		response := CLIResponse{Status: "ok", Data: result}
		if !result.Stable {
			response.Status = "error"
			response.Error = &CLIError{
				Code:    ErrCodeReplayDrift,
				Message: fmt.Sprintf("%d of %d queries drifted", len(result.Drifts), result.Checked),
			}
		}
		if err := formatter.encode(response); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		fmt.Fprintf(w, "Replay run %d: %d checked, %d drifted\n", result.RunID, result.Checked, len(result.Drifts))
		for _, d := range result.Drifts {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "✗ %s: %s\n", d.ID, d.Question)
			fmt.Fprintf(w, "  recorded: %s\n", d.Recorded)
			fmt.Fprintf(w, "  current:  %s\n", d.Current)
		}
		if result.Stable {
			fmt.Fprintln(w, "✓ All queries match their recordings")
		}
	}

	if !result.Stable {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d queries drifted", ErrCodeReplayDrift, len(result.Drifts)))
	}
	return nil
}

func (o *ReplayOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

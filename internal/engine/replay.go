package engine

import (
	"context"
	"fmt"
)

// Recorded is a question answered earlier and the query it produced.
type Recorded struct {
	ID       string
	Question string
	Query    string
}

// Drift is a recorded question whose query no longer matches.
type Drift struct {
	ID       string
	Question string
	Recorded string
	Current  string
}

// ReplayReport summarizes a replay.
type ReplayReport struct {
	Checked int
	Drifted []Drift
}

// Replay regenerates every recorded question against the current schema
// and reports the ones whose query changed. Generation is deterministic,
// so drift means the schema or the engine changed between runs.
//
// Replay neither consumes request IDs nor advances the clock. It stops at
// the first context cancellation and returns what it checked so far.
func (e *Engine) Replay(ctx context.Context, records []Recorded) (ReplayReport, error) {
	var report ReplayReport
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := Result{RequestID: rec.ID, Question: rec.Question}
		if err := e.build(&res); err != nil {
			return report, fmt.Errorf("replay %s: %w", rec.ID, err)
		}
		report.Checked++
		if res.Query != rec.Query {
			report.Drifted = append(report.Drifted, Drift{
				ID:       rec.ID,
				Question: rec.Question,
				Recorded: rec.Query,
				Current:  res.Query,
			})
		}
	}
	e.logger.Info("replay complete",
		"checked", report.Checked,
		"drifted", len(report.Drifted),
	)
	return report, nil
}

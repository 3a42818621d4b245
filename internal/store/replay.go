package store

import (
	"context"
	"fmt"
)

// ReplayRun records one replay of the history against a schema.
type ReplayRun struct {
	ID            int64
	SchemaDigest  string
	EngineVersion string
	Checked       int
	CreatedAt     string
	Drifts        []ReplayDrift
}

// ReplayDrift is a generation whose query changed in a replay run.
type ReplayDrift struct {
	GenerationID string
	CurrentQuery string
}

// ReplaySet returns the generations to replay, oldest first. An empty
// object replays every generation; limit <= 0 means no limit.
func (s *Store) ReplaySet(ctx context.Context, object string, limit int) ([]Generation, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT`+generationColumns+`
		FROM generations
		WHERE ? = '' OR object = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
		LIMIT ?
	`, object, object, limit)
	if err != nil {
		return nil, fmt.Errorf("query replay set: %w", err)
	}
	return collectGenerations(rows)
}

// WriteReplay stores a replay run and its drifts in one transaction and
// returns the run ID. Every drift must reference a stored generation.
func (s *Store) WriteReplay(ctx context.Context, run ReplayRun) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write replay: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	res, err := tx.ExecContext(ctx, `
		INSERT INTO replay_runs (schema_digest, engine_version, checked, created_at)
		VALUES (?, ?, ?, ?)
	`, run.SchemaDigest, run.EngineVersion, run.Checked, run.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("write replay: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("write replay: last insert id: %w", err)
	}

	for _, d := range run.Drifts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO replay_drifts (run_id, generation_id, current_query)
			VALUES (?, ?, ?)
			ON CONFLICT(run_id, generation_id) DO NOTHING
		`, id, d.GenerationID, d.CurrentQuery); err != nil {
			return 0, fmt.Errorf("write replay drift %s: %w", d.GenerationID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write replay: commit: %w", err)
	}
	return id, nil
}

// ReadReplay retrieves a replay run and its drifts ordered by the seq of
// the drifted generation. Returns sql.ErrNoRows if not found.
func (s *Store) ReadReplay(ctx context.Context, id int64) (ReplayRun, error) {
	run := ReplayRun{ID: id}
	if err := s.db.QueryRowContext(ctx, `
		SELECT schema_digest, engine_version, checked, created_at
		FROM replay_runs
		WHERE id = ?
	`, id).Scan(&run.SchemaDigest, &run.EngineVersion, &run.Checked, &run.CreatedAt); err != nil {
		return ReplayRun{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT d.generation_id, d.current_query
		FROM replay_drifts d
		JOIN generations g ON d.generation_id = g.id
		WHERE d.run_id = ?
		ORDER BY g.seq ASC, d.generation_id COLLATE BINARY ASC
	`, id)
	if err != nil {
		return ReplayRun{}, fmt.Errorf("query replay drifts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d ReplayDrift
		if err := rows.Scan(&d.GenerationID, &d.CurrentQuery); err != nil {
			return ReplayRun{}, fmt.Errorf("scan replay drift: %w", err)
		}
		run.Drifts = append(run.Drifts, d)
	}
	if err := rows.Err(); err != nil {
		return ReplayRun{}, fmt.Errorf("iterate replay drifts: %w", err)
	}
	return run, nil
}

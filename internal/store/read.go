package store

import (
	"context"
	"database/sql"
	"fmt"
)

const generationColumns = `
	id, seq, fingerprint, question, normalized, query, object, rule, resolution,
	capabilities, diagnostics, schema_digest, engine_version, created_at`

// Read retrieves a single generation by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) Read(ctx context.Context, id string) (Generation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT`+generationColumns+`
		FROM generations
		WHERE id = ?
	`, id)

	return scanGeneration(row)
}

// List returns the newest generations first, at most limit of them.
// A limit of zero or less returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Generation, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT`+generationColumns+`
		FROM generations
		ORDER BY seq DESC, id COLLATE BINARY ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	return collectGenerations(rows)
}

// FindByFingerprint returns every generation with the given fingerprint,
// oldest first. Returns an empty slice (not nil) when there are none.
func (s *Store) FindByFingerprint(ctx context.Context, fingerprint string) ([]Generation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT`+generationColumns+`
		FROM generations
		WHERE fingerprint = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("query generations by fingerprint: %w", err)
	}
	return collectGenerations(rows)
}

// ObjectCount is the number of generations rooted at one object.
type ObjectCount struct {
	Object string
	Count  int
}

// CountByObject counts generations per root object, most queried first
// with ties broken by object name.
func (s *Store) CountByObject(ctx context.Context) ([]ObjectCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT object, COUNT(*)
		FROM generations
		GROUP BY object
		ORDER BY COUNT(*) DESC, object COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("count generations: %w", err)
	}
	defer rows.Close()

	counts := []ObjectCount{}
	for rows.Next() {
		var c ObjectCount
		if err := rows.Scan(&c.Object, &c.Count); err != nil {
			return nil, fmt.Errorf("scan object count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate object counts: %w", err)
	}
	return counts, nil
}

// MaxSeq returns the highest seq in the history, or 0 when it is empty.
// The CLI starts its clock here so seq stays unique across runs.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM generations`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("max seq: %w", err)
	}
	return seq, nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanGeneration(row scanner) (Generation, error) {
	var (
		g         Generation
		diagsJSON string
	)
	if err := row.Scan(
		&g.ID,
		&g.Seq,
		&g.Fingerprint,
		&g.Question,
		&g.Normalized,
		&g.Query,
		&g.Object,
		&g.Rule,
		&g.Resolution,
		&g.Capabilities,
		&diagsJSON,
		&g.SchemaDigest,
		&g.EngineVersion,
		&g.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return Generation{}, err
		}
		return Generation{}, fmt.Errorf("scan generation: %w", err)
	}

	diags, err := unmarshalDiagnostics(diagsJSON)
	if err != nil {
		return Generation{}, fmt.Errorf("generation %s: %w", g.ID, err)
	}
	g.Diagnostics = diags
	return g, nil
}

func collectGenerations(rows *sql.Rows) ([]Generation, error) {
	defer rows.Close()

	generations := []Generation{}
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		generations = append(generations, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generations: %w", err)
	}
	return generations, nil
}

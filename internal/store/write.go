package store

import (
	"context"
	"fmt"

	"github.com/roach88/soqlgen/internal/ir"
)

// Generation is one answered question as recorded in the history.
type Generation struct {
	ID          string
	Seq         int64
	Fingerprint string

	Question   string
	Normalized string
	Query      string
	Object     string

	Rule         string
	Resolution   string
	Capabilities string
	Diagnostics  []ir.Diagnostic

	SchemaDigest  string
	EngineVersion string

	// CreatedAt is RFC 3339 text supplied by the caller. Informational
	// only; history is ordered by Seq.
	CreatedAt string
}

// Write inserts a generation into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency; inserted reports whether
// a new row was written. Other constraint violations, such as a reused seq,
// still return errors.
func (s *Store) Write(ctx context.Context, g Generation) (inserted bool, err error) {
	diagsJSON, err := marshalDiagnostics(g.Diagnostics)
	if err != nil {
		return false, fmt.Errorf("write generation: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO generations
		(id, seq, fingerprint, question, normalized, query, object, rule, resolution,
		 capabilities, diagnostics, schema_digest, engine_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		g.ID,
		g.Seq,
		g.Fingerprint,
		g.Question,
		g.Normalized,
		g.Query,
		g.Object,
		g.Rule,
		g.Resolution,
		g.Capabilities,
		diagsJSON,
		g.SchemaDigest,
		g.EngineVersion,
		g.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("write generation: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write generation: rows affected: %w", err)
	}
	return n > 0, nil
}

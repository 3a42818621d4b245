package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/soqlgen/internal/ir"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestGeneration creates a generation with minimal required fields.
func createTestGeneration(id string, seq int64, object, query string) Generation {
	return Generation{
		ID:            id,
		Seq:           seq,
		Fingerprint:   "fp-" + id,
		Question:      "show " + object,
		Normalized:    "show " + object,
		Query:         query,
		Object:        object,
		Rule:          "mentions",
		Resolution:    "none",
		Capabilities:  "fields",
		EngineVersion: ir.EngineVersion,
		CreatedAt:     "2026-01-01T00:00:00Z",
	}
}

func mustWrite(t *testing.T, s *Store, gens ...Generation) {
	t.Helper()
	for _, g := range gens {
		if _, err := s.Write(context.Background(), g); err != nil {
			t.Fatalf("Write(%s) failed: %v", g.ID, err)
		}
	}
}

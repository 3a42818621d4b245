package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(gens []Generation) []string {
	out := make([]string, len(gens))
	for i, g := range gens {
		out[i] = g.ID
	}
	return out
}

func TestRead_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Read(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestList_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	mustWrite(t, s,
		createTestGeneration("b", 2, "Contact", "SELECT Id FROM Contact"),
		createTestGeneration("a", 1, "Account", "SELECT Id FROM Account"),
		createTestGeneration("c", 3, "Lead", "SELECT Id FROM Lead"),
	)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(all))

	two, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, ids(two))
}

func TestList_Empty(t *testing.T) {
	s := createTestStore(t)

	gens, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, gens)
	assert.Empty(t, gens)
}

func TestFindByFingerprint(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first := createTestGeneration("a", 1, "Account", "SELECT Id FROM Account")
	first.Fingerprint = "shared"
	second := createTestGeneration("b", 5, "Account", "SELECT Id FROM Account")
	second.Fingerprint = "shared"
	mustWrite(t, s, second, first, createTestGeneration("c", 3, "Lead", "SELECT Id FROM Lead"))

	gens, err := s.FindByFingerprint(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(gens))

	gens, err = s.FindByFingerprint(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, gens)
}

func TestCountByObject(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	mustWrite(t, s,
		createTestGeneration("a", 1, "Lead", "q"),
		createTestGeneration("b", 2, "Account", "q"),
		createTestGeneration("c", 3, "Contact", "q"),
		createTestGeneration("d", 4, "Contact", "q"),
	)

	counts, err := s.CountByObject(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ObjectCount{
		{Object: "Contact", Count: 2},
		{Object: "Account", Count: 1},
		{Object: "Lead", Count: 1},
	}, counts)
}

func TestMaxSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seq, err := s.MaxSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq)

	mustWrite(t, s,
		createTestGeneration("a", 7, "Account", "q"),
		createTestGeneration("b", 3, "Account", "q"),
	)
	seq, err = s.MaxSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq)
}

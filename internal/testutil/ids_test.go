package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/soqlgen/internal/engine"
)

var _ engine.IDGenerator = (*SequentialIDs)(nil)

func TestSequentialIDs(t *testing.T) {
	gen := NewSequentialIDs("case")

	assert.Equal(t, "case-0001", gen.Generate())
	assert.Equal(t, "case-0002", gen.Generate())

	gen.Reset()
	assert.Equal(t, "case-0001", gen.Generate())
}

func TestSequentialIDs_DefaultPrefix(t *testing.T) {
	assert.Equal(t, "req-0001", NewSequentialIDs("").Generate())
}

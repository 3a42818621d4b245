package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates request IDs of the form "<prefix>-0001",
// "<prefix>-0002" and so on.
//
// Unlike engine.FixedGenerator it never runs out, which suits suites whose
// size is not known up front. The same suite run with a fresh SequentialIDs
// produces byte-identical results.
//
// Safe for concurrent use.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator. An empty prefix becomes "req".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "req"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}

// Reset starts the sequence over.
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}

package schema

import (
	"errors"
	"sync/atomic"
)

// Snapshot holds the current graph for hot reload. Readers call Load once
// per request and keep using that graph; Store swaps in a replacement
// without blocking them.
type Snapshot struct {
	current atomic.Pointer[Graph]
}

// NewSnapshot creates a snapshot holding g.
func NewSnapshot(g *Graph) *Snapshot {
	s := &Snapshot{}
	s.current.Store(g)
	return s
}

// Load returns the current graph.
func (s *Snapshot) Load() *Graph {
	return s.current.Load()
}

// Store replaces the current graph. A nil graph is rejected so readers never
// observe an empty snapshot.
func (s *Snapshot) Store(g *Graph) error {
	if g == nil {
		return errors.New("schema: cannot store nil graph")
	}
	s.current.Store(g)
	return nil
}

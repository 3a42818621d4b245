package testutil

import (
	"io"
	"log/slog"

	"github.com/roach88/soqlgen/internal/engine"
	"github.com/roach88/soqlgen/internal/schema"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewEngine creates an engine with deterministic request IDs ("req-0001",
// ...) and sequence numbers and a silent logger. A nil graph means
// schema.Sample(). Options are applied after the defaults and may override
// them.
func NewEngine(g *schema.Graph, opts ...engine.Option) *engine.Engine {
	if g == nil {
		g = schema.Sample()
	}
	base := []engine.Option{
		engine.WithLogger(DiscardLogger()),
		engine.WithIDGenerator(NewSequentialIDs("req")),
		engine.WithClock(NewDeterministicClock()),
	}
	return engine.New(g, append(base, opts...)...)
}

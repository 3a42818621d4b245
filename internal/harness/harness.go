package harness

import (
	"fmt"
	"log/slog"

	"github.com/roach88/soqlgen/internal/compiler"
	"github.com/roach88/soqlgen/internal/engine"
	"github.com/roach88/soqlgen/internal/ir"
	"github.com/roach88/soqlgen/internal/resolve"
	"github.com/roach88/soqlgen/internal/schema"
	"github.com/roach88/soqlgen/internal/testutil"
)

// Harness runs the cases of one suite against one engine.
type Harness struct {
	engine *engine.Engine
	clock  *testutil.DeterministicClock
	ids    *testutil.SequentialIDs
	logger *slog.Logger
}

// Option configures a run.
type Option func(*config)

type config struct {
	graph  *schema.Graph
	logger *slog.Logger
}

// WithGraph runs the suite against g, ignoring the suite's schema key.
func WithGraph(g *schema.Graph) Option {
	return func(c *config) {
		c.graph = g
	}
}

// WithLogger sets the logger used by the harness and its engine.
// Default: a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// New builds a harness for suite: it loads the schema and configures a
// fresh engine with deterministic request IDs and sequence numbers.
func New(suite *Suite, opts ...Option) (*Harness, error) {
	cfg := config{logger: testutil.DiscardLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := cfg.graph
	if g == nil {
		var err error
		if g, err = loadSchema(suite.Schema); err != nil {
			return nil, err
		}
	}

	policy, err := resolve.ParsePolicy(suite.Options.ConversionPolicy)
	if err != nil {
		return nil, fmt.Errorf("suite %s: %w", suite.Name, err)
	}

	h := &Harness{
		clock:  testutil.NewDeterministicClock(),
		ids:    testutil.NewSequentialIDs("case"),
		logger: cfg.logger,
	}
	engineOpts := []engine.Option{
		engine.WithLogger(cfg.logger),
		engine.WithIDGenerator(h.ids),
		engine.WithClock(h.clock),
		engine.WithConversionPolicy(policy),
		engine.WithMaxHops(suite.Options.MaxHops),
	}
	if suite.Options.DefaultObject != "" {
		engineOpts = append(engineOpts, engine.WithDefaultObject(suite.Options.DefaultObject))
	}
	if q := suite.Options.DefaultQuantity; q != nil {
		engineOpts = append(engineOpts, engine.WithDefaultQuantity(*q))
	}
	h.engine = engine.New(g, engineOpts...)
	return h, nil
}

func loadSchema(path string) (*schema.Graph, error) {
	if path == "" {
		return schema.Sample(), nil
	}
	g, err := compiler.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	return g, nil
}

// Run executes every case of suite in order and returns the result.
// Failed checks are reported in the result; the error is reserved for
// suites that cannot run at all (bad schema, empty schema).
func Run(suite *Suite, opts ...Option) (*Result, error) {
	h, err := New(suite, opts...)
	if err != nil {
		return nil, err
	}
	return h.Run(suite)
}

// Run executes the cases of suite. The clock and ID sequence restart so
// repeated runs produce identical results.
func (h *Harness) Run(suite *Suite) (*Result, error) {
	h.clock.Reset()
	h.ids.Reset()

	result := NewResult(suite.Name)
	for _, c := range suite.Cases {
		res, err := h.engine.Generate(c.Question)
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", c.Name, err)
		}

		cr := CaseResult{
			Name:        c.Name,
			Question:    c.Question,
			RequestID:   res.RequestID,
			Query:       res.Query,
			Object:      res.Object,
			Diagnostics: ir.Codes(res.Diagnostics),
			Pass:        true,
		}
		for _, msg := range checkCase(c, res) {
			cr.AddError(msg)
		}
		result.Add(cr)

		h.logger.Debug("case completed",
			"suite", suite.Name,
			"case", c.Name,
			"pass", cr.Pass,
			"request_id", res.RequestID,
		)
	}

	h.logger.Info("suite completed",
		"suite", suite.Name,
		"passed", result.Passed(),
		"failed", result.Failed(),
	)
	return result, nil
}

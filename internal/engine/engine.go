package engine

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/roach88/soqlgen/internal/clause"
	"github.com/roach88/soqlgen/internal/intent"
	"github.com/roach88/soqlgen/internal/ir"
	"github.com/roach88/soqlgen/internal/queryir"
	"github.com/roach88/soqlgen/internal/querysoql"
	"github.com/roach88/soqlgen/internal/resolve"
	"github.com/roach88/soqlgen/internal/schema"
)

// IDGenerator generates request IDs.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// Sequencer numbers results. Implemented by *Clock.
type Sequencer interface {
	Next() int64
}

// DefaultQuantity replaces a count that does not parse as a non-negative
// integer ("top 2.5 accounts").
const DefaultQuantity = 1

// Engine turns questions into SOQL against a hot-reloadable schema.
//
// Thread-safety: Generate, Replay and Reload may be called from any
// goroutine.
type Engine struct {
	snapshot *schema.Snapshot
	current  atomic.Pointer[runtime]

	defaultObject string
	maxHops       int
	policy        resolve.Policy
	quantity      int
	pipeline      *clause.Pipeline

	logger *slog.Logger
	ids    IDGenerator
	clock  Sequencer
}

// runtime is everything derived from one graph. It is rebuilt when the
// snapshot changes and never mutated afterwards.
type runtime struct {
	graph     *schema.Graph
	vocab     *intent.Vocabulary
	extractor *intent.Extractor
	resolver  *resolve.Resolver
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaultObject sets the object used when a question names none.
// Default: intent.DefaultObject ("Account"), or the first object of the
// schema when that is missing.
func WithDefaultObject(name string) Option {
	return func(e *Engine) {
		e.defaultObject = name
	}
}

// WithMaxHops bounds relationship paths and nesting depth.
// Default: schema.DefaultMaxHops.
func WithMaxHops(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxHops = n
		}
	}
}

// WithConversionPolicy chooses between nesting and dot notation for
// directly related objects. Default: resolve.PolicySubject.
func WithConversionPolicy(p resolve.Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithDefaultQuantity sets the count substituted for malformed numbers.
func WithDefaultQuantity(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.quantity = n
		}
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithIDGenerator sets the request ID source. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) {
		if g != nil {
			e.ids = g
		}
	}
}

// WithClock sets the sequence source. Default: NewClock().
func WithClock(c Sequencer) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithPipeline replaces the clause builders. Default: clause.Default().
func WithPipeline(p *clause.Pipeline) Option {
	return func(e *Engine) {
		if p != nil {
			e.pipeline = p
		}
	}
}

// New creates an Engine over g.
func New(g *schema.Graph, opts ...Option) *Engine {
	return NewWithSnapshot(schema.NewSnapshot(g), opts...)
}

// NewWithSnapshot creates an Engine reading its schema from s. Storing a
// new graph in s has the same effect as Reload.
func NewWithSnapshot(s *schema.Snapshot, opts ...Option) *Engine {
	e := &Engine{
		snapshot:      s,
		defaultObject: intent.DefaultObject,
		maxHops:       schema.DefaultMaxHops,
		policy:        resolve.PolicySubject,
		quantity:      DefaultQuantity,
		pipeline:      clause.Default(),
		logger:        slog.Default(),
		ids:           UUIDv7Generator{},
		clock:         NewClock(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph returns the schema new requests will use.
func (e *Engine) Graph() *schema.Graph {
	return e.snapshot.Load()
}

// Reload swaps in a new schema. Requests already running keep the graph
// they started with.
func (e *Engine) Reload(g *schema.Graph) error {
	if err := e.snapshot.Store(g); err != nil {
		return err
	}
	e.logger.Info("schema reloaded",
		"objects", len(g.Objects()),
		"relationships", len(g.Edges()),
	)
	return nil
}

func (e *Engine) runtime() *runtime {
	g := e.snapshot.Load()
	if g == nil || len(g.Objects()) == 0 {
		return nil
	}
	if rt := e.current.Load(); rt != nil && rt.graph == g {
		return rt
	}
	vocab := intent.NewVocabulary(g)
	rt := &runtime{
		graph:     g,
		vocab:     vocab,
		extractor: intent.NewExtractor(vocab, intent.WithDefaultObject(e.defaultObject)),
		resolver:  resolve.New(g, resolve.WithMaxHops(e.maxHops), resolve.WithPolicy(e.policy)),
	}
	e.current.Store(rt)
	return rt
}

// Result is the outcome of one Generate call.
type Result struct {
	RequestID string
	Seq       int64

	Question   string
	Normalized string
	Query      string

	// Object is the root object of the query.
	Object string

	// Rule names the extraction rule that matched.
	Rule string

	Resolution   resolve.Kind
	Capabilities clause.Capability
	Diagnostics  []ir.Diagnostic

	// Tree is the query tree that was rendered.
	Tree *queryir.Node

	// Fingerprint identifies the (normalized question, query) pair.
	Fingerprint string
}

// Generate turns a question into SOQL. Phrasing it does not understand is
// dropped with a diagnostic; the only errors are an empty schema and a
// tree that cannot be rendered even with default fields.
func (e *Engine) Generate(question string) (Result, error) {
	res := Result{
		RequestID: e.ids.Generate(),
		Seq:       e.clock.Next(),
		Question:  question,
	}
	if err := e.build(&res); err != nil {
		return res, err
	}
	e.logger.Debug("query generated",
		"request_id", res.RequestID,
		"seq", res.Seq,
		"object", res.Object,
		"capabilities", res.Capabilities.String(),
		"diagnostics", len(res.Diagnostics),
		"query", res.Query,
	)
	return res, nil
}

// build fills in everything but the request ID and sequence.
func (e *Engine) build(res *Result) error {
	rt := e.runtime()
	if rt == nil {
		return &Error{Code: ErrCodeEmptySchema, Message: "schema has no objects", RequestID: res.RequestID}
	}
	var diags ir.Diagnostics

	in := rt.extractor.Extract(res.Question)
	res.Normalized = in.Text
	res.Rule = string(in.Rule)
	if in.Defaulted {
		diags.Add(ir.CodeUnrecognizedObject, in.Primary, "no object recognized; using %s", in.Primary)
	}
	e.logger.Debug("intent extracted",
		"request_id", res.RequestID,
		"rule", in.Rule,
		"objects", in.Objects(),
	)

	resolution := rt.resolver.Resolve(in)
	merge(&diags, resolution.Diagnostics)
	res.Resolution = resolution.Kind
	e.logger.Debug("relationships resolved",
		"request_id", res.RequestID,
		"kind", resolution.Kind,
		"root", resolution.Root.Object,
		"lookups", len(resolution.Lookups),
	)

	ctx := clause.NewContext(rt.vocab, in, resolution)
	ctx.DefaultQuantity = e.quantity
	res.Capabilities = e.pipeline.Run(ctx)
	merge(&diags, ctx.Diags.Items())

	root := ctx.Root
	for _, w := range queryir.Validate(root, rt.graph, e.maxHops).Warnings {
		diags.Add(ir.CodeStructuralWarning, root.Object, "%s", w)
	}

	query, err := querysoql.Render(root)
	if err != nil {
		diags.Add(ir.CodeStructuralWarning, root.Object, "cannot render tree, using default fields: %v", err)
		root = defaultsTree(rt.graph, root.Object)
		if query, err = querysoql.Render(root); err != nil {
			return &Error{
				Code:      ErrCodeRender,
				Message:   fmt.Sprintf("cannot render a query for %s", root.Object),
				RequestID: res.RequestID,
				Err:       err,
			}
		}
	}

	res.Query = query
	res.Object = root.Object
	res.Tree = root
	res.Diagnostics = diags.Items()
	if res.Fingerprint, err = ir.Fingerprint(res.Normalized, query); err != nil {
		e.logger.Warn("fingerprint failed", "request_id", res.RequestID, "error", err)
	}
	return nil
}

func merge(into *ir.Diagnostics, diags []ir.Diagnostic) {
	for _, d := range diags {
		into.Add(d.Code, d.Subject, "%s", d.Message)
	}
}

// defaultsTree is the simplest correct query for object.
func defaultsTree(g *schema.Graph, object string) *queryir.Node {
	root := queryir.NewRoot(object)
	if obj, err := g.LookupObject(object); err == nil {
		root.AddFields(obj.Defaults()...)
	}
	if len(root.Fields) == 0 {
		root.AddFields("Id")
	}
	return root
}

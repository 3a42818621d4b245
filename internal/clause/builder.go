package clause

import (
	"strings"

	"github.com/roach88/soqlgen/internal/intent"
	"github.com/roach88/soqlgen/internal/ir"
	"github.com/roach88/soqlgen/internal/queryir"
	"github.com/roach88/soqlgen/internal/resolve"
	"github.com/roach88/soqlgen/internal/schema"
)

// Capability is a set of clause families.
type Capability uint8

const (
	Fields Capability = 1 << iota
	Filters
	Dates
	Aggregation
	Sorting
	Modifiers
)

var capabilityNames = []struct {
	flag Capability
	name string
}{
	{Fields, "fields"},
	{Filters, "filters"},
	{Dates, "dates"},
	{Aggregation, "aggregation"},
	{Sorting, "sorting"},
	{Modifiers, "modifiers"},
}

// Has reports whether every flag in f is set.
func (c Capability) Has(f Capability) bool {
	return c&f == f
}

// Names returns the set flags in pipeline order.
func (c Capability) Names() []string {
	var out []string
	for _, cn := range capabilityNames {
		if c.Has(cn.flag) {
			out = append(out, cn.name)
		}
	}
	return out
}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	return strings.Join(c.Names(), "|")
}

// Builder adds one clause family to a tree.
type Builder interface {
	Name() string
	Capability() Capability

	// CanHandle reports whether the intent carries phrasing for this
	// builder. It must not inspect the tree.
	CanHandle(in *intent.Intent) bool

	// Apply adds clauses to ctx.Root.
	Apply(ctx *Context)
}

// Context is the per-request state shared by the builders.
type Context struct {
	Vocab      *intent.Vocabulary
	Intent     *intent.Intent
	Resolution *resolve.Resolution
	Root       *queryir.Node

	// DefaultQuantity replaces a count that does not parse as a
	// non-negative integer.
	DefaultQuantity int

	Diags ir.Diagnostics
}

// NewContext creates a context over a resolved tree.
func NewContext(v *intent.Vocabulary, in *intent.Intent, res *resolve.Resolution) *Context {
	return &Context{
		Vocab:           v,
		Intent:          in,
		Resolution:      res,
		Root:            res.Root,
		DefaultQuantity: 1,
	}
}

// Graph returns the graph the vocabulary was built from.
func (c *Context) Graph() *schema.Graph {
	return c.Vocab.Graph()
}

func (c *Context) object(name string) *schema.Object {
	obj, err := c.Graph().LookupObject(name)
	if err != nil {
		return nil
	}
	return obj
}

// quantity reads a count, substituting DefaultQuantity with a diagnostic
// when the text is numeric but malformed.
func (c *Context) quantity(q intent.Quantity, text string) (int, bool) {
	switch {
	case q.OK:
		return q.N, true
	case q.Malformed:
		c.Diags.Add(ir.CodeMalformedNumericLiteral, text,
			"%q is not a non-negative integer; using %d", text, c.DefaultQuantity)
		return c.DefaultQuantity, true
	default:
		return 0, false
	}
}

// Pipeline applies builders in a fixed order.
type Pipeline struct {
	builders []Builder
}

// NewPipeline creates a pipeline. Builders run in the order given.
func NewPipeline(builders ...Builder) *Pipeline {
	return &Pipeline{builders: builders}
}

// Default returns the standard pipeline.
func Default() *Pipeline {
	return NewPipeline(
		FieldSelection{},
		Filter{},
		DateFilter{},
		Aggregate{},
		Sort{},
		Modifier{},
	)
}

// Builders returns the builders in application order.
func (p *Pipeline) Builders() []Builder {
	out := make([]Builder, len(p.builders))
	copy(out, p.builders)
	return out
}

// Plan computes the capability set for an intent.
func (p *Pipeline) Plan(in *intent.Intent) Capability {
	var caps Capability
	for _, b := range p.builders {
		if b.CanHandle(in) {
			caps |= b.Capability()
		}
	}
	return caps
}

// Run plans and applies the builders to ctx, returning the plan.
func (p *Pipeline) Run(ctx *Context) Capability {
	caps := p.Plan(ctx.Intent)
	for _, b := range p.builders {
		if caps.Has(b.Capability()) {
			b.Apply(ctx)
		}
	}
	return caps
}

// Package resolve decides how the objects of an intent relate and lays out
// the skeleton of the query tree: which object is the root, which objects
// become nested subqueries and which are reached with dot notation.
package resolve

import (
	"fmt"
	"strings"

	"github.com/roach88/soqlgen/internal/intent"
	"github.com/roach88/soqlgen/internal/ir"
	"github.com/roach88/soqlgen/internal/queryir"
	"github.com/roach88/soqlgen/internal/schema"
)

// Kind classifies a resolution.
type Kind string

const (
	// NoRelationship: one object, or objects that could not be related.
	NoRelationship Kind = "none"

	// DirectParentToChild: the parent is the root and the child a subquery.
	DirectParentToChild Kind = "parent-to-child"

	// DirectChildToParent: the child is the root and reaches the parent with
	// dot notation.
	DirectChildToParent Kind = "child-to-parent"

	// IndirectMultiHop: the objects are joined through intermediate
	// objects, one nesting level per edge.
	IndirectMultiHop Kind = "multi-hop"

	// BidirectionalConversion: child-to-parent wording rewritten into the
	// equivalent parent-to-child nesting.
	BidirectionalConversion Kind = "bidirectional"
)

// Policy breaks the tie between nesting and dot notation when two objects
// share a direct edge.
type Policy string

const (
	// PolicySubject nests when the graph parent is named first and uses dot
	// notation otherwise.
	PolicySubject Policy = "subject"

	// PolicyNest always nests under the graph parent.
	PolicyNest Policy = "nest"

	// PolicyDot always roots at the graph child and uses dot notation.
	PolicyDot Policy = "dot"
)

// ParsePolicy validates a policy name.
func ParsePolicy(name string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(name))); p {
	case PolicySubject, PolicyNest, PolicyDot:
		return p, nil
	case "":
		return PolicySubject, nil
	default:
		return "", fmt.Errorf("unknown conversion policy %q (want subject, nest or dot)", name)
	}
}

// Lookup is a parent object reached from a tree node with dot notation.
type Lookup struct {
	Object string // parent object
	Prefix string // dot-notation prefix ("Account")
	Node   *queryir.Node
	Edge   schema.Edge
}

// Resolution is the outcome of resolving one intent. It is never nil and
// always carries a usable root.
type Resolution struct {
	Kind    Kind
	Root    *queryir.Node
	Lookups []Lookup

	// Edges lists the relationships used for nesting, in the order they
	// were attached.
	Edges []schema.Edge

	Diagnostics []ir.Diagnostic
}

// LookupFor returns the lookup reaching object, if any.
func (r *Resolution) LookupFor(object string) (Lookup, bool) {
	for _, l := range r.Lookups {
		if strings.EqualFold(l.Object, object) {
			return l, true
		}
	}
	return Lookup{}, false
}

// Resolver resolves intents against one graph.
type Resolver struct {
	graph   *schema.Graph
	maxHops int
	policy  Policy
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxHops bounds multi-hop paths and nesting depth.
func WithMaxHops(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxHops = n
		}
	}
}

// WithPolicy sets the conversion policy.
func WithPolicy(p Policy) Option {
	return func(r *Resolver) {
		if p != "" {
			r.policy = p
		}
	}
}

// New creates a resolver.
func New(g *schema.Graph, opts ...Option) *Resolver {
	r := &Resolver{graph: g, maxHops: schema.DefaultMaxHops, policy: PolicySubject}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxHops returns the configured hop bound.
func (r *Resolver) MaxHops() int {
	return r.maxHops
}

// Resolve lays out the tree skeleton for an intent. The first related
// object decides the root; further related objects attach to the tree that
// results. Objects that cannot be attached are dropped with a diagnostic.
func (r *Resolver) Resolve(in *intent.Intent) *Resolution {
	res := &Resolution{Kind: NoRelationship, Root: queryir.NewRoot(in.Primary)}
	var diags ir.Diagnostics

	for i, related := range in.Related {
		if res.Root.Find(related) != nil {
			continue
		}
		if _, ok := res.LookupFor(related); ok {
			continue
		}
		if i == 0 {
			r.resolveFirst(res, in, related, &diags)
			continue
		}
		r.attach(res, related, &diags)
	}

	res.Diagnostics = diags.Items()
	return res
}

// resolveFirst relates the primary object to the first related object and
// picks the root.
func (r *Resolver) resolveFirst(res *Resolution, in *intent.Intent, related string, diags *ir.Diagnostics) {
	primary := in.Primary

	if edge, ok := r.graph.DirectEdge(primary, related); ok {
		// The primary is the graph parent and was named first.
		if r.policy == PolicyDot {
			r.rootAtChild(res, related, edge, DirectChildToParent)
			return
		}
		kind := DirectParentToChild
		if in.Hint == intent.ChildToParent {
			kind = BidirectionalConversion
		}
		r.nest(res, res.Root, edge)
		res.Kind = kind
		return
	}

	if edge, ok := r.graph.DirectEdge(related, primary); ok {
		// The primary is the graph child; its parent was named second.
		if r.policy == PolicyNest {
			res.Root = queryir.NewRoot(related)
			r.nest(res, res.Root, edge)
			res.Kind = BidirectionalConversion
			return
		}
		res.Lookups = append(res.Lookups, Lookup{Object: related, Prefix: edge.ParentName(), Node: res.Root, Edge: edge})
		res.Kind = DirectChildToParent
		return
	}

	// No direct edge: search both directions, owner first when the wording
	// names the owner.
	from, to := primary, related
	if in.Hint == intent.ChildToParent {
		from, to = related, primary
	}
	path, err := r.graph.FindPath(from, to, r.maxHops)
	if err != nil {
		var errRev error
		path, errRev = r.graph.FindPath(to, from, r.maxHops)
		if errRev != nil {
			r.fail(primary, related, err, errRev, diags)
			return
		}
		from = to
	}
	res.Root = queryir.NewRoot(from)
	r.attachPath(res, res.Root, path)
	res.Kind = IndirectMultiHop
}

// rootAtChild makes the child of edge the root and reaches the parent (the
// former root) through dot notation.
func (r *Resolver) rootAtChild(res *Resolution, child string, edge schema.Edge, kind Kind) {
	res.Root = queryir.NewRoot(child)
	res.Lookups = append(res.Lookups, Lookup{Object: edge.Parent, Prefix: edge.ParentName(), Node: res.Root, Edge: edge})
	res.Kind = kind
}

// attach adds a further related object to an existing tree: as a subquery
// of any node that is its direct parent, as a lookup of the root, or along
// the shortest path from the root.
func (r *Resolver) attach(res *Resolution, related string, diags *ir.Diagnostics) {
	var attached bool
	res.Root.Walk(func(n *queryir.Node, depth int) bool {
		if attached || depth+1 > r.maxHops {
			return false
		}
		if edge, ok := r.graph.DirectEdge(n.Object, related); ok {
			r.nest(res, n, edge)
			attached = true
			return false
		}
		return true
	})
	if attached {
		return
	}

	if edge, ok := r.graph.DirectEdge(related, res.Root.Object); ok {
		res.Lookups = append(res.Lookups, Lookup{Object: related, Prefix: edge.ParentName(), Node: res.Root, Edge: edge})
		return
	}

	path, err := r.graph.FindPath(res.Root.Object, related, r.maxHops)
	if err != nil {
		r.fail(res.Root.Object, related, err, nil, diags)
		return
	}
	r.attachPath(res, res.Root, path)
	if res.Kind == NoRelationship {
		res.Kind = IndirectMultiHop
	}
}

// nest adds one subquery for edge under n.
func (r *Resolver) nest(res *Resolution, n *queryir.Node, edge schema.Edge) *queryir.Node {
	if existing := n.Child(edge.Name); existing != nil {
		return existing
	}
	res.Edges = append(res.Edges, edge)
	return n.AddChild(edge.Child, edge.Name)
}

// attachPath nests each edge of path below n, reusing subqueries already in
// the tree.
func (r *Resolver) attachPath(res *Resolution, n *queryir.Node, path []schema.Edge) {
	for _, edge := range path {
		n = r.nest(res, n, edge)
	}
}

func (r *Resolver) fail(from, to string, err, errRev error, diags *ir.Diagnostics) {
	if schema.IsPathTooDeep(err) || schema.IsPathTooDeep(errRev) {
		diags.Add(ir.CodeCyclicOrOverdeep, to,
			"%s and %s are only connected by a path longer than %d hops; querying %s alone", from, to, r.maxHops, from)
		return
	}
	diags.Add(ir.CodeRelationshipNotFound, to, "no relationship between %s and %s; querying %s alone", from, to, from)
}

package schema

import (
	"fmt"
	"strings"
)

// Graph is an immutable set of objects and relationship edges.
// All methods are safe for concurrent use.
type Graph struct {
	objects map[string]*Object // lower-case name -> object
	order   []string           // registration order (canonical names)
	edges   []Edge             // registration order
	from    map[string][]int   // lower-case parent -> edge indexes
	to      map[string][]int   // lower-case child -> edge indexes
	plurals *Pluralizer
}

// LookupObject returns the named object, matching case-insensitively.
func (g *Graph) LookupObject(name string) (*Object, error) {
	if obj, ok := g.objects[strings.ToLower(name)]; ok {
		return obj, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, name)
}

// HasObject reports whether the graph declares the named object.
func (g *Graph) HasObject(name string) bool {
	_, ok := g.objects[strings.ToLower(name)]
	return ok
}

// Objects returns every object in registration order.
func (g *Graph) Objects() []*Object {
	out := make([]*Object, len(g.order))
	for i, name := range g.order {
		out[i] = g.objects[strings.ToLower(name)]
	}
	return out
}

// Edges returns every edge in registration order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// RelationshipsFrom returns the edges whose parent is object, in
// registration order.
func (g *Graph) RelationshipsFrom(object string) []Edge {
	return g.collect(g.from[strings.ToLower(object)])
}

// RelationshipsTo returns the edges whose child is object (its lookups),
// in registration order.
func (g *Graph) RelationshipsTo(object string) []Edge {
	return g.collect(g.to[strings.ToLower(object)])
}

func (g *Graph) collect(idx []int) []Edge {
	out := make([]Edge, len(idx))
	for i, n := range idx {
		out[i] = g.edges[n]
	}
	return out
}

// DirectEdge returns the first registered edge from parent to child.
func (g *Graph) DirectEdge(parent, child string) (Edge, bool) {
	for _, n := range g.from[strings.ToLower(parent)] {
		if strings.EqualFold(g.edges[n].Child, child) {
			return g.edges[n], true
		}
	}
	return Edge{}, false
}

// ChildRelationship returns the edge from parent with the given
// relationship name.
func (g *Graph) ChildRelationship(parent, name string) (Edge, bool) {
	for _, n := range g.from[strings.ToLower(parent)] {
		if strings.EqualFold(g.edges[n].Name, name) {
			return g.edges[n], true
		}
	}
	return Edge{}, false
}

// Plural returns the plural form of a name using the graph's table.
func (g *Graph) Plural(name string) string {
	return g.plurals.Plural(name)
}

// Describe returns a canonical description of the graph suitable for
// hashing (see ir.SchemaDigest).
func (g *Graph) Describe() map[string]any {
	objects := make([]any, 0, len(g.order))
	for _, obj := range g.Objects() {
		fields := make([]any, 0, len(obj.Fields))
		for _, f := range obj.Fields {
			fields = append(fields, map[string]any{
				"name":       f.Name,
				"type":       string(f.Type),
				"references": f.ReferenceTo,
			})
		}
		objects = append(objects, map[string]any{
			"name":     obj.Name,
			"fields":   fields,
			"defaults": obj.Defaults(),
		})
	}
	edges := make([]any, 0, len(g.edges))
	for _, e := range g.edges {
		edges = append(edges, map[string]any{
			"parent": e.Parent,
			"child":  e.Child,
			"name":   e.Name,
			"field":  e.ForeignKey,
		})
	}
	return map[string]any{"objects": objects, "relationships": edges}
}

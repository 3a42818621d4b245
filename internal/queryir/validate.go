package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/soqlgen/internal/schema"
)

// ValidationResult lists structural problems found in a tree.
type ValidationResult struct {
	// Valid is true when no warnings were raised.
	Valid bool

	// Warnings describes each problem, in traversal order.
	Warnings []string
}

// Validate checks a finished tree against the graph it was built from:
//  1. The root has no relationship and names a known object
//  2. Nesting depth does not exceed maxDepth
//  3. Every node selects at least one field or aggregate, without duplicates
//  4. Plain fields exist on the node's object; dotted fields start with one
//     of the object's lookup relationships
//  5. Every child's relationship is an edge from the enclosing object
//  6. Predicates never prefix the node's own object or the enclosing parent
//  7. Modifiers, grouping and aggregates appear on the root only
//
// The composer does no checking of its own; Validate is the upstream guard.
// Validate is a pure function with no side effects.
func Validate(root *Node, g *schema.Graph, maxDepth int) ValidationResult {
	v := &validator{graph: g, warnings: []string{}}
	if root == nil {
		v.addWarning("nil root")
		return v.result()
	}
	if root.Relationship != "" {
		v.addWarning("root %s carries relationship %s", root.Object, root.Relationship)
	}
	if maxDepth > 0 && root.Depth() > maxDepth {
		v.addWarning("nesting depth %d exceeds limit %d", root.Depth(), maxDepth)
	}
	v.validateNode(root, nil, schema.Edge{})
	return v.result()
}

type validator struct {
	graph    *schema.Graph
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) result() ValidationResult {
	return ValidationResult{Valid: len(v.warnings) == 0, Warnings: v.warnings}
}

func (v *validator) validateNode(n, parent *Node, via schema.Edge) {
	obj, err := v.graph.LookupObject(n.Object)
	if err != nil {
		v.addWarning("unknown object %s", n.Object)
		return
	}

	if len(n.Fields) == 0 && len(n.Aggregates) == 0 {
		v.addWarning("%s selects no fields", n.Object)
	}
	seen := make(map[string]bool, len(n.Fields))
	for _, f := range n.Fields {
		key := strings.ToLower(f)
		if seen[key] {
			v.addWarning("%s selects %s twice", n.Object, f)
		}
		seen[key] = true
		v.validateFieldRef(obj, f, "selects")
	}

	if n.Filter != nil {
		for _, f := range PredicateFields(n.Filter) {
			v.validatePredicateField(obj, f, parent, via)
		}
	}

	if parent != nil {
		if len(n.Modifiers) > 0 {
			v.addWarning("nested %s carries modifiers", n.Relationship)
		}
		if n.GroupBy != nil || len(n.Aggregates) > 0 {
			v.addWarning("nested %s carries aggregation", n.Relationship)
		}
	}
	if n.GroupBy != nil {
		for _, f := range n.GroupBy.Fields {
			if !seen[strings.ToLower(f)] {
				v.addWarning("%s groups by %s which is not selected", n.Object, f)
			}
		}
	}

	for _, child := range n.Children {
		edge, ok := v.graph.ChildRelationship(n.Object, child.Relationship)
		if !ok {
			v.addWarning("%s has no child relationship %s", n.Object, child.Relationship)
			continue
		}
		if !strings.EqualFold(edge.Child, child.Object) {
			v.addWarning("relationship %s leads to %s, not %s", child.Relationship, edge.Child, child.Object)
			continue
		}
		v.validateNode(child, n, edge)
	}
}

// validateFieldRef checks a plain, dotted or function field.
func (v *validator) validateFieldRef(obj *schema.Object, field, verb string) {
	if strings.Contains(field, "(") {
		return // function expression, e.g. CALENDAR_YEAR(CreatedDate)
	}
	prefix, rest, dotted := strings.Cut(field, ".")
	if !dotted {
		if !obj.HasField(field) {
			v.addWarning("%s %s unknown field %s", obj.Name, verb, field)
		}
		return
	}
	for _, e := range v.graph.RelationshipsTo(obj.Name) {
		if strings.EqualFold(e.ParentName(), prefix) {
			parent, err := v.graph.LookupObject(e.Parent)
			if err == nil && !strings.Contains(rest, ".") && !parent.HasField(rest) {
				v.addWarning("%s %s unknown field %s", obj.Name, verb, field)
			}
			return
		}
	}
	v.addWarning("%s %s %s but has no lookup %s", obj.Name, verb, field, prefix)
}

func (v *validator) validatePredicateField(obj *schema.Object, field string, parent *Node, via schema.Edge) {
	prefix, _, dotted := strings.Cut(field, ".")
	if dotted && strings.EqualFold(prefix, obj.Name) && !v.isLookup(obj.Name, prefix) {
		v.addWarning("%s filter uses self-prefixed %s", obj.Name, field)
		return
	}
	if dotted && parent != nil && strings.EqualFold(prefix, via.ParentName()) {
		v.addWarning("nested %s filters on enclosing %s via %s", obj.Name, parent.Object, field)
		return
	}
	v.validateFieldRef(obj, field, "filters on")
}

func (v *validator) isLookup(object, name string) bool {
	for _, e := range v.graph.RelationshipsTo(object) {
		if strings.EqualFold(e.ParentName(), name) {
			return true
		}
	}
	return false
}

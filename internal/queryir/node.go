package queryir

import "strings"

// AddFields appends fields not already selected (case-insensitive).
// It returns the fields that were added.
func (n *Node) AddFields(fields ...string) []string {
	var added []string
	for _, f := range fields {
		if f == "" || n.HasField(f) {
			continue
		}
		n.Fields = append(n.Fields, f)
		added = append(added, f)
	}
	return added
}

// HasField reports whether the node already selects field.
func (n *Node) HasField(field string) bool {
	for _, existing := range n.Fields {
		if strings.EqualFold(existing, field) {
			return true
		}
	}
	return false
}

// AddChild appends a nested subquery.
func (n *Node) AddChild(object, relationship string) *Node {
	child := &Node{Object: object, Relationship: relationship}
	n.Children = append(n.Children, child)
	return child
}

// Child returns the nested subquery reached through relationship.
func (n *Node) Child(relationship string) *Node {
	for _, c := range n.Children {
		if strings.EqualFold(c.Relationship, relationship) {
			return c
		}
	}
	return nil
}

// AddFilter ANDs p into the node's filter.
func (n *Node) AddFilter(p Predicate) {
	n.Filter = Conjoin(n.Filter, p)
}

// AddModifier appends m unless present.
func (n *Node) AddModifier(m Modifier) {
	for _, existing := range n.Modifiers {
		if existing == m {
			return
		}
	}
	n.Modifiers = append(n.Modifiers, m)
}

// Walk visits the tree depth-first in child order. depth is 0 for n.
// Returning false from fn skips that node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Depth returns the number of nesting levels below n.
func (n *Node) Depth() int {
	deepest := 0
	n.Walk(func(_ *Node, depth int) bool {
		deepest = max(deepest, depth)
		return true
	})
	return deepest
}

// Find returns the first node (depth-first) whose object is object.
func (n *Node) Find(object string) *Node {
	var found *Node
	n.Walk(func(node *Node, _ int) bool {
		if found == nil && strings.EqualFold(node.Object, object) {
			found = node
		}
		return found == nil
	})
	return found
}

// Nodes returns every node depth-first.
func (n *Node) Nodes() []*Node {
	var out []*Node
	n.Walk(func(node *Node, _ int) bool {
		out = append(out, node)
		return true
	})
	return out
}

// Conjoin ANDs two predicates, flattening nested Ands. Either may be nil.
func Conjoin(a, b Predicate) Predicate {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	var preds []Predicate
	for _, p := range []Predicate{a, b} {
		if and, ok := p.(*And); ok {
			preds = append(preds, and.Predicates...)
		} else {
			preds = append(preds, p)
		}
	}
	return &And{Predicates: preds}
}

// PredicateFields returns every field a predicate references, in order.
func PredicateFields(p Predicate) []string {
	var out []string
	var visit func(Predicate)
	visit = func(p Predicate) {
		switch pred := p.(type) {
		case *Comparison:
			out = append(out, pred.Field)
		case *In:
			out = append(out, pred.Field)
		case *And:
			for _, c := range pred.Predicates {
				visit(c)
			}
		case *Or:
			for _, c := range pred.Predicates {
				visit(c)
			}
		case *Not:
			visit(pred.Predicate)
		}
	}
	visit(p)
	return out
}

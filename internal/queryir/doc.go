// Package queryir provides the query tree built for one question.
//
// A tree has one root Node and zero or more nested child Nodes, each child
// being a parent-to-child subquery reached through a named relationship.
// The tree is built by clause builders and rendered by querysoql; it is
// request-scoped and never shared.
//
// SEALED INTERFACES:
//
// Predicate is a sealed interface using the marker method pattern. Only
// types in this package implement it, so renderers can switch over every
// case:
//
//	switch p := pred.(type) {
//	case *Comparison:
//	case *In:
//	case *And:
//	case *Or:
//	case *Not:
//	}
//
// NODE-LOCAL PREDICATES:
//
// A node's filter is expressed in terms of the node's own object. Fields of
// a lookup parent use dot notation ("Account.Industry"); fields of an
// object that is itself a node in the tree belong to that node, bare.
// Validate reports trees that break this rule.
package queryir

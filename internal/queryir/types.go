package queryir

import (
	"strings"

	"github.com/roach88/soqlgen/internal/ir"
)

// Predicate represents a filter condition.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Operator is a comparison operator.
type Operator string

const (
	OpEq   Operator = "="
	OpNe   Operator = "!="
	OpLt   Operator = "<"
	OpLe   Operator = "<="
	OpGt   Operator = ">"
	OpGe   Operator = ">="
	OpLike Operator = "LIKE"
)

// Comparison is field <op> value.
type Comparison struct {
	Field string
	Op    Operator
	Value ir.Value
}

func (Comparison) predicateNode() {}

// In is field IN (values), or NOT IN when Negated.
type In struct {
	Field   string
	Values  []ir.Value
	Negated bool
}

func (In) predicateNode() {}

// And requires every predicate.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Or requires at least one predicate.
type Or struct {
	Predicates []Predicate
}

func (Or) predicateNode() {}

// Not negates a predicate.
type Not struct {
	Predicate Predicate
}

func (Not) predicateNode() {}

// AggregateFunc is an aggregate function name.
type AggregateFunc string

const (
	FuncCount         AggregateFunc = "COUNT"
	FuncCountDistinct AggregateFunc = "COUNT_DISTINCT"
	FuncSum           AggregateFunc = "SUM"
	FuncAvg           AggregateFunc = "AVG"
	FuncMin           AggregateFunc = "MIN"
	FuncMax           AggregateFunc = "MAX"
)

// Aggregate is an aggregate expression in the SELECT list. An empty Field
// with FuncCount renders as COUNT().
type Aggregate struct {
	Func  AggregateFunc
	Field string
}

// Expr returns the expression text, e.g. "SUM(Amount)".
func (a Aggregate) Expr() string {
	return string(a.Func) + "(" + a.Field + ")"
}

// GroupingMode selects plain grouping or a grouping-set modifier.
type GroupingMode string

const (
	GroupPlain  GroupingMode = ""
	GroupRollup GroupingMode = "ROLLUP"
	GroupCube   GroupingMode = "CUBE"
)

// Grouping is a GROUP BY clause. Fields may be date function expressions
// such as CALENDAR_YEAR(CreatedDate).
type Grouping struct {
	Mode   GroupingMode
	Fields []string
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// NullsOrder places null values in an ordering.
type NullsOrder string

const (
	NullsDefault NullsOrder = ""
	NullsFirst   NullsOrder = "NULLS FIRST"
	NullsLast    NullsOrder = "NULLS LAST"
)

// Ordering is one ORDER BY term.
type Ordering struct {
	Field     string
	Direction Direction
	Nulls     NullsOrder
}

// Modifier is an outermost-only query annotation.
type Modifier string

const (
	ModSecurityEnforced Modifier = "WITH SECURITY_ENFORCED"
	ModUserMode         Modifier = "WITH USER_MODE"
	ModSystemMode       Modifier = "WITH SYSTEM_MODE"
	ModAllRows          Modifier = "ALL ROWS"
	ModForView          Modifier = "FOR VIEW"
	ModForReference     Modifier = "FOR REFERENCE"
	ModForUpdate        Modifier = "FOR UPDATE"
)

// Leading reports whether the modifier renders after WHERE rather than at
// the end of the query.
func (m Modifier) Leading() bool {
	return strings.HasPrefix(string(m), "WITH ")
}

// Locking reports whether the modifier is one of the mutually exclusive
// FOR VIEW / FOR REFERENCE / FOR UPDATE clauses.
func (m Modifier) Locking() bool {
	return m == ModForView || m == ModForReference || m == ModForUpdate
}

// Node is one SELECT in the tree.
type Node struct {
	Object       string // object API name
	Relationship string // child relationship name; empty on the root

	Fields     []string // plain and dot-notation fields, in selection order
	Aggregates []Aggregate
	Children   []*Node // nested subqueries in mention order

	Filter  Predicate
	GroupBy *Grouping
	Having  Predicate
	OrderBy []Ordering
	Limit   int // 0 means no LIMIT
	Offset  int // 0 means no OFFSET

	Modifiers []Modifier
}

// NewRoot creates a root node for object.
func NewRoot(object string) *Node {
	return &Node{Object: object}
}

// Package querysoql renders query trees to SOQL text.
package querysoql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/soqlgen/internal/ir"
	"github.com/roach88/soqlgen/internal/queryir"
)

// Composer renders a query tree to canonical single-line SOQL:
//
//	SELECT <fields>, <aggregates>, (<subqueries>) FROM <object>
//	[WHERE p] [WITH ...] [GROUP BY g] [HAVING h] [ORDER BY o]
//	[LIMIT n] [OFFSET n] [ALL ROWS] [FOR VIEW|REFERENCE|UPDATE]
//
// Rendering is structural: it does not consult the schema. The same tree
// always renders to the same text; no map iteration is involved.
type Composer struct{}

// NewComposer creates a Composer.
func NewComposer() *Composer {
	return &Composer{}
}

// Render is shorthand for NewComposer().Render(root).
func Render(root *queryir.Node) (string, error) {
	return NewComposer().Render(root)
}

// Render converts a tree to SOQL text.
func (c *Composer) Render(root *queryir.Node) (string, error) {
	if root == nil {
		return "", fmt.Errorf("cannot render nil query")
	}
	return c.renderNode(root, root.Object)
}

func (c *Composer) renderNode(n *queryir.Node, from string) (string, error) {
	items := make([]string, 0, len(n.Fields)+len(n.Aggregates)+len(n.Children))
	items = append(items, n.Fields...)
	for _, a := range n.Aggregates {
		items = append(items, a.Expr())
	}
	for _, child := range n.Children {
		sub, err := c.renderNode(child, child.Relationship)
		if err != nil {
			return "", fmt.Errorf("subquery %s: %w", child.Relationship, err)
		}
		items = append(items, "("+sub+")")
	}
	if len(items) == 0 {
		return "", fmt.Errorf("%s selects nothing", n.Object)
	}
	if from == "" {
		return "", fmt.Errorf("%s has no FROM source", n.Object)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(items, ", "))
	b.WriteString(" FROM ")
	b.WriteString(from)

	if n.Filter != nil {
		where, err := c.RenderPredicate(n.Filter)
		if err != nil {
			return "", err
		}
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}

	for _, m := range n.Modifiers {
		if m.Leading() {
			b.WriteString(" ")
			b.WriteString(string(m))
		}
	}

	if n.GroupBy != nil && len(n.GroupBy.Fields) > 0 {
		b.WriteString(" GROUP BY ")
		fields := strings.Join(n.GroupBy.Fields, ", ")
		if n.GroupBy.Mode != queryir.GroupPlain {
			fields = string(n.GroupBy.Mode) + "(" + fields + ")"
		}
		b.WriteString(fields)
	}

	if n.Having != nil {
		having, err := c.RenderPredicate(n.Having)
		if err != nil {
			return "", err
		}
		b.WriteString(" HAVING ")
		b.WriteString(having)
	}

	if len(n.OrderBy) > 0 {
		terms := make([]string, len(n.OrderBy))
		for i, o := range n.OrderBy {
			terms[i] = renderOrdering(o)
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(terms, ", "))
	}

	if n.Limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(n.Limit))
	}
	if n.Offset > 0 {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.Itoa(n.Offset))
	}

	for _, m := range n.Modifiers {
		if !m.Leading() {
			b.WriteString(" ")
			b.WriteString(string(m))
		}
	}
	return b.String(), nil
}

func renderOrdering(o queryir.Ordering) string {
	dir := o.Direction
	if dir == "" {
		dir = queryir.Asc
	}
	term := o.Field + " " + string(dir)
	if o.Nulls != queryir.NullsDefault {
		term += " " + string(o.Nulls)
	}
	return term
}

// RenderPredicate renders a predicate without surrounding parentheses.
func (c *Composer) RenderPredicate(p queryir.Predicate) (string, error) {
	if p == nil {
		return "", fmt.Errorf("cannot render nil predicate")
	}

	switch pred := p.(type) {
	case queryir.Comparison:
		return c.renderComparison(pred)
	case *queryir.Comparison:
		return c.renderComparison(*pred)
	case queryir.In:
		return c.renderIn(pred)
	case *queryir.In:
		return c.renderIn(*pred)
	case queryir.And:
		return c.renderJunction(pred.Predicates, " AND ")
	case *queryir.And:
		return c.renderJunction(pred.Predicates, " AND ")
	case queryir.Or:
		return c.renderJunction(pred.Predicates, " OR ")
	case *queryir.Or:
		return c.renderJunction(pred.Predicates, " OR ")
	case queryir.Not:
		return c.renderNot(pred)
	case *queryir.Not:
		return c.renderNot(*pred)
	default:
		return "", fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *Composer) renderComparison(p queryir.Comparison) (string, error) {
	if p.Field == "" {
		return "", fmt.Errorf("comparison has no field")
	}
	lit, err := Literal(p.Value)
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.Field, err)
	}
	return p.Field + " " + string(p.Op) + " " + lit, nil
}

func (c *Composer) renderIn(p queryir.In) (string, error) {
	if len(p.Values) == 0 {
		return "", fmt.Errorf("%s: IN requires at least one value", p.Field)
	}
	lits := make([]string, len(p.Values))
	for i, v := range p.Values {
		lit, err := Literal(v)
		if err != nil {
			return "", fmt.Errorf("%s: %w", p.Field, err)
		}
		lits[i] = lit
	}
	op := " IN ("
	if p.Negated {
		op = " NOT IN ("
	}
	return p.Field + op + strings.Join(lits, ", ") + ")", nil
}

// renderJunction joins predicates, parenthesizing nested junctions so that
// mixed AND/OR renders unambiguously.
func (c *Composer) renderJunction(preds []queryir.Predicate, sep string) (string, error) {
	if len(preds) == 0 {
		return "", fmt.Errorf("empty%s", strings.ToLower(sep))
	}
	parts := make([]string, len(preds))
	for i, p := range preds {
		s, err := c.RenderPredicate(p)
		if err != nil {
			return "", err
		}
		if len(preds) > 1 && isJunction(p) {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, sep), nil
}

func (c *Composer) renderNot(p queryir.Not) (string, error) {
	inner, err := c.RenderPredicate(p.Predicate)
	if err != nil {
		return "", err
	}
	return "NOT (" + inner + ")", nil
}

func isJunction(p queryir.Predicate) bool {
	switch pred := p.(type) {
	case queryir.And, queryir.Or:
		return true
	case *queryir.And:
		return len(pred.Predicates) > 1
	case *queryir.Or:
		return len(pred.Predicates) > 1
	}
	return false
}

// Literal renders a value as a SOQL literal.
func Literal(v ir.Value) (string, error) {
	switch val := v.(type) {
	case ir.String:
		return quote(string(val)), nil
	case ir.Int:
		return strconv.FormatInt(int64(val), 10), nil
	case ir.Decimal:
		return val.D.String(), nil
	case ir.Bool:
		if val {
			return "TRUE", nil
		}
		return "FALSE", nil
	case ir.Null:
		return "null", nil
	case ir.Date:
		return string(val), nil
	case ir.DateLiteral:
		return val.Token(), nil
	case ir.Bind:
		return ":" + string(val), nil
	case nil:
		return "", fmt.Errorf("missing value")
	default:
		return "", fmt.Errorf("unsupported value type: %T", v)
	}
}

// quote renders a single-quoted string literal, escaping quotes,
// backslashes and control characters.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

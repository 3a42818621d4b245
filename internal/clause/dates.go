package clause

import (
	"strings"

	"github.com/roach88/soqlgen/internal/intent"
	"github.com/roach88/soqlgen/internal/ir"
	"github.com/roach88/soqlgen/internal/queryir"
	"github.com/roach88/soqlgen/internal/schema"
)

// dateVerbs name the date field a verb refers to. Candidates are tried in
// order against the object.
var dateVerbs = map[string][]string{
	"created":   {"CreatedDate"},
	"added":     {"CreatedDate"},
	"opened":    {"CreatedDate"},
	"modified":  {"LastModifiedDate"},
	"updated":   {"LastModifiedDate"},
	"changed":   {"LastModifiedDate"},
	"edited":    {"LastModifiedDate"},
	"closed":    {"CloseDate", "ClosedDate"},
	"closing":   {"CloseDate", "ClosedDate"},
	"close":     {"CloseDate", "ClosedDate"},
	"closes":    {"CloseDate", "ClosedDate"},
	"converted": {"ConvertedDate"},
	"login":     {"LastLoginDate"},
	"logged":    {"LastLoginDate"},
	"due":       {"ActivityDate"},
	"born":      {"Birthdate"},
	"birthday":  {"Birthdate"},
	"expiring":  {"ExpirationDate"},
	"expires":   {"ExpirationDate"},
	"expire":    {"ExpirationDate"},
	"effective": {"EffectiveDate"},
}

// dateFiller may sit between a verb or field and its date phrase
// ("created in the last week", "close date is today").
var dateFiller = map[string]bool{
	"is": true, "was": true, "were": true, "are": true, "be": true, "been": true,
	"on": true, "in": true, "during": true, "within": true, "for": true,
	"of": true, "the": true, "=": true, "at": true, "from": true,
}

var dateComparators = map[string]queryir.Operator{
	"":             queryir.OpEq,
	"before":       queryir.OpLt,
	"after":        queryir.OpGt,
	"on or after":  queryir.OpGe,
	"on or before": queryir.OpLe,
}

var unitTokens = map[intent.DateUnit]string{
	intent.Day:     "DAY",
	intent.Week:    "WEEK",
	intent.Month:   "MONTH",
	intent.Quarter: "QUARTER",
	intent.Year:    "YEAR",
}

// DateFilter turns date phrases into comparisons against date literals.
type DateFilter struct{}

func (DateFilter) Name() string           { return "dates" }
func (DateFilter) Capability() Capability { return Dates }

func (DateFilter) CanHandle(in *intent.Intent) bool {
	return len(in.Dates) > 0
}

func (DateFilter) Apply(c *Context) {
	for _, d := range c.Intent.Dates {
		value, ok := c.dateValue(d)
		if !ok {
			continue
		}
		t, ok := c.dateField(d)
		if !ok {
			continue
		}
		if constrains(t.Node, t.Field) {
			continue
		}
		t.Node.AddFilter(&queryir.Comparison{Field: t.Field, Op: dateComparators[d.Comparator], Value: value})
	}
}

// dateField picks the field a date phrase constrains: a verb or field named
// before it, else CreatedDate, else the first date field.
func (c *Context) dateField(d intent.DatePhrase) (Target, bool) {
	in := c.Intent
	anchor := in.TokenAt(d.Anchor)
	near := c.nearObject(anchor)

	j := anchor - 1
	for j >= 0 && dateFiller[in.Word(j)] {
		j--
	}
	if j >= 0 {
		if fm, ok := in.FieldMentionEndingAt(j + 1); ok {
			if t, ok := c.ResolveMention(fm, near); ok && t.Type == schema.TypeDate {
				return t, true
			}
		}
		if names, ok := dateVerbs[in.Word(j)]; ok {
			if t, ok := c.ResolveName(near, names...); ok {
				return t, true
			}
		}
	}

	if t, ok := c.ResolveName(near, "CreatedDate"); ok {
		return t, true
	}
	for _, object := range []string{near, c.Root.Object} {
		p, ok := c.placeFor(object)
		if !ok {
			continue
		}
		if obj := c.object(p.object); obj != nil {
			if dates := obj.FieldsOfType(schema.TypeDate); len(dates) > 0 {
				return p.target(dates[0]), true
			}
		}
	}
	return Target{}, false
}

// dateValue converts a date phrase to a literal.
func (c *Context) dateValue(d intent.DatePhrase) (ir.Value, bool) {
	switch {
	case d.Date != "":
		return ir.Date(d.Date), true
	case d.Day != "":
		return ir.DateLiteral{Name: strings.ToUpper(d.Day)}, true
	}

	unit := unitTokens[d.Unit]
	if unit == "" {
		return nil, false
	}
	if d.Fiscal {
		unit = "FISCAL_" + unit
	}

	if !d.Counted {
		return ir.DateLiteral{Name: strings.ToUpper(d.Relative) + "_" + unit}, true
	}

	n, _ := c.quantity(d.Count, d.Text)
	switch d.Relative {
	case "ago":
		return ir.DateLiteral{Name: "N_" + unit + "S_AGO", N: n, Parameterized: true}, true
	case "last", "next":
		return ir.DateLiteral{Name: strings.ToUpper(d.Relative) + "_N_" + unit + "S", N: n, Parameterized: true}, true
	}
	return nil, false
}

// constrains reports whether n already filters on field.
func constrains(n *queryir.Node, field string) bool {
	for _, f := range queryir.PredicateFields(n.Filter) {
		if strings.EqualFold(f, field) {
			return true
		}
	}
	return false
}

package clause

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jzelinskie/stringz"

	"github.com/roach88/soqlgen/internal/intent"
	"github.com/roach88/soqlgen/internal/ir"
	"github.com/roach88/soqlgen/internal/queryir"
	"github.com/roach88/soqlgen/internal/schema"
)

var aggregateWords = map[string]queryir.AggregateFunc{
	"sum": queryir.FuncSum, "summed": queryir.FuncSum, "total": queryir.FuncSum, "totals": queryir.FuncSum,
	"average": queryir.FuncAvg, "avg": queryir.FuncAvg, "mean": queryir.FuncAvg,
	"min": queryir.FuncMin, "minimum": queryir.FuncMin,
	"max": queryir.FuncMax, "maximum": queryir.FuncMax,
}

// countPhrases introduce a count; the value is the phrase length.
var countPhrases = [][]string{
	{"total", "number", "of"}, {"number", "of"}, {"how", "many"}, {"count", "of"}, {"count"}, {"counts"},
}

// metricWords before an aggregate word make it a sort metric ("by total
// revenue", "highest average amount").
var metricWords = map[string]bool{
	"by": true, "highest": true, "lowest": true, "largest": true, "smallest": true, "biggest": true,
}

var distinctWords = map[string]bool{"distinct": true, "unique": true, "different": true}

var argFiller = map[string]bool{"of": true, "the": true, "all": true, "their": true, "its": true}

var groupingPhrases = [][]string{
	{"broken", "down", "by"}, {"broken", "out", "by"}, {"grouped", "by"}, {"group", "by"},
	{"split", "by"}, {"by"}, {"per"},
}

// groupingCueRE marks grouping wording that asks for aggregation on its own.
var groupingCueRE = regexp.MustCompile(`\b(?:grouped by|group by|broken (?:down|out) by|subtotals?|rollup|cube)\b`)

var sortWords = map[string]bool{
	"sorted": true, "ordered": true, "order": true, "sort": true, "sorting": true, "ranked": true, "rank": true,
}

var dateFunctions = []struct {
	words []string
	fn    string
}{
	{[]string{"calendar", "year"}, "CALENDAR_YEAR"},
	{[]string{"calendar", "quarter"}, "CALENDAR_QUARTER"},
	{[]string{"calendar", "month"}, "CALENDAR_MONTH"},
	{[]string{"fiscal", "year"}, "FISCAL_YEAR"},
	{[]string{"fiscal", "quarter"}, "FISCAL_QUARTER"},
	{[]string{"year"}, "CALENDAR_YEAR"},
	{[]string{"quarter"}, "CALENDAR_QUARTER"},
	{[]string{"month"}, "CALENDAR_MONTH"},
	{[]string{"week"}, "WEEK_IN_YEAR"},
	{[]string{"day"}, "DAY_ONLY"},
}

var havingRE = regexp.MustCompile(`\b(?:having|with\s+(?:a\s+|an\s+)?(?:record\s+)?(?:count|total))\s+(?:(?:a\s+)?(?:record\s+)?count\s+)?(?:of\s+)?(more than|over|greater than|above|at least|less than|fewer than|under|below|at most|exactly|equal to)\s+(\d+)\b`)

var havingOps = map[string]queryir.Operator{
	"more than": queryir.OpGt, "over": queryir.OpGt, "greater than": queryir.OpGt, "above": queryir.OpGt,
	"at least": queryir.OpGe,
	"less than": queryir.OpLt, "fewer than": queryir.OpLt, "under": queryir.OpLt, "below": queryir.OpLt,
	"at most": queryir.OpLe,
	"exactly": queryir.OpEq, "equal to": queryir.OpEq,
}

// Aggregate turns count, sum, average, minimum and maximum phrases and
// "by <field>" grouping into aggregate selects with GROUP BY, ROLLUP, CUBE
// and HAVING. It only applies to a root without subqueries.
type Aggregate struct{}

func (Aggregate) Name() string           { return "aggregation" }
func (Aggregate) Capability() Capability { return Aggregation }

func (Aggregate) CanHandle(in *intent.Intent) bool {
	return in.Has(intent.CueAggregate) || groupingCueRE.MatchString(in.Lower)
}

func (Aggregate) Apply(c *Context) {
	root := c.Root
	if len(root.Children) > 0 {
		return
	}
	s := &aggScan{c: c}
	s.functions()
	s.grouping()
	if len(s.aggs) == 0 && len(s.group) == 0 {
		return
	}

	if len(s.aggs) == 0 {
		s.aggs = []queryir.Aggregate{{Func: queryir.FuncCount, Field: "Id"}}
	}
	if len(s.group) == 0 {
		if s.howMany && len(s.aggs) == 1 && s.aggs[0].Func == queryir.FuncCount {
			s.aggs[0].Field = ""
		}
		root.Fields = nil
		root.Aggregates = s.aggs
		return
	}

	root.Fields = stringz.Dedup(s.group)
	root.Aggregates = s.aggs
	root.GroupBy = &queryir.Grouping{Mode: s.mode(), Fields: root.Fields}
	root.Having = s.having()
}

type aggScan struct {
	c       *Context
	aggs    []queryir.Aggregate
	group   []string
	howMany bool
}

func (s *aggScan) addAggregate(a queryir.Aggregate) {
	for _, existing := range s.aggs {
		if existing == a {
			return
		}
	}
	s.aggs = append(s.aggs, a)
}

// rootField resolves the field mention at token i to a field reachable
// from the root.
func (s *aggScan) rootField(i int) (Target, bool) {
	fm, ok := s.c.Intent.FieldMentionAt(i)
	if !ok {
		return Target{}, false
	}
	t, ok := s.c.ResolveMention(fm, s.c.Root.Object)
	if !ok || t.Node != s.c.Root {
		return Target{}, false
	}
	return t, true
}

func (s *aggScan) skip(i int, words map[string]bool) int {
	for words[s.c.Intent.Word(i)] {
		i++
	}
	return i
}

func (s *aggScan) functions() {
	c := s.c
	in := c.Intent
	for i := range in.Tokens {
		if c.covered(i) || metricWords[in.Word(i-1)] {
			continue
		}
		if n := phraseAt(in, i, countPhrases); n > 0 {
			j := s.skip(i+n, argFiller)
			if distinctWords[in.Word(j)] {
				if t, ok := s.rootField(s.skip(j+1, argFiller)); ok {
					s.addAggregate(queryir.Aggregate{Func: queryir.FuncCountDistinct, Field: t.Field})
					continue
				}
			}
			if in.Word(i) == "how" {
				s.howMany = true
			}
			s.addAggregate(queryir.Aggregate{Func: queryir.FuncCount, Field: "Id"})
			continue
		}
		fn, ok := aggregateWords[in.Word(i)]
		if !ok {
			continue
		}
		t, ok := s.rootField(s.skip(i+1, argFiller))
		if !ok {
			continue
		}
		if (fn == queryir.FuncSum || fn == queryir.FuncAvg) && t.Type != schema.TypeNumber {
			continue
		}
		if t.Type == schema.TypeBoolean {
			continue
		}
		s.addAggregate(queryir.Aggregate{Func: fn, Field: t.Field})
	}
}

// grouping reads the first grouping phrase and its fields.
func (s *aggScan) grouping() {
	c := s.c
	in := c.Intent
	for i := range in.Tokens {
		n := phraseAt(in, i, groupingPhrases)
		if n == 0 || sortWords[in.Word(i-1)] || in.InDate(i) {
			continue
		}
		j := i + n
		if in.Word(j) == "the" {
			j++
		}
		if metricWords[in.Word(j)] {
			continue
		}
		if expr, ok := s.dateFunction(j); ok {
			s.group = append(s.group, expr)
			return
		}
		for {
			t, ok := s.rootField(j)
			if !ok {
				break
			}
			s.group = append(s.group, t.Field)
			fm, _ := in.FieldMentionAt(j)
			j = fm.End
			if in.Word(j) == "and" || (j < len(in.Tokens) && in.Tokens[j].Kind == intent.Punct && in.Tokens[j].Text == ",") {
				j++
				continue
			}
			break
		}
		if len(s.group) > 0 {
			return
		}
	}
}

// dateFunction reads "calendar year [of <date field>]" at token i.
func (s *aggScan) dateFunction(i int) (string, bool) {
	c := s.c
	in := c.Intent
	for _, df := range dateFunctions {
		if !wordsAt(in, i, df.words) {
			continue
		}
		j := i + len(df.words)
		var field string
		if in.Word(j) == "of" {
			if t, ok := s.rootField(s.skip(j+1, argFiller)); ok && t.Type == schema.TypeDate {
				field = t.Field
			}
		}
		if field == "" {
			t, ok := c.ResolveName(c.Root.Object, "CreatedDate")
			if !ok {
				obj := c.object(c.Root.Object)
				if obj == nil || len(obj.FieldsOfType(schema.TypeDate)) == 0 {
					return "", false
				}
				t = Target{Node: c.Root, Field: obj.FieldsOfType(schema.TypeDate)[0].Name}
			}
			field = t.Field
		}
		return df.fn + "(" + field + ")", true
	}
	return "", false
}

func (s *aggScan) mode() queryir.GroupingMode {
	for _, t := range s.c.Intent.Tokens {
		switch t.Text {
		case "rollup", "subtotal", "subtotals":
			return queryir.GroupRollup
		case "cube":
			return queryir.GroupCube
		}
	}
	return queryir.GroupPlain
}

func (s *aggScan) having() queryir.Predicate {
	m := havingRE.FindStringSubmatch(s.c.Intent.Lower)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return nil
	}
	agg := s.aggs[0]
	for _, a := range s.aggs {
		if a.Func == queryir.FuncCount {
			agg = a
			break
		}
	}
	return &queryir.Comparison{Field: agg.Expr(), Op: havingOps[m[1]], Value: ir.Int(n)}
}

// phraseAt returns the length of the first phrase matching at token i.
func phraseAt(in *intent.Intent, i int, phrases [][]string) int {
	for _, p := range phrases {
		if wordsAt(in, i, p) {
			return len(p)
		}
	}
	return 0
}

func wordsAt(in *intent.Intent, i int, words []string) bool {
	for k, w := range words {
		if in.Word(i+k) != w {
			return false
		}
	}
	return true
}

// aggregated reports whether ordering by field is valid on an aggregate
// query, returning the expression to order by.
func aggregated(n *queryir.Node, field string) (string, bool) {
	if n.GroupBy != nil {
		for _, g := range n.GroupBy.Fields {
			if strings.EqualFold(g, field) {
				return g, true
			}
		}
	}
	for _, a := range n.Aggregates {
		if strings.EqualFold(a.Field, field) || strings.EqualFold(a.Expr(), field) {
			return a.Expr(), true
		}
	}
	return "", false
}

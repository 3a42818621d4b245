package clause

import (
	"regexp"
	"strconv"

	"github.com/roach88/soqlgen/internal/intent"
	"github.com/roach88/soqlgen/internal/queryir"
)

// limitWords take a count after them. top and bottom also sort by the
// question's metric; last sorts newest first.
var limitWords = map[string]bool{
	"top": true, "bottom": true, "first": true, "last": true, "only": true, "just": true,
}

var sortKeywords = map[string]bool{
	"sorted": true, "sort": true, "sorting": true, "ordered": true, "order": true,
	"ranked": true, "rank": true, "arranged": true,
}

var sortFiller = map[string]bool{
	"by": true, "on": true, "in": true, "the": true, "order": true, "of": true,
	"their": true, "its": true, "with": true,
}

var directionPhrases = []struct {
	words []string
	dir   queryir.Direction
}{
	{[]string{"reverse", "alphabetical", "order"}, queryir.Desc},
	{[]string{"reverse", "alphabetically"}, queryir.Desc},
	{[]string{"most", "recent", "first"}, queryir.Desc},
	{[]string{"a", "to", "z"}, queryir.Asc},
	{[]string{"z", "to", "a"}, queryir.Desc},
	{[]string{"lowest", "first"}, queryir.Asc},
	{[]string{"smallest", "first"}, queryir.Asc},
	{[]string{"oldest", "first"}, queryir.Asc},
	{[]string{"earliest", "first"}, queryir.Asc},
	{[]string{"highest", "first"}, queryir.Desc},
	{[]string{"largest", "first"}, queryir.Desc},
	{[]string{"biggest", "first"}, queryir.Desc},
	{[]string{"newest", "first"}, queryir.Desc},
	{[]string{"latest", "first"}, queryir.Desc},
	{[]string{"ascending"}, queryir.Asc},
	{[]string{"asc"}, queryir.Asc},
	{[]string{"increasing"}, queryir.Asc},
	{[]string{"alphabetical"}, queryir.Asc},
	{[]string{"alphabetically"}, queryir.Asc},
	{[]string{"descending"}, queryir.Desc},
	{[]string{"desc"}, queryir.Desc},
	{[]string{"decreasing"}, queryir.Desc},
}

// recencyPhrases order by a date field. The first field present on the
// object is used.
var recencyPhrases = []struct {
	words  []string
	dir    queryir.Direction
	fields []string
}{
	{[]string{"most", "recently", "modified"}, queryir.Desc, []string{"LastModifiedDate"}},
	{[]string{"most", "recently", "updated"}, queryir.Desc, []string{"LastModifiedDate"}},
	{[]string{"most", "recently", "changed"}, queryir.Desc, []string{"LastModifiedDate"}},
	{[]string{"most", "recently", "created"}, queryir.Desc, []string{"CreatedDate"}},
	{[]string{"recently", "modified"}, queryir.Desc, []string{"LastModifiedDate"}},
	{[]string{"recently", "updated"}, queryir.Desc, []string{"LastModifiedDate"}},
	{[]string{"most", "recent"}, queryir.Desc, []string{"CreatedDate"}},
	{[]string{"latest"}, queryir.Desc, []string{"CreatedDate"}},
	{[]string{"newest"}, queryir.Desc, []string{"CreatedDate"}},
	{[]string{"recent"}, queryir.Desc, []string{"CreatedDate"}},
	{[]string{"oldest"}, queryir.Asc, []string{"CreatedDate"}},
	{[]string{"earliest"}, queryir.Asc, []string{"CreatedDate"}},
}

// superlatives before a field sort by it ("the highest amount").
var superlatives = map[string]queryir.Direction{
	"highest": queryir.Desc, "largest": queryir.Desc, "biggest": queryir.Desc, "greatest": queryir.Desc,
	"most": queryir.Desc, "lowest": queryir.Asc, "smallest": queryir.Asc, "least": queryir.Asc,
}

var offsetPhrases = [][]string{
	{"skip", "the", "first"}, {"skipping", "the", "first"}, {"offset", "by"}, {"offset", "of"},
	{"offset"}, {"skip"}, {"skipping"}, {"starting", "after"},
}

var limitPhrases = [][]string{{"limited", "to"}, {"limit", "to"}, {"limit", "of"}, {"limit"}}

var rangeWords = map[string]bool{"records": true, "rows": true, "results": true, "items": true}

var rangeRE = regexp.MustCompile(`^(\d+)-(\d+)$`)

// Sort turns "top N", "first N", recency, explicit ordering, offsets and
// null placement into ORDER BY, LIMIT and OFFSET. A phrase naming a nested
// object applies to that subquery.
type Sort struct{}

func (Sort) Name() string           { return "sorting" }
func (Sort) Capability() Capability { return Sorting }

func (Sort) CanHandle(in *intent.Intent) bool {
	return in.Has(intent.CueSort)
}

func (Sort) Apply(c *Context) {
	s := &sortScan{c: c, explicit: make(map[*queryir.Node]bool)}
	s.explicitOrder()
	s.quantities()
	s.superlativeOrder()
	s.offsets()
	s.nulls()
	s.fitAggregates()
}

type sortScan struct {
	c        *Context
	explicit map[*queryir.Node]bool
	nullsSet bool
}

func (s *sortScan) count(i int) (int, bool) {
	w := s.c.Intent.Word(i)
	if w == "a" || w == "an" || s.c.Intent.InDate(i) {
		return 0, false
	}
	return s.c.quantity(intent.ParseQuantity(w), w)
}

// targetNode returns the node for the object mentioned within a few tokens
// of i, or the root.
func (s *sortScan) targetNode(i int) *queryir.Node {
	in := s.c.Intent
	for k := i; k < i+4 && k < len(in.Tokens); k++ {
		if m, ok := in.MentionAt(k); ok {
			if n := s.c.Root.Find(m.Object); n != nil {
				return n
			}
			break
		}
	}
	return s.c.Root
}

// order adds an ordering unless n already sorts by the field.
func (s *sortScan) order(n *queryir.Node, field string, dir queryir.Direction) {
	for _, o := range n.OrderBy {
		if o.Field == field {
			return
		}
	}
	n.OrderBy = append(n.OrderBy, queryir.Ordering{Field: field, Direction: dir})
}

func (s *sortScan) direction(i int) (queryir.Direction, int) {
	for _, dp := range directionPhrases {
		if wordsAt(s.c.Intent, i, dp.words) {
			return dp.dir, len(dp.words)
		}
	}
	return "", 0
}

func (s *sortScan) nullsAt(i int) (queryir.NullsOrder, int) {
	in := s.c.Intent
	if in.Word(i) != "nulls" && in.Word(i) != "null" {
		return queryir.NullsDefault, 0
	}
	switch in.Word(i + 1) {
	case "first":
		return queryir.NullsFirst, 2
	case "last":
		return queryir.NullsLast, 2
	}
	return queryir.NullsDefault, 0
}

// explicitOrder reads "sorted by X [direction] (, Y ...)".
func (s *sortScan) explicitOrder() {
	c := s.c
	in := c.Intent
	for i := range in.Tokens {
		if !sortKeywords[in.Word(i)] || c.covered(i) {
			continue
		}
		var pending queryir.Direction
		var last *queryir.Node
		alphabetical := false
		j := i + 1
		for j < len(in.Tokens) {
			if sortFiller[in.Word(j)] {
				j++
				continue
			}
			if dir, n := s.direction(j); n > 0 {
				pending = dir
				alphabetical = alphabetical || in.Word(j) == "alphabetical" || in.Word(j) == "alphabetically"
				j += n
				continue
			}
			fm, ok := in.FieldMentionAt(j)
			if !ok {
				break
			}
			t, ok := c.ResolveMention(fm, c.nearObject(i))
			j = fm.End
			if !ok {
				break
			}
			dir := pending
			if d, n := s.direction(j); n > 0 {
				dir = d
				j += n
			}
			if dir == "" {
				dir = queryir.Asc
			}
			if !s.explicit[t.Node] {
				t.Node.OrderBy = nil
				s.explicit[t.Node] = true
			}
			s.order(t.Node, t.Field, dir)
			last = t.Node
			if nulls, n := s.nullsAt(j); n > 0 {
				t.Node.OrderBy[len(t.Node.OrderBy)-1].Nulls = nulls
				s.nullsSet = true
				j += n
			}
			pending = ""
			if in.Word(j) == "and" || in.Word(j) == "then" ||
				(j < len(in.Tokens) && in.Tokens[j].Kind == intent.Punct && in.Tokens[j].Text == ",") {
				j++
				continue
			}
			break
		}
		if last == nil && alphabetical {
			n := s.targetNode(i + 1)
			if obj := c.object(n.Object); obj != nil && obj.HasField("Name") {
				s.explicit[n] = true
				s.order(n, "Name", pending)
			}
		}
	}
}

// quantities reads count phrases and the ordering they imply.
func (s *sortScan) quantities() {
	c := s.c
	in := c.Intent
	for i := range in.Tokens {
		if c.covered(i) || in.InDate(i) {
			continue
		}
		w := in.Word(i)

		switch {
		case limitWords[w]:
			if w == "first" && in.Word(i-1) == "the" && (in.Word(i-2) == "skip" || in.Word(i-2) == "skipping") {
				continue
			}
			n, ok := s.count(i + 1)
			if !ok {
				if w == "top" || w == "bottom" {
					s.metricOrder(i+1, s.targetNode(i+1), w == "bottom")
				}
				continue
			}
			j := i + 2
			if dir, fields, k := s.recency(j); k > 0 {
				node := s.targetNode(j + k)
				s.limit(node, n)
				s.recencyOrder(node, dir, fields)
				continue
			}
			node := s.targetNode(j)
			s.limit(node, n)
			switch w {
			case "top", "bottom":
				s.metricOrder(j, node, w == "bottom")
			case "last":
				s.recencyOrder(node, queryir.Desc, []string{"CreatedDate"})
			}

		case phraseAt(in, i, limitPhrases) > 0:
			k := i + phraseAt(in, i, limitPhrases)
			if n, ok := s.count(k); ok {
				s.limit(s.c.Root, n)
			}

		default:
			if dir, fields, k := s.recency(i); k > 0 {
				if sortKeywords[in.Word(i-1)] || in.Word(i+k) == "first" {
					continue
				}
				j := i + k
				node := s.targetNode(j)
				if n, ok := s.count(j); ok {
					node = s.targetNode(j + 1)
					s.limit(node, n)
				} else if n, ok := s.count(i - 1); ok && i > 0 && !limitWords[in.Word(i-2)] {
					s.limit(node, n)
				} else if _, mentioned := s.mentionWithin(j); !mentioned {
					continue
				}
				s.recencyOrder(node, dir, fields)
			}
		}
	}
}

func (s *sortScan) mentionWithin(i int) (intent.Mention, bool) {
	in := s.c.Intent
	for k := i; k < i+4 && k < len(in.Tokens); k++ {
		if m, ok := in.MentionAt(k); ok {
			return m, true
		}
	}
	return intent.Mention{}, false
}

func (s *sortScan) limit(n *queryir.Node, count int) {
	if n.Limit == 0 {
		n.Limit = count
	}
}

func (s *sortScan) recency(i int) (queryir.Direction, []string, int) {
	for _, rp := range recencyPhrases {
		if wordsAt(s.c.Intent, i, rp.words) {
			return rp.dir, rp.fields, len(rp.words)
		}
	}
	return "", nil, 0
}

func (s *sortScan) recencyOrder(n *queryir.Node, dir queryir.Direction, fields []string) {
	if s.explicit[n] || len(n.OrderBy) > 0 {
		return
	}
	obj := s.c.object(n.Object)
	if obj == nil {
		return
	}
	for _, f := range fields {
		if obj.HasField(f) {
			s.order(n, f, dir)
			return
		}
	}
}

// metricOrder orders n by the metric named after "by" following token i,
// or by the object's first sort field.
func (s *sortScan) metricOrder(i int, n *queryir.Node, ascending bool) {
	if s.explicit[n] || len(n.OrderBy) > 0 {
		return
	}
	c := s.c
	in := c.Intent
	dir := queryir.Desc
	if ascending {
		dir = queryir.Asc
	}

	for k := i; k < len(in.Tokens) && k < i+8; k++ {
		if in.Word(k) != "by" {
			continue
		}
		j := k + 1
		for {
			w := in.Word(j)
			if d, ok := superlatives[w]; ok {
				dir = d
				j++
				continue
			}
			if w == "the" || w == "their" || w == "its" {
				j++
				continue
			}
			break
		}
		if fm, ok := in.FieldMentionAt(j); ok {
			if t, ok := c.ResolveMention(fm, n.Object); ok {
				s.order(t.Node, t.Field, dir)
				return
			}
		}
		break
	}

	if obj := c.object(n.Object); obj != nil && len(obj.SortFields) > 0 {
		s.order(n, obj.SortFields[0], dir)
	}
}

// superlativeOrder reads "the highest amount" outside a count phrase.
func (s *sortScan) superlativeOrder() {
	c := s.c
	in := c.Intent
	for _, fm := range in.FieldMentions {
		j := fm.Start - 1
		if in.Word(j) == "the" {
			j--
		}
		dir, ok := superlatives[in.Word(j)]
		if !ok || in.Word(j-1) == "by" {
			continue
		}
		t, ok := c.ResolveMention(fm, c.nearObject(fm.Start))
		if !ok || s.explicit[t.Node] || len(t.Node.OrderBy) > 0 {
			continue
		}
		s.order(t.Node, t.Field, dir)
	}
}

// offsets reads "offset N", "skip N" and "records N-M".
func (s *sortScan) offsets() {
	c := s.c
	in := c.Intent
	for i := range in.Tokens {
		if n := phraseAt(in, i, offsetPhrases); n > 0 {
			if count, ok := s.count(i + n); ok && c.Root.Offset == 0 {
				c.Root.Offset = count
			}
			continue
		}
		if !rangeWords[in.Word(i)] {
			continue
		}
		from, to, ok := s.span(i + 1)
		if !ok || to < from || from < 1 {
			continue
		}
		c.Root.Limit = to - from + 1
		c.Root.Offset = from - 1
	}
}

// span reads "11-20", "11 to 20" or "11 through 20".
func (s *sortScan) span(i int) (int, int, bool) {
	in := s.c.Intent
	if m := rangeRE.FindStringSubmatch(in.Word(i)); m != nil {
		from, _ := strconv.Atoi(m[1])
		to, _ := strconv.Atoi(m[2])
		return from, to, true
	}
	if w := in.Word(i + 1); w != "to" && w != "through" && w != "thru" {
		return 0, 0, false
	}
	from, err := strconv.Atoi(in.Word(i))
	if err != nil {
		return 0, 0, false
	}
	to, err := strconv.Atoi(in.Word(i + 2))
	if err != nil {
		return 0, 0, false
	}
	return from, to, true
}

// nulls applies a free-standing "nulls first|last" to the first ordering.
func (s *sortScan) nulls() {
	if s.nullsSet {
		return
	}
	in := s.c.Intent
	for i := range in.Tokens {
		nulls, n := s.nullsAt(i)
		if n == 0 {
			continue
		}
		for _, node := range s.c.Root.Nodes() {
			if len(node.OrderBy) > 0 {
				node.OrderBy[0].Nulls = nulls
				return
			}
		}
		return
	}
}

// fitAggregates rewrites orderings on an aggregate root to a grouped field
// or an aggregate expression.
func (s *sortScan) fitAggregates() {
	root := s.c.Root
	if len(root.Aggregates) == 0 {
		return
	}
	for i, o := range root.OrderBy {
		if expr, ok := aggregated(root, o.Field); ok {
			root.OrderBy[i].Field = expr
			continue
		}
		root.OrderBy[i].Field = root.Aggregates[0].Expr()
	}
	seen := make(map[string]bool)
	kept := root.OrderBy[:0]
	for _, o := range root.OrderBy {
		if seen[o.Field] {
			continue
		}
		seen[o.Field] = true
		kept = append(kept, o)
	}
	root.OrderBy = kept
}

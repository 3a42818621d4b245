package clause

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/soqlgen/internal/intent"
	"github.com/roach88/soqlgen/internal/ir"
	"github.com/roach88/soqlgen/internal/queryir"
	"github.com/roach88/soqlgen/internal/schema"
)

type opKind int

const (
	opCompare opKind = iota
	opIn
	opNotIn
	opIsNull
	opNotNull
	opStarts
	opEnds
	opContains
	opNotContains
)

type operator struct {
	words []string
	kind  opKind
	op    queryir.Operator
}

func ops(kind opKind, op queryir.Operator, phrases ...string) []operator {
	out := make([]operator, len(phrases))
	for i, p := range phrases {
		out[i] = operator{words: strings.Fields(p), kind: kind, op: op}
	}
	return out
}

// operators is matched longest phrase first.
var operators = func() []operator {
	var all []operator
	for _, group := range [][]operator{
		ops(opNotNull, queryir.OpNe, "is not null", "is not empty", "is not blank", "is not missing",
			"has a value", "is set", "not null", "!= null"),
		ops(opIsNull, queryir.OpEq, "is null", "is empty", "is blank", "is missing", "has no value",
			"is not set", "= null"),
		ops(opNotIn, "", "is not in", "not in", "is not one of", "not one of", "is none of", "none of"),
		ops(opIn, "", "is in", "in", "is one of", "one of", "is any of", "any of"),
		ops(opStarts, queryir.OpLike, "starts with", "start with", "starting with", "begins with",
			"begin with", "beginning with"),
		ops(opEnds, queryir.OpLike, "ends with", "end with", "ending with"),
		ops(opNotContains, queryir.OpLike, "does not contain", "doesn't contain", "not containing", "not like"),
		ops(opContains, queryir.OpLike, "contains", "contain", "containing", "is like", "like"),
		ops(opCompare, queryir.OpGe, "is greater than or equal to", "greater than or equal to",
			"is at least", "at least", "no less than", ">=", "=>"),
		ops(opCompare, queryir.OpLe, "is less than or equal to", "less than or equal to",
			"is at most", "at most", "no more than", "up to", "<=", "=<"),
		ops(opCompare, queryir.OpGt, "is greater than", "is more than", "is over", "is above",
			"greater than", "more than", "higher than", "larger than", "bigger than",
			"over", "above", "exceeds", "exceeding", ">"),
		ops(opCompare, queryir.OpLt, "is less than", "is under", "is below", "less than", "fewer than",
			"lower than", "smaller than", "under", "below", "<"),
		ops(opCompare, queryir.OpNe, "is not equal to", "not equal to", "does not equal", "doesn't equal",
			"is not", "isn't", "other than", "not", "!=", "<>"),
		ops(opCompare, queryir.OpEq, "is equal to", "equal to", "equals", "equal", "is", "are",
			"was", "were", "=", "=="),
	} {
		all = append(all, group...)
	}
	sort.SliceStable(all, func(i, j int) bool { return len(all[i].words) > len(all[j].words) })
	return all
}()

// matchOperator finds the operator phrase starting at token i.
func matchOperator(toks []intent.Token, i int) (operator, int, bool) {
	for _, op := range operators {
		if i+len(op.words) > len(toks) {
			continue
		}
		ok := true
		for k, w := range op.words {
			if !toks[i+k].IsWord(w) {
				ok = false
				break
			}
		}
		if ok {
			return op, i + len(op.words), true
		}
	}
	return operator{}, i, false
}

// connectorFiller may sit between "or" and the condition it joins.
var connectorFiller = map[string]bool{
	"where": true, "whose": true, "with": true, "that": true, "which": true,
	"if": true, "the": true, "their": true, "its": true,
}

// adjectiveBlockers before a boolean adjective make it part of a modifier
// phrase ("including deleted accounts").
var adjectiveBlockers = map[string]bool{"include": true, "including": true, "includes": true}

// absenceWords introduce a field that must be empty ("without email").
var absenceWords = [][]string{{"without"}, {"with", "no"}, {"missing"}, {"lacking"}}

// namingWords introduce an object's name ("accounts named Acme"), longest
// first.
var namingWords = [][]string{{"with", "the", "name"}, {"with", "name"}, {"named"}, {"called"}}

// Filter turns comparison phrases, boolean adjectives and reverse picklist
// phrases ("in the energy industry") into predicates. Conditions are ANDed
// unless joined by "or"; AND binds tighter.
type Filter struct{}

func (Filter) Name() string           { return "filters" }
func (Filter) Capability() Capability { return Filters }

func (Filter) CanHandle(in *intent.Intent) bool {
	return in.Has(intent.CueFilter) || in.Has(intent.CueBoolean)
}

func (Filter) Apply(c *Context) {
	s := &filterScan{c: c, claimed: make([]bool, len(c.Intent.Tokens))}
	s.reversePicklists()
	s.names()
	s.absences()
	s.comparisons()
	s.booleans()
	s.flush()
}

type condition struct {
	start int
	node  *queryir.Node
	pred  queryir.Predicate
	or    bool
}

type filterScan struct {
	c       *Context
	claimed []bool
	conds   []condition
}

func (s *filterScan) claim(start, end int) {
	for i := start; i < end && i < len(s.claimed); i++ {
		s.claimed[i] = true
	}
}

func (s *filterScan) isClaimed(start, end int) bool {
	for i := start; i < end && i < len(s.claimed); i++ {
		if s.claimed[i] {
			return true
		}
	}
	return false
}

func (s *filterScan) add(start int, t Target, p queryir.Predicate) {
	s.conds = append(s.conds, condition{start: start, node: t.Node, pred: p, or: s.orBefore(start)})
}

// orBefore reports whether "or" joins the condition starting at token i to
// the one before it.
func (s *filterScan) orBefore(i int) bool {
	in := s.c.Intent
	for k := i - 1; k >= 0 && k >= i-3; k-- {
		w := in.Word(k)
		if w == "or" {
			return true
		}
		if !connectorFiller[w] {
			return false
		}
	}
	return false
}

// conditionStart widens a field mention to include the object named just
// before it ("account industry").
func (s *filterScan) conditionStart(fm intent.FieldMention) int {
	if fm.Prefix == "" {
		return fm.Start
	}
	for _, m := range s.c.Intent.Mentions {
		if m.End == fm.Start {
			return m.Start
		}
	}
	return fm.Start
}

// reversePicklists reads "in the <value> <picklist field>".
func (s *filterScan) reversePicklists() {
	c := s.c
	in := c.Intent
	for i := range in.Tokens {
		if in.Word(i) != "in" || s.isClaimed(i, i+1) {
			continue
		}
		j := i + 1
		if w := in.Word(j); w == "the" || w == "a" || w == "an" {
			j++
		}
		var words []string
		k := j
		for k < len(in.Tokens) && len(words) < maxValueWords {
			if _, ok := in.FieldMentionAt(k); ok && len(words) > 0 {
				break
			}
			if in.Tokens[k].Kind != intent.Word || valueStop[in.Word(k)] || in.InDate(k) {
				break
			}
			words = append(words, in.Tokens[k].Raw)
			k++
		}
		fm, ok := in.FieldMentionAt(k)
		if !ok || len(words) == 0 {
			continue
		}
		t, ok := c.ResolveMention(fm, c.nearObject(i))
		if !ok || t.Type != schema.TypePicklist {
			continue
		}
		value := cases.Title(language.English).String(strings.Join(words, " "))
		s.add(i, t, &queryir.Comparison{Field: t.Field, Op: queryir.OpEq, Value: ir.String(value)})
		s.claim(i, fm.End)
	}
}

// names reads "<object> named <value>" and "<object> with name <value>" as
// equality on the object's Name field.
func (s *filterScan) names() {
	c := s.c
	in := c.Intent
	for _, m := range in.Mentions {
		for _, words := range namingWords {
			if !wordsAt(in, m.End, words) {
				continue
			}
			at := m.End + len(words)
			t, ok := c.ResolveName(m.Object, "Name")
			if !ok || s.isClaimed(m.End, at) {
				break
			}
			pred, end, ok := s.predicate(t, operator{kind: opCompare, op: queryir.OpEq}, at)
			if !ok {
				break
			}
			s.add(m.End, t, pred)
			s.claim(m.End, end)
			break
		}
	}
}

// absences reads "without <field>" and "with no <field>".
func (s *filterScan) absences() {
	c := s.c
	in := c.Intent
	for i := range in.Tokens {
		for _, words := range absenceWords {
			if !wordsAt(in, i, words) {
				continue
			}
			fm, ok := in.FieldMentionAt(i + len(words))
			if !ok || s.isClaimed(i, fm.End) {
				continue
			}
			t, ok := c.ResolveMention(fm, c.nearObject(i))
			if !ok {
				continue
			}
			s.add(i, t, &queryir.Comparison{Field: t.Field, Op: queryir.OpEq, Value: ir.Null{}})
			s.claim(i, fm.End)
		}
	}
}

// comparisons reads "<field> <operator> <value>" and the implicit equality
// "<field> '<literal>'".
func (s *filterScan) comparisons() {
	c := s.c
	in := c.Intent
	for _, fm := range in.FieldMentions {
		if s.isClaimed(fm.Start, fm.End) {
			continue
		}
		op, next, ok := matchOperator(in.Tokens, fm.End)
		if !ok {
			if !s.implicitValue(fm.End) {
				continue
			}
			op, next = operator{kind: opCompare, op: queryir.OpEq}, fm.End
		}
		t, ok := c.ResolveMention(fm, c.nearObject(fm.Start))
		if !ok {
			s.unplaced(fm, op, next)
			continue
		}
		pred, end, ok := s.predicate(t, op, next)
		if !ok {
			continue
		}
		start := s.conditionStart(fm)
		s.add(start, t, pred)
		s.claim(start, end)
	}
}

// unplaced reports a condition whose field exists in the schema but not on
// any object the query reaches. Nothing is reported unless an explicit
// operator and a value follow the field.
func (s *filterScan) unplaced(fm intent.FieldMention, op operator, next int) {
	c := s.c
	if next == fm.End || c.Intent.InDate(fm.Start) {
		return
	}
	switch op.kind {
	case opIsNull, opNotNull:
	case opIn, opNotIn:
		if _, _, ok := c.readList(next, schema.TypeString); !ok {
			return
		}
	default:
		if _, _, ok := c.readValue(next, schema.TypeString); !ok {
			return
		}
	}
	object := c.nearObject(fm.Start)
	if object == "" {
		object = c.Root.Object
	}
	c.Diags.Add(ir.CodeUnknownField, fm.Form, "%s has no field %q; condition omitted", object, fm.Form)
}

// implicitValue reports whether token i is a value that needs no operator:
// a quoted literal, a bind variable or a number.
func (s *filterScan) implicitValue(i int) bool {
	in := s.c.Intent
	if i >= len(in.Tokens) || in.InDate(i) {
		return false
	}
	tok := in.Tokens[i]
	switch {
	case tok.Kind == intent.Quoted:
		return true
	case tok.Kind != intent.Word:
		return false
	case strings.HasPrefix(tok.Raw, ":") && len(tok.Raw) > 1:
		return true
	}
	return numberRE.MatchString(tok.Text)
}

func (s *filterScan) predicate(t Target, op operator, i int) (queryir.Predicate, int, bool) {
	c := s.c
	switch op.kind {
	case opIsNull:
		return &queryir.Comparison{Field: t.Field, Op: queryir.OpEq, Value: ir.Null{}}, i, true
	case opNotNull:
		return &queryir.Comparison{Field: t.Field, Op: queryir.OpNe, Value: ir.Null{}}, i, true

	case opIn, opNotIn:
		lits, end, ok := c.readList(i, t.Type)
		if !ok {
			return nil, i, false
		}
		return &queryir.In{Field: t.Field, Values: values(lits), Negated: op.kind == opNotIn}, end, true

	case opStarts, opEnds, opContains, opNotContains:
		lit, end, ok := c.readValue(i, t.Type)
		if !ok || t.Type == schema.TypeDate || t.Type == schema.TypeBoolean {
			return nil, i, false
		}
		pattern := lit.text
		switch op.kind {
		case opStarts:
			pattern += "%"
		case opEnds:
			pattern = "%" + pattern
		default:
			pattern = "%" + pattern + "%"
		}
		var p queryir.Predicate = &queryir.Comparison{Field: t.Field, Op: queryir.OpLike, Value: ir.String(pattern)}
		if op.kind == opNotContains {
			p = &queryir.Not{Predicate: p}
		}
		return p, end, true
	}

	lit, end, ok := c.readValue(i, t.Type)
	if !ok || !accepts(t.Type, op.op, lit) {
		return nil, i, false
	}
	if op.op != queryir.OpEq && op.op != queryir.OpNe {
		return &queryir.Comparison{Field: t.Field, Op: op.op, Value: lit.value}, end, true
	}

	lits := []literal{lit}
	for {
		more, next, ok := c.moreAlternative(end, t.Type)
		if !ok {
			break
		}
		lits = append(lits, more)
		end = next
	}
	if len(lits) > 1 {
		return &queryir.In{Field: t.Field, Values: values(lits), Negated: op.op == queryir.OpNe}, end, true
	}
	return &queryir.Comparison{Field: t.Field, Op: op.op, Value: lit.value}, end, true
}

// accepts reports whether a value may be compared with a field of type t.
// Date fields only take null, bind variables and calendar dates here;
// relative dates belong to the date builder.
func accepts(t schema.FieldType, op queryir.Operator, lit literal) bool {
	if _, isNull := lit.value.(ir.Null); isNull {
		return op == queryir.OpEq || op == queryir.OpNe
	}
	switch t {
	case schema.TypeDate:
		switch lit.value.(type) {
		case ir.Bind, ir.Date:
			return true
		}
		return false
	case schema.TypeBoolean:
		switch lit.value.(type) {
		case ir.Bool, ir.Bind:
			return op == queryir.OpEq || op == queryir.OpNe
		}
		return false
	}
	if op == queryir.OpEq || op == queryir.OpNe {
		return true
	}
	return lit.orderable()
}

func values(lits []literal) []ir.Value {
	out := make([]ir.Value, len(lits))
	for i, l := range lits {
		out[i] = l.value
	}
	return out
}

// booleans reads adjectives placed before an object mention: "closed
// opportunities", "inactive users".
func (s *filterScan) booleans() {
	c := s.c
	in := c.Intent
	for _, m := range in.Mentions {
		adj := m.Start - 1
		if adj < 0 || s.isClaimed(adj, adj+1) || adjectiveBlockers[in.Word(adj-1)] {
			continue
		}
		field, value, ok := c.Vocab.BooleanAdjective(m.Object, in.Word(adj))
		if !ok {
			continue
		}
		p, ok := c.placeFor(m.Object)
		if !ok {
			continue
		}
		obj := c.object(p.object)
		if obj == nil {
			continue
		}
		f, ok := obj.Field(field)
		if !ok {
			continue
		}
		t := p.target(f)
		s.add(adj, t, &queryir.Comparison{Field: t.Field, Op: queryir.OpEq, Value: ir.Bool(value)})
		s.claim(adj, adj+1)
	}
}

// flush attaches the conditions to their nodes in question order.
func (s *filterScan) flush() {
	sort.SliceStable(s.conds, func(i, j int) bool { return s.conds[i].start < s.conds[j].start })

	var nodes []*queryir.Node
	for _, cond := range s.conds {
		if !slices.Contains(nodes, cond.node) {
			nodes = append(nodes, cond.node)
		}
	}
	for _, n := range nodes {
		var disjuncts [][]queryir.Predicate
		for _, cond := range s.conds {
			if cond.node != n {
				continue
			}
			if cond.or || len(disjuncts) == 0 {
				disjuncts = append(disjuncts, nil)
			}
			last := len(disjuncts) - 1
			disjuncts[last] = append(disjuncts[last], cond.pred)
		}
		if len(disjuncts) == 1 {
			for _, p := range disjuncts[0] {
				n.AddFilter(p)
			}
			continue
		}
		or := &queryir.Or{}
		for _, d := range disjuncts {
			if len(d) == 1 {
				or.Predicates = append(or.Predicates, d[0])
				continue
			}
			or.Predicates = append(or.Predicates, &queryir.And{Predicates: d})
		}
		n.AddFilter(or)
	}
}

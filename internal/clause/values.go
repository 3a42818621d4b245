package clause

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/soqlgen/internal/intent"
	"github.com/roach88/soqlgen/internal/ir"
	"github.com/roach88/soqlgen/internal/schema"
)

// maxValueWords bounds an unquoted multi-word value ("closed won").
const maxValueWords = 4

var numberRE = regexp.MustCompile(`^\$?(\d+(?:\.\d+)?)(k|m|mm|b|bn)?$`)

// scaleWords multiply the number before them by a power of ten.
var scaleWords = map[string]int32{
	"k": 3, "thousand": 3,
	"m": 6, "mm": 6, "million": 6,
	"b": 9, "bn": 9, "billion": 9,
}

var currencyWords = map[string]bool{"dollars": true, "usd": true, "bucks": true}

// valueStop ends an unquoted value.
var valueStop = map[string]bool{
	"and": true, "or": true, "but": true, "with": true, "where": true, "whose": true,
	"which": true, "that": true, "who": true, "sorted": true, "ordered": true,
	"order": true, "sort": true, "limit": true, "by": true, "for": true, "in": true,
	"including": true, "include": true, "grouped": true, "group": true, "per": true,
	"offset": true, "skip": true, "nulls": true, "ascending": true, "descending": true,
	"asc": true, "desc": true, "from": true, "of": true, "top": true, "first": true,
	"last": true, "only": true, "just": true, "having": true, "than": true, "not": true,
	"is": true, "are": true, "was": true, "were": true, "created": true, "modified": true,
	"updated": true, "then": true, "also": true, "each": true,
}

// literal is a parsed filter value with the text it was read from.
type literal struct {
	value  ir.Value
	text   string
	quoted bool
}

// orderable reports whether the literal may sit on the right of <, <=, >
// or >=.
func (l literal) orderable() bool {
	switch l.value.(type) {
	case ir.Int, ir.Decimal, ir.Bind, ir.Date:
		return true
	}
	return l.quoted
}

// readValue reads one value starting at token i for a field of type t.
func (c *Context) readValue(i int, t schema.FieldType) (literal, int, bool) {
	in := c.Intent
	toks := in.Tokens
	if i < len(toks) && toks[i].IsWord("the") {
		i++
	}
	if i >= len(toks) || in.InDate(i) {
		return literal{}, i, false
	}

	tok := toks[i]
	switch tok.Kind {
	case intent.Quoted:
		return literal{value: ir.String(tok.Text), text: tok.Text, quoted: true}, i + 1, true
	case intent.Punct:
		return literal{}, i, false
	}

	if name, ok := strings.CutPrefix(tok.Raw, ":"); ok && name != "" {
		return literal{value: ir.Bind(name), text: tok.Raw}, i + 1, true
	}
	switch tok.Text {
	case "true", "yes":
		return literal{value: ir.Bool(true), text: tok.Text}, i + 1, true
	case "false", "no":
		return literal{value: ir.Bool(false), text: tok.Text}, i + 1, true
	case "null":
		return literal{value: ir.Null{}, text: tok.Text}, i + 1, true
	}
	if lit, next, ok := readNumber(toks, i); ok {
		return lit, next, true
	}
	if t == schema.TypeDate || t == schema.TypeBoolean {
		return literal{}, i, false
	}

	var words []string
	j := i
	for j < len(toks) && len(words) < maxValueWords {
		w := toks[j]
		if w.Kind != intent.Word || valueStop[w.Text] || in.InDate(j) {
			break
		}
		if len(words) > 0 && c.startsMention(j) {
			break
		}
		words = append(words, w.Raw)
		j++
	}
	if len(words) == 0 {
		return literal{}, i, false
	}
	text := strings.Join(words, " ")
	if t == schema.TypePicklist {
		text = cases.Title(language.English).String(text)
	}
	return literal{value: ir.String(text), text: text}, j, true
}

// readNumber reads "1500", "$2500.75", "10k" or "1.5 million".
func readNumber(toks []intent.Token, i int) (literal, int, bool) {
	m := numberRE.FindStringSubmatch(toks[i].Text)
	if m == nil {
		return literal{}, i, false
	}
	d, err := decimal.NewFromString(m[1])
	if err != nil {
		return literal{}, i, false
	}
	next := i + 1
	shift := scaleWords[m[2]]
	if m[2] == "" && next < len(toks) && toks[next].Kind == intent.Word {
		if s, ok := scaleWords[toks[next].Text]; ok {
			shift = s
			next++
		}
	}
	if next < len(toks) && currencyWords[toks[next].Text] {
		next++
	}
	d = d.Shift(shift)

	var v ir.Value = ir.NewDecimal(d)
	if d.IsInteger() {
		v = ir.Int(d.IntPart())
	}
	return literal{value: v, text: d.String()}, next, true
}

// readList reads "(a, b)" or "a, b or c".
func (c *Context) readList(i int, t schema.FieldType) ([]literal, int, bool) {
	toks := c.Intent.Tokens
	if i < len(toks) && toks[i].Kind == intent.Punct && toks[i].Text == "(" {
		var out []literal
		j := i + 1
		for j < len(toks) {
			tok := toks[j]
			if tok.Kind == intent.Punct && tok.Text == ")" {
				return out, j + 1, len(out) > 0
			}
			if (tok.Kind == intent.Punct && tok.Text == ",") || tok.IsWord("or") || tok.IsWord("and") {
				j++
				continue
			}
			lit, next, ok := c.readValue(j, t)
			if !ok {
				return nil, i, false
			}
			out = append(out, lit)
			j = next
		}
		return nil, i, false
	}

	first, j, ok := c.readValue(i, t)
	if !ok {
		return nil, i, false
	}
	out := []literal{first}
	for {
		more, next, ok := c.moreValue(j, t)
		if !ok {
			break
		}
		out = append(out, more)
		j = next
	}
	return out, j, true
}

// moreValue reads a further list item after ",", "or" or "and".
func (c *Context) moreValue(i int, t schema.FieldType) (literal, int, bool) {
	toks := c.Intent.Tokens
	j := i
	if j < len(toks) && toks[j].Kind == intent.Punct && toks[j].Text == "," {
		j++
	}
	if j < len(toks) && (toks[j].IsWord("or") || toks[j].IsWord("and")) {
		j++
	}
	if j == i || j >= len(toks) || c.startsMention(j) {
		return literal{}, i, false
	}
	return c.readValue(j, t)
}

// moreAlternative reads a further value after ", " or "or" only; "and"
// separates conditions in an equality.
func (c *Context) moreAlternative(i int, t schema.FieldType) (literal, int, bool) {
	toks := c.Intent.Tokens
	j := i
	if j < len(toks) && toks[j].Kind == intent.Punct && toks[j].Text == "," {
		j++
	}
	if j < len(toks) && toks[j].IsWord("or") {
		j++
	}
	if j == i || j >= len(toks) || c.startsMention(j) {
		return literal{}, i, false
	}
	return c.readValue(j, t)
}

func (c *Context) startsMention(i int) bool {
	if _, ok := c.Intent.MentionAt(i); ok {
		return true
	}
	_, ok := c.Intent.FieldMentionAt(i)
	return ok
}

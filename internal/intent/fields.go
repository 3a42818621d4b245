package intent

import (
	"regexp"
	"strings"
)

var allFieldsRE = regexp.MustCompile(`\ball\s+(?:the\s+|of\s+the\s+|their\s+|its\s+)?(?:fields|columns|attributes|details)\b|\bevery\s+(?:field|column)\b|\bfull\s+details\b`)

// listEnders may follow an explicit "X with a, b and c" field list.
var listEnders = wordSet("", "sorted", "ordered", "order", "sort", "limit",
	"where", "whose", "created", "modified", "updated", "top", "first")

// itemSeparators split items of a field list.
var itemSeparators = wordSet("and", "&", "plus")

// allFields reports the "all fields" phrasings: "all fields", "all
// columns", or a bare "show me all <objects>" with nothing after it.
func allFields(st *scanState, lower string) bool {
	if allFieldsRE.MatchString(lower) {
		return true
	}
	i := st.skip(0, wordSet("please", "can", "you", "could"))
	if !verbs[st.word(i)] {
		return false
	}
	i = st.skip(i+1, wordSet("me", "us"))
	if st.word(i) != "all" {
		return false
	}
	m, ok := st.mentionAt(i + 1)
	return ok && m.End == len(st.toks)
}

// fieldPhrase finds an explicit field list and the object it belongs to.
//
//	show me the ID and name of all accounts
//	list accounts with industry and annual revenue
func (e *Extractor) fieldPhrase(st *scanState, fields []FieldMention) ([]string, string) {
	if items, target := listBeforeOf(st, fields); len(items) > 0 {
		return items, target
	}
	return e.listAfterWith(st)
}

// listBeforeOf reads "verb (me) (the) <list> of|for|from (all) <object>".
// The list must name at least one field and no object.
func listBeforeOf(st *scanState, fields []FieldMention) ([]string, string) {
	i := st.skip(0, wordSet("please", "can", "you", "could"))
	if !verbs[st.word(i)] {
		return nil, ""
	}
	start := st.skip(i+1, wordSet("me", "us", "the", "only", "just"))
	for k := start; k < len(st.toks); k++ {
		if _, ok := st.mentionAt(k); ok {
			return nil, ""
		}
		w := st.word(k)
		if w != "of" && w != "for" && w != "from" {
			continue
		}
		owner, ok := st.mentionAt(st.skip(k+1, determiners))
		if !ok || k == start {
			return nil, ""
		}
		if !hasFieldWithin(fields, start, k) {
			return nil, ""
		}
		return splitItems(st.toks[start:k]), owner.Object
	}
	return nil, ""
}

// listAfterWith reads "<object> with|including|showing (their) a, b and c"
// where every item is a field of the object.
func (e *Extractor) listAfterWith(st *scanState) ([]string, string) {
	for _, m := range st.mentions {
		j := m.End
		switch st.word(j) {
		case "with", "including", "showing", "displaying":
			j++
		default:
			continue
		}
		j = st.skip(j, wordSet("their", "its", "the", "only", "just"))

		var items []string
		for j < len(st.toks) {
			// "with their account" names a related object, not a field.
			if _, ok := st.mentionAt(j); ok {
				break
			}
			n := e.longestField(st, m.Object, j)
			if n == 0 {
				break
			}
			phrase, _ := joinWords(st.toks[j:j+n], make([]bool, n))
			items = append(items, phrase)
			j += n
			next := j
			for next < len(st.toks) && (itemSeparators[st.word(next)] || st.toks[next].Kind == Punct && st.toks[next].Text == ",") {
				next++
			}
			if next == j {
				break
			}
			j = next
		}
		if len(items) > 0 && listEnders[st.word(j)] && (j == len(st.toks) || st.toks[j].Kind == Word) {
			return items, m.Object
		}
	}
	return nil, ""
}

// longestField returns how many tokens from i form a field of object.
func (e *Extractor) longestField(st *scanState, object string, i int) int {
	for n := min(e.vocab.MaxWords(), len(st.toks)-i); n >= 1; n-- {
		phrase, ok := joinWords(st.toks[i:i+n], make([]bool, n))
		if !ok {
			continue
		}
		if _, ok := e.vocab.Field(object, phrase); ok {
			return n
		}
	}
	return 0
}

func hasFieldWithin(fields []FieldMention, start, end int) bool {
	for _, f := range fields {
		if f.Start >= start && f.End <= end {
			return true
		}
	}
	return false
}

// splitItems splits a token run on commas and conjunctions.
func splitItems(toks []Token) []string {
	var items []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			items = append(items, strings.Join(cur, " "))
			cur = nil
		}
	}
	for _, t := range toks {
		switch {
		case t.Kind == Punct:
			flush()
		case t.Kind == Word && itemSeparators[t.Text]:
			flush()
		case t.Kind == Word && (t.Text == "the" || t.Text == "their" || t.Text == "its"):
		default:
			cur = append(cur, t.Text)
		}
	}
	flush()
	return items
}

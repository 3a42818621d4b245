package intent

import "strings"

// Mention is an object named in the question.
type Mention struct {
	Object string
	Form   string

	// Start and End are token indexes; End is exclusive.
	Start, End int

	// Fields lists the fields the same words could also name
	// ("company" is both Account and Lead.Company).
	Fields []FieldRef
}

// FieldMention is a field named in the question.
type FieldMention struct {
	Refs []FieldRef
	Form string

	Start, End int

	// Prefix is the object named immediately before the field
	// ("account industry"), or empty.
	Prefix string
}

// Candidate returns the reference for object, if the mention can name one
// of its fields.
func (m FieldMention) Candidate(object string) (FieldRef, bool) {
	for _, ref := range m.Refs {
		if strings.EqualFold(ref.Object, object) {
			return ref, true
		}
	}
	return FieldRef{}, false
}

// orderWordsBefore and orderWordsAfter mark "order" as part of an ordering
// phrase rather than the Order object.
var (
	orderWordsBefore = map[string]bool{
		"sort": true, "in": true, "ascending": true, "descending": true, "asc": true,
		"desc": true, "alphabetical": true, "chronological": true, "reverse": true, "same": true,
	}
	orderWordsAfter = map[string]bool{"by": true, "of": true}
)

// maskOrdering returns a mask of tokens that belong to ordering phrases and
// must not match object forms.
func maskOrdering(toks []Token) []bool {
	masked := make([]bool, len(toks))
	for i, t := range toks {
		if !t.IsWord("order") && !t.IsWord("group") {
			continue
		}
		before := i > 0 && toks[i-1].Kind == Word && orderWordsBefore[toks[i-1].Text]
		after := i+1 < len(toks) && toks[i+1].Kind == Word && orderWordsAfter[toks[i+1].Text]
		if before || after {
			masked[i] = true
		}
	}
	return masked
}

// scanMentions matches object and field forms over the tokens, longest
// phrase first, without overlap. When an object form and a field form have
// the same length the object wins and the field candidates are kept on the
// Mention.
func (v *Vocabulary) scanMentions(toks []Token) ([]Mention, []FieldMention) {
	masked := maskOrdering(toks)
	var mentions []Mention
	var fields []FieldMention

	for i := 0; i < len(toks); {
		if toks[i].Kind != Word || masked[i] {
			i++
			continue
		}
		matched := false
		for n := min(v.maxWords, len(toks)-i); n >= 1; n-- {
			phrase, ok := joinWords(toks[i:i+n], masked[i:i+n])
			if !ok {
				continue
			}
			object, isObject := v.objects[phrase]
			refs := v.fields[phrase]
			if !isObject && len(refs) == 0 {
				continue
			}
			if isObject {
				mentions = append(mentions, Mention{Object: object, Form: phrase, Start: i, End: i + n, Fields: refs})
			} else {
				fields = append(fields, FieldMention{Refs: refs, Form: phrase, Start: i, End: i + n})
			}
			i += n
			matched = true
			break
		}
		if !matched {
			i++
		}
	}

	for fi := range fields {
		for _, m := range mentions {
			if _, ok := fields[fi].Candidate(m.Object); ok && m.End == fields[fi].Start {
				fields[fi].Prefix = m.Object
			}
		}
	}
	return mentions, fields
}

func joinWords(toks []Token, masked []bool) (string, bool) {
	words := make([]string, len(toks))
	for i, t := range toks {
		if t.Kind != Word || masked[i] {
			return "", false
		}
		words[i] = t.Text
	}
	return strings.Join(words, " "), true
}

package intent

import (
	"sort"
	"strings"

	"github.com/roach88/soqlgen/internal/schema"
)

// DefaultObject is used when a question names no known object and no other
// default is configured.
const DefaultObject = "Account"

// Extractor reads questions against one vocabulary. It holds no per-request
// state and is safe for concurrent use.
type Extractor struct {
	vocab         *Vocabulary
	defaultObject string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithDefaultObject sets the fallback object for questions that name none.
func WithDefaultObject(name string) Option {
	return func(e *Extractor) {
		e.defaultObject = name
	}
}

// NewExtractor creates an extractor. A default object missing from the
// graph is replaced by the graph's first object.
func NewExtractor(v *Vocabulary, opts ...Option) *Extractor {
	e := &Extractor{vocab: v, defaultObject: DefaultObject}
	for _, opt := range opts {
		opt(e)
	}
	g := v.Graph()
	if obj, err := g.LookupObject(e.defaultObject); err == nil {
		e.defaultObject = obj.Name
	} else if objects := g.Objects(); len(objects) > 0 {
		e.defaultObject = objects[0].Name
	}
	return e
}

// Vocabulary returns the extractor's vocabulary.
func (e *Extractor) Vocabulary() *Vocabulary {
	return e.vocab
}

// DefaultObject returns the fallback object.
func (e *Extractor) DefaultObject() string {
	return e.defaultObject
}

// Extract reads one question. It never fails: a question naming no object
// yields the default object with Defaulted set.
func (e *Extractor) Extract(question string) *Intent {
	text := Normalize(question)
	lower := strings.ToLower(text)
	if len(lower) != len(text) {
		text = lower
	}
	toks := Tokenize(text)
	mentions, fields := e.vocab.scanMentions(toks)
	mentions, fields = e.demoteFieldLike(mentions, fields)

	in := &Intent{
		Question:      question,
		Text:          text,
		Lower:         lower,
		Tokens:        toks,
		Mentions:      mentions,
		FieldMentions: fields,
	}

	st := &scanState{toks: toks, mentions: mentions}
	for _, r := range rules {
		m, ok := r.match(st)
		if !ok {
			continue
		}
		in.Rule = r.name
		in.Primary = m.primary
		in.Related = m.related
		in.Hint = m.hint
		break
	}
	if in.Rule == "" {
		in.Rule = RuleFallback
		in.Primary = e.defaultObject
		in.Hint = DirectionNone
		in.Defaulted = true
	}
	e.scopedParents(st, in)
	if len(in.Related) > 0 {
		in.Secondary = in.Related[0]
	}

	in.AllFields = allFields(st, lower)
	in.FieldPhrase, in.FieldTarget = e.fieldPhrase(st, fields)
	in.Dates = findDates(lower)
	in.Modifiers = findModifiers(lower)
	in.Cues = detectCues(in, e.vocab)
	return in
}

// conditionWords open the operator of a condition on the field before them.
var conditionWords = wordSet("is", "isn't", "are", "was", "were", "equals", "equal", "not",
	"contains", "contain", "containing", "does", "doesn't", "like", "in", "one", "none", "any",
	"starts", "start", "starting", "begins", "begin", "beginning", "ends", "end", "ending",
	"over", "under", "above", "below", "more", "less", "greater", "fewer", "higher", "lower",
	"at", "exceeds", "exceeding", "up", "no", "=", "==", "!=", "<>", "<", ">", "<=", ">=")

// scopedParents relates the parent a condition reaches through a field the
// question's objects lack: in "contacts where account name is Acme" the
// condition is on Account, so Account joins the resolution.
func (e *Extractor) scopedParents(st *scanState, in *Intent) {
	if in.Defaulted {
		return
	}
	g := e.vocab.Graph()
	for _, fm := range in.FieldMentions {
		if fm.Prefix != "" || !conditionWords[st.word(fm.End)] || fieldOfAny(fm, in.Objects()) {
			continue
		}
		for _, ref := range fm.Refs {
			if _, ok := g.DirectEdge(ref.Object, in.Primary); !ok {
				continue
			}
			in.Related = appendObject(in.Related, in.Primary, ref.Object)
			if in.Hint == DirectionNone {
				in.Hint = ChildToParent
			}
			break
		}
	}
}

func fieldOfAny(fm FieldMention, objects []string) bool {
	for _, object := range objects {
		if _, ok := fm.Candidate(object); ok {
			return true
		}
	}
	return false
}

// demoteFieldLike turns object mentions that are really plain fields of the
// first-mentioned object into field mentions: in "leads with company Acme"
// the word "company" names Lead.Company, not Account.
func (e *Extractor) demoteFieldLike(mentions []Mention, fields []FieldMention) ([]Mention, []FieldMention) {
	if len(mentions) < 2 {
		return mentions, fields
	}
	first := mentions[0].Object
	kept := mentions[:1:1]
	for _, m := range mentions[1:] {
		if m.Object != first && plainFieldOf(m.Fields, first) {
			fields = append(fields, FieldMention{Refs: m.Fields, Form: m.Form, Start: m.Start, End: m.End})
			continue
		}
		kept = append(kept, m)
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Start < fields[j].Start })
	return kept, fields
}

func plainFieldOf(refs []FieldRef, object string) bool {
	for _, ref := range refs {
		if strings.EqualFold(ref.Object, object) && ref.Field.Type != schema.TypeReference {
			return true
		}
	}
	return false
}

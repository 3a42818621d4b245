package intent

// Intent is the structured reading of one question. It is created per
// request and never shared.
type Intent struct {
	Question string // as received
	Text     string // normalized, case preserved
	Lower    string // normalized, lower case; offsets match Text
	Tokens   []Token

	// Rule is the rule that identified the objects.
	Rule RuleName

	// Primary is the subject of the question (the first object named, or
	// the default object when Defaulted is set).
	Primary string

	// Related lists the other objects the question ties to Primary, in
	// mention order. Secondary is Related[0], if any.
	Related   []string
	Secondary string

	// Hint is the direction suggested by the wording.
	Hint Direction

	// Defaulted is set when no object was recognized.
	Defaulted bool

	Mentions      []Mention
	FieldMentions []FieldMention

	// FieldPhrase holds the items of an explicit field list
	// ("the ID and name of all accounts" -> ["id", "name"]), and
	// FieldTarget the object they were asked of.
	FieldPhrase []string
	FieldTarget string

	// AllFields is set by "all fields", "all columns" and a bare
	// "show me all <objects>".
	AllFields bool

	Dates     []DatePhrase
	Modifiers []ModifierPhrase
	Cues      []Cue
}

// Objects returns Primary followed by Related.
func (in *Intent) Objects() []string {
	return append([]string{in.Primary}, in.Related...)
}

// Has reports whether a cue of the given kind was seen.
func (in *Intent) Has(kind CueKind) bool {
	for _, c := range in.Cues {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

// Word returns the text of token i if it is a word, else "".
func (in *Intent) Word(i int) string {
	if i < 0 || i >= len(in.Tokens) || in.Tokens[i].Kind != Word {
		return ""
	}
	return in.Tokens[i].Text
}

// TokenAt returns the index of the first token starting at or after the
// byte offset, or len(Tokens).
func (in *Intent) TokenAt(offset int) int {
	for i, t := range in.Tokens {
		if t.Start >= offset {
			return i
		}
	}
	return len(in.Tokens)
}

// MentionAt returns the object mention starting at token i.
func (in *Intent) MentionAt(i int) (Mention, bool) {
	for _, m := range in.Mentions {
		if m.Start == i {
			return m, true
		}
	}
	return Mention{}, false
}

// FieldMentionAt returns the field mention starting at token i.
func (in *Intent) FieldMentionAt(i int) (FieldMention, bool) {
	for _, m := range in.FieldMentions {
		if m.Start == i {
			return m, true
		}
	}
	return FieldMention{}, false
}

// FieldMentionEndingAt returns the field mention whose last token is i-1.
func (in *Intent) FieldMentionEndingAt(i int) (FieldMention, bool) {
	for _, m := range in.FieldMentions {
		if m.End == i {
			return m, true
		}
	}
	return FieldMention{}, false
}

// InDate reports whether token i lies inside a date phrase.
func (in *Intent) InDate(i int) bool {
	if i < 0 || i >= len(in.Tokens) {
		return false
	}
	t := in.Tokens[i]
	for _, d := range in.Dates {
		if t.Start >= d.Start && t.End <= d.End {
			return true
		}
	}
	return false
}

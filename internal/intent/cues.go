package intent

import "regexp"

// CueKind is a family of clause phrasing.
type CueKind string

const (
	CueFilter    CueKind = "filter"
	CueBoolean   CueKind = "boolean"
	CueDate      CueKind = "date"
	CueAggregate CueKind = "aggregate"
	CueSort      CueKind = "sort"
	CueModifier  CueKind = "modifier"
	CueFieldList CueKind = "field-list"
)

// Cue records that a clause family's phrasing appears in the question.
// Text is the first phrase seen.
type Cue struct {
	Kind CueKind
	Text string
}

var cuePatterns = []struct {
	kind CueKind
	re   *regexp.Regexp
}{
	{CueFilter, regexp.MustCompile(`\b(?:where|whose|which|that|having|equals?|equal to|is|are|was|were|over|under|above|below|exceeds?|exceeding|more than|less than|greater than|fewer than|higher than|lower than|at least|at most|no more than|no less than|up to|starts?\s+with|starting with|begins?\s+with|beginning with|ends?\s+with|ending with|contains?|containing|like|not in|in|one of|null|empty|blank|missing|without|has a value|not|excluding|named|called|with (?:the )?name)\b|[<>=]|'|"`)},
	{CueAggregate, regexp.MustCompile(`\b(?:count|counts|counting|how many|number of|total|totals|sum|summed|average|avg|mean|minimum|min|maximum|max|distinct|unique)\b`)},
	{CueSort, regexp.MustCompile(`\b(?:top|first|last|limit|limited|only|just|most recent|most recently|latest|newest|oldest|recent|order|ordered|sort|sorted|sorting|ascending|descending|asc|desc|alphabetical|alphabetically|highest|lowest|largest|smallest|biggest|offset|skip|skipping|nulls|records|rows|results|ranked)\b`)},
}

// detectCues scans the lower-case text for clause families and adds cues
// for the phrases extraction already parsed.
func detectCues(in *Intent, v *Vocabulary) []Cue {
	var cues []Cue
	for _, p := range cuePatterns {
		if text := p.re.FindString(in.Lower); text != "" {
			cues = append(cues, Cue{Kind: p.kind, Text: text})
		}
	}
	for _, m := range in.Mentions {
		if m.Start == 0 {
			continue
		}
		prev := in.Tokens[m.Start-1]
		if prev.Kind != Word {
			continue
		}
		if _, _, ok := v.BooleanAdjective(m.Object, prev.Text); ok {
			cues = append(cues, Cue{Kind: CueBoolean, Text: prev.Text + " " + m.Form})
			break
		}
	}
	if len(in.Dates) > 0 {
		cues = append(cues, Cue{Kind: CueDate, Text: in.Dates[0].Text})
	}
	if len(in.Modifiers) > 0 {
		cues = append(cues, Cue{Kind: CueModifier, Text: in.Modifiers[0].Text})
	}
	if len(in.FieldPhrase) > 0 || in.AllFields {
		cues = append(cues, Cue{Kind: CueFieldList})
	}
	return cues
}

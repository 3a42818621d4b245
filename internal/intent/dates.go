package intent

import (
	"regexp"
	"sort"
	"strings"
)

// DateUnit is the period a relative date phrase counts in.
type DateUnit string

const (
	Day     DateUnit = "day"
	Week    DateUnit = "week"
	Month   DateUnit = "month"
	Quarter DateUnit = "quarter"
	Year    DateUnit = "year"
)

// DatePhrase is one date expression found in the question.
type DatePhrase struct {
	Text string

	// Start and End are byte offsets of the phrase in the lower-case text.
	Start, End int

	// Anchor is where the phrase and its comparator begin. Words before the
	// anchor ("created", "close date") say which field is meant.
	Anchor int

	// Comparator is "before", "after", "on or before", "on or after" or
	// empty for equality.
	Comparator string

	Day      string // "today", "yesterday" or "tomorrow"
	Relative string // "this", "last", "next" or "ago"
	Unit     DateUnit
	Fiscal   bool

	// Counted is set for "last N days", "N weeks ago" and the like.
	Counted bool
	Count   Quantity

	// Date is a calendar date or date-time as written ("2024-01-31").
	Date string
}

var relativeWords = map[string]string{
	"this": "this", "current": "this",
	"last": "last", "past": "last", "previous": "last", "prior": "last",
	"next": "next", "coming": "next",
}

var unitWords = map[string]DateUnit{
	"day": Day, "days": Day, "week": Week, "weeks": Week,
	"month": Month, "months": Month, "quarter": Quarter, "quarters": Quarter,
	"year": Year, "years": Year,
}

type datePattern struct {
	re    *regexp.Regexp
	build func(m []string) (DatePhrase, bool)
}

// datePatterns are tried in order; a later pattern never claims text an
// earlier one matched. Counted phrases come before the single-period
// literals so "last 3 fiscal quarters" is not read as "last fiscal quarter".
var datePatterns = []datePattern{
	{
		re: regexp.MustCompile(`\b(last|past|previous|prior|next|coming)\s+(\S+)\s+fiscal\s+(quarter|year)s?\b`),
		build: func(m []string) (DatePhrase, bool) {
			return counted(relativeWords[m[1]], m[2], unitWords[m[3]], true), true
		},
	},
	{
		re: regexp.MustCompile(`\b(\S+)\s+fiscal\s+(quarter|year)s?\s+ago\b`),
		build: func(m []string) (DatePhrase, bool) {
			return counted("ago", m[1], unitWords[m[2]], true), true
		},
	},
	{
		re: regexp.MustCompile(`\b(last|past|previous|prior|next|coming)\s+(\S+)\s+(day|week|month|quarter|year)s?\b`),
		build: func(m []string) (DatePhrase, bool) {
			if m[2] == "fiscal" || m[2] == "calendar" || m[2] == "business" || unitWords[m[2]] != "" {
				return DatePhrase{}, false
			}
			return counted(relativeWords[m[1]], m[2], unitWords[m[3]], false), true
		},
	},
	{
		re: regexp.MustCompile(`\b(\S+)\s+(day|week|month|quarter|year)s?\s+ago\b`),
		build: func(m []string) (DatePhrase, bool) {
			return counted("ago", m[1], unitWords[m[2]], false), true
		},
	},
	{
		re: regexp.MustCompile(`\b(today|yesterday|tomorrow)\b`),
		build: func(m []string) (DatePhrase, bool) {
			return DatePhrase{Day: m[1]}, true
		},
	},
	{
		re: regexp.MustCompile(`\b(this|last|next|previous|current|coming|past|prior)\s+(fiscal\s+)?(week|month|quarter|year)\b`),
		build: func(m []string) (DatePhrase, bool) {
			fiscal := m[2] != ""
			unit := unitWords[m[3]]
			if fiscal && unit != Quarter && unit != Year {
				return DatePhrase{}, false
			}
			return DatePhrase{Relative: relativeWords[m[1]], Unit: unit, Fiscal: fiscal}, true
		},
	},
	{
		re: regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}(?:t\d{2}:\d{2}(?::\d{2}(?:\.\d+)?)?(?:z|[+-]\d{2}:?\d{2})?)?\b`),
		build: func(m []string) (DatePhrase, bool) {
			return DatePhrase{Date: m[0]}, true
		},
	},
}

// comparatorRE matches a comparator directly before a date phrase.
var comparatorRE = regexp.MustCompile(`(?:\b(on or before|on or after|no later than|no earlier than|earlier than|later than|prior to|before|after|since|until|till))\s+$`)

var comparators = map[string]string{
	"before": "before", "earlier than": "before", "prior to": "before", "until": "before", "till": "before",
	"after": "after", "later than": "after",
	"since": "on or after", "on or after": "on or after", "no earlier than": "on or after",
	"on or before": "on or before", "no later than": "on or before",
}

func counted(relative, count string, unit DateUnit, fiscal bool) DatePhrase {
	q := ParseQuantity(count)
	if !q.OK {
		q.Malformed = true
	}
	return DatePhrase{Relative: relative, Unit: unit, Fiscal: fiscal, Counted: true, Count: q}
}

// findDates returns the date phrases in lower, ordered by position.
func findDates(lower string) []DatePhrase {
	var out []DatePhrase
	overlaps := func(start, end int) bool {
		for _, d := range out {
			if start < d.End && end > d.Start {
				return true
			}
		}
		return false
	}

	for _, p := range datePatterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(lower, -1) {
			start, end := loc[0], loc[1]
			if overlaps(start, end) {
				continue
			}
			groups := make([]string, len(loc)/2)
			for g := range groups {
				if loc[2*g] >= 0 {
					groups[g] = lower[loc[2*g]:loc[2*g+1]]
				}
			}
			phrase, ok := p.build(groups)
			if !ok {
				continue
			}
			phrase.Text = lower[start:end]
			phrase.Start, phrase.End, phrase.Anchor = start, end, start
			if phrase.Date != "" {
				phrase.Date = strings.ToUpper(phrase.Text)
			}
			if cm := comparatorRE.FindStringSubmatchIndex(lower[:start]); cm != nil {
				phrase.Comparator = comparators[lower[cm[2]:cm[3]]]
				phrase.Anchor = cm[0]
			}
			out = append(out, phrase)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

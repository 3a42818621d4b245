package schema

import (
	"strings"
	"unicode"
)

// irregularPlurals maps singular words to plurals that no suffix rule derives.
var irregularPlurals = map[string]string{
	"person":   "people",
	"child":    "children",
	"man":      "men",
	"woman":    "women",
	"criteria": "criteria",
	"data":     "data",
	"news":     "news",
	"series":   "series",
	"status":   "statuses",
}

// suffixRule rewrites a word ending in Suffix. When NeedConsonant is set the
// rule only applies if the letter before the suffix is a consonant.
type suffixRule struct {
	Suffix        string
	Replace       string
	NeedConsonant bool
}

// pluralRules are tried in order; the first match wins. Words matching no
// rule get a plain "s".
var pluralRules = []suffixRule{
	{Suffix: "y", Replace: "ies", NeedConsonant: true},
	{Suffix: "ss", Replace: "sses"},
	{Suffix: "sh", Replace: "shes"},
	{Suffix: "ch", Replace: "ches"},
	{Suffix: "x", Replace: "xes"},
	{Suffix: "z", Replace: "zes"},
	{Suffix: "s", Replace: "ses"},
}

// Pluralizer derives plural names. Overrides take precedence over the
// irregular table, which takes precedence over suffix rules.
type Pluralizer struct {
	overrides map[string]string // lower-case singular -> plural
}

// NewPluralizer creates a pluralizer with the given overrides
// (singular -> plural, matched case-insensitively).
func NewPluralizer(overrides map[string]string) *Pluralizer {
	p := &Pluralizer{overrides: make(map[string]string, len(overrides))}
	for k, v := range overrides {
		p.overrides[strings.ToLower(k)] = v
	}
	return p
}

// Override registers a plural for one singular name.
func (p *Pluralizer) Override(singular, plural string) {
	p.overrides[strings.ToLower(singular)] = plural
}

// Plural returns the plural of an identifier or word, preserving the case
// of the unchanged prefix. Custom object names ("Invoice__c") pluralize
// their base name and take the "__r" suffix.
func (p *Pluralizer) Plural(name string) string {
	if name == "" {
		return ""
	}
	if plural, ok := p.overrides[strings.ToLower(name)]; ok {
		return plural
	}
	if base, ok := strings.CutSuffix(name, "__c"); ok {
		return p.Plural(base) + "__r"
	}

	// Identifiers pluralize their last word: QuoteLineItem -> QuoteLineItems.
	head, last := splitLastWord(name)
	lower := strings.ToLower(last)
	if irregular, ok := irregularPlurals[lower]; ok {
		return head + matchCase(last, irregular)
	}
	for _, rule := range pluralRules {
		if !strings.HasSuffix(lower, rule.Suffix) {
			continue
		}
		stem := last[:len(last)-len(rule.Suffix)]
		if rule.NeedConsonant && (stem == "" || isVowel(rune(stem[len(stem)-1]))) {
			continue
		}
		return head + stem + matchCase(last[len(stem):], rule.Replace)
	}
	return head + last + matchCase(last[len(last)-1:], "s")
}

// splitLastWord splits "QuoteLineItem" into ("QuoteLine", "Item") and
// "line item" into ("line ", "item").
func splitLastWord(name string) (string, string) {
	runes := []rune(name)
	for i := len(runes) - 1; i > 0; i-- {
		if runes[i-1] == ' ' || runes[i-1] == '_' {
			return string(runes[:i]), string(runes[i:])
		}
		if unicode.IsUpper(runes[i]) && unicode.IsLower(runes[i-1]) {
			return string(runes[:i]), string(runes[i:])
		}
	}
	return "", name
}

func isVowel(r rune) bool {
	return strings.ContainsRune("aeiouAEIOU", r)
}

// matchCase copies the case pattern of reference onto replacement: all
// upper, leading capital, or unchanged.
func matchCase(reference, replacement string) string {
	if reference == "" || replacement == "" {
		return replacement
	}
	if strings.ToUpper(reference) == reference && strings.ToLower(reference) != reference {
		return strings.ToUpper(replacement)
	}
	if first := []rune(reference)[0]; unicode.IsUpper(first) {
		r := []rune(replacement)
		r[0] = unicode.ToUpper(r[0])
		return string(r)
	}
	return replacement
}

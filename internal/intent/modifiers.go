package intent

import "regexp"

// ModifierKind names an access, audit or locking annotation.
type ModifierKind string

const (
	SecurityEnforced ModifierKind = "security_enforced"
	UserMode         ModifierKind = "user_mode"
	SystemMode       ModifierKind = "system_mode"
	AllRows          ModifierKind = "all_rows"
	ForView          ModifierKind = "for_view"
	ForReference     ModifierKind = "for_reference"
	ForUpdate        ModifierKind = "for_update"
)

// ModifierPhrase is a modifier request found in the question.
type ModifierPhrase struct {
	Kind ModifierKind
	Text string
}

var modifierPatterns = []struct {
	kind ModifierKind
	re   *regexp.Regexp
}{
	{SecurityEnforced, regexp.MustCompile(`\b(?:with\s+)?security[\s_]enforced\b|\benforc(?:e|ing)\s+(?:field[\s-]level\s+)?security\b`)},
	{UserMode, regexp.MustCompile(`\bwith\s+sharing\b|\bsharing\s+enforcement\b|\benforc(?:e|ing)\s+sharing\b|\buser[\s_]mode\b|\brespect(?:ing)?\s+sharing\b`)},
	{SystemMode, regexp.MustCompile(`\bwithout\s+sharing\b|\bsystem[\s_]mode\b`)},
	{AllRows, regexp.MustCompile(`\b(?:including|include|with)\s+deleted\b|\ball\s+rows\b|\brecycle\s+bin\b|\barchived\b|\bdeleted\b`)},
	{ForView, regexp.MustCompile(`\bfor\s+view\b|\bmark(?:ing)?\s+(?:them\s+)?(?:as\s+)?viewed\b`)},
	{ForReference, regexp.MustCompile(`\bfor\s+reference\b|\bmark(?:ing)?\s+(?:them\s+)?(?:as\s+)?referenced\b`)},
	{ForUpdate, regexp.MustCompile(`\bfor\s+update\b|\block(?:ing|ed)?\b`)},
}

// findModifiers returns at most one phrase per kind, in table order.
func findModifiers(lower string) []ModifierPhrase {
	var out []ModifierPhrase
	for _, p := range modifierPatterns {
		if text := p.re.FindString(lower); text != "" {
			out = append(out, ModifierPhrase{Kind: p.kind, Text: text})
		}
	}
	return out
}

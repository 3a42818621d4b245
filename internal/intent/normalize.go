package intent

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	digitGroupRE     = regexp.MustCompile(`(\d),(\d{3})\b`)
	possessiveRE     = regexp.MustCompile(`(\pL)'s\b`)
	pluralPossessive = regexp.MustCompile(`(\pLs)'(\s|$)`)
	strayPunctRE     = regexp.MustCompile(`[?!;]+`)
)

var quoteReplacer = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'",
	"\u201c", `"`, "\u201d", `"`,
)

// segment is a run of question text that is either inside quotes or not.
type segment struct {
	text   string
	quoted bool
}

// Normalize prepares a question for matching. It applies NFKC, folds curly
// quotes, removes thousands separators, possessives and sentence
// punctuation, and collapses whitespace. Quoted literals are left intact.
// Case is preserved.
func Normalize(question string) string {
	s := quoteReplacer.Replace(norm.NFKC.String(question))

	var b strings.Builder
	for _, seg := range splitQuoted(s) {
		if seg.quoted {
			b.WriteString(seg.text)
			continue
		}
		t := seg.text
		for digitGroupRE.MatchString(t) {
			t = digitGroupRE.ReplaceAllString(t, "$1$2")
		}
		t = possessiveRE.ReplaceAllString(t, "$1")
		t = pluralPossessive.ReplaceAllString(t, "$1$2")
		t = strayPunctRE.ReplaceAllString(t, " ")
		b.WriteString(t)
	}

	out := collapseSpace(b.String())
	for strings.HasSuffix(out, ".") || strings.HasSuffix(out, ",") || strings.HasSuffix(out, ":") {
		out = strings.TrimSpace(out[:len(out)-1])
	}
	return out
}

// collapseSpace replaces runs of whitespace outside quotes with one space.
func collapseSpace(s string) string {
	var b strings.Builder
	for _, seg := range splitQuoted(s) {
		if seg.quoted {
			b.WriteString(seg.text)
			continue
		}
		fields := strings.Fields(seg.text)
		if len(fields) == 0 {
			if seg.text != "" {
				b.WriteByte(' ')
			}
			continue
		}
		if isSpace(seg.text[0]) {
			b.WriteByte(' ')
		}
		b.WriteString(strings.Join(fields, " "))
		if isSpace(seg.text[len(seg.text)-1]) {
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(b.String())
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// splitQuoted splits s into quoted and unquoted runs. A double quote always
// opens a literal. A single quote opens one only at the start of a word, so
// apostrophes inside words ("O'Brien", "account's") stay in plain text.
func splitQuoted(s string) []segment {
	var segs []segment
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '"' && c != '\'' {
			continue
		}
		if c == '\'' && i > 0 && !isBoundary(s[i-1]) {
			continue
		}
		end := closingQuote(s, i)
		if end < 0 {
			continue
		}
		if i > start {
			segs = append(segs, segment{text: s[start:i]})
		}
		segs = append(segs, segment{text: s[i : end+1], quoted: true})
		start = end + 1
		i = end
	}
	if start < len(s) {
		segs = append(segs, segment{text: s[start:]})
	}
	return segs
}

// closingQuote returns the index of the quote closing the literal opened at
// open, or -1. A single quote closes only when followed by a boundary.
func closingQuote(s string, open int) int {
	q := s[open]
	for j := open + 1; j < len(s); j++ {
		if s[j] != q {
			continue
		}
		if q == '"' || j+1 == len(s) || isBoundary(s[j+1]) || s[j+1] == '.' {
			return j
		}
	}
	return -1
}

func isBoundary(c byte) bool {
	return isSpace(c) || c == '(' || c == ')' || c == ',' || c == '='
}

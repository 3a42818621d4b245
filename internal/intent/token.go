package intent

import (
	"strings"
	"unicode/utf8"
)

// TokenKind classifies a token.
type TokenKind int

const (
	// Word is an unquoted run of non-space characters.
	Word TokenKind = iota
	// Quoted is a single- or double-quoted literal.
	Quoted
	// Punct is one of ( ) ,
	Punct
)

// Token is one lexical unit of the normalized question.
type Token struct {
	Kind TokenKind

	// Text is the lower-case word, the literal's content for Quoted tokens
	// (case preserved), or the punctuation character.
	Text string

	// Raw is the token as written, case preserved, quotes removed.
	Raw string

	// Start and End are byte offsets into the normalized text.
	Start, End int
}

// Tokenize splits normalized text into words, quoted literals and the
// punctuation that matters for lists.
func Tokenize(text string) []Token {
	var toks []Token
	quoted := make(map[int]int) // literal start -> end (inclusive)
	offset := 0
	for _, seg := range splitQuoted(text) {
		if seg.quoted {
			quoted[offset] = offset + len(seg.text) - 1
		}
		offset += len(seg.text)
	}

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case isSpace(c):
			i++
		case c == '(' || c == ')' || c == ',':
			toks = append(toks, Token{Kind: Punct, Text: string(c), Raw: string(c), Start: i, End: i + 1})
			i++
		default:
			if end, ok := quoted[i]; ok {
				inner := text[i+1 : end]
				toks = append(toks, Token{Kind: Quoted, Text: inner, Raw: inner, Start: i, End: end + 1})
				i = end + 1
				continue
			}
			j := i
			for j < len(text) {
				r, size := utf8.DecodeRuneInString(text[j:])
				if r == ' ' || r == '\t' || r == '\n' || r == '(' || r == ')' || r == ',' {
					break
				}
				if _, ok := quoted[j]; ok && j > i {
					break
				}
				j += size
			}
			raw := text[i:j]
			toks = append(toks, Token{Kind: Word, Text: strings.ToLower(raw), Raw: raw, Start: i, End: j})
			i = j
		}
	}
	return toks
}

// IsWord reports whether the token is a word with the given text.
func (t Token) IsWord(text string) bool {
	return t.Kind == Word && t.Text == text
}

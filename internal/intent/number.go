package intent

import (
	"strconv"
	"strings"
	"unicode"
)

var numberWords = map[string]int{
	"a": 1, "an": 1, "one": 1, "single": 1,
	"zero": 0, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
	"thirty": 30, "forty": 40, "fifty": 50, "sixty": 60,
	"seventy": 70, "eighty": 80, "ninety": 90, "hundred": 100,
	"dozen": 12,
}

// Quantity is the result of reading a count such as the N in "top N".
type Quantity struct {
	N int

	// OK is set when the text was a valid non-negative integer.
	OK bool

	// Malformed is set when the text looks numeric but is not a valid
	// non-negative integer ("-3", "2.5", "10x").
	Malformed bool
}

// ParseQuantity reads a count from one token. Digits and the number words
// zero through twenty, the tens and "dozen" are accepted.
func ParseQuantity(word string) Quantity {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return Quantity{}
	}
	if n, ok := numberWords[word]; ok {
		return Quantity{N: n, OK: true}
	}
	if n, err := strconv.Atoi(word); err == nil {
		if n < 0 {
			return Quantity{Malformed: true}
		}
		return Quantity{N: n, OK: true}
	}
	if looksNumeric(word) {
		return Quantity{Malformed: true}
	}
	return Quantity{}
}

// looksNumeric reports whether a word starts like a number.
func looksNumeric(word string) bool {
	trimmed := strings.TrimLeft(word, "+-$#")
	if trimmed == "" {
		return false
	}
	return unicode.IsDigit([]rune(trimmed)[0])
}

package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/soqlgen/internal/engine"
	"github.com/roach88/soqlgen/internal/ir"
)

// AssertionError describes one failed check.
type AssertionError struct {
	Check    string // expect, contains, not_contains, object or diagnostics
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Check, e.Expected, e.Actual)
}

// checkCase evaluates every check of c against res and returns one message
// per failure, in the order the checks are documented.
func checkCase(c Case, res engine.Result) []string {
	var errs []string
	add := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	add(assertExpect(c.Expect, res.Query))
	for _, sub := range c.Contains {
		add(assertContains(sub, res.Query))
	}
	for _, sub := range c.NotContains {
		add(assertNotContains(sub, res.Query))
	}
	add(assertObject(c.Object, res.Object))
	add(assertDiagnostics(c.Diagnostics, ir.Codes(res.Diagnostics)))
	return errs
}

func assertExpect(want, got string) error {
	if want == "" || want == got {
		return nil
	}
	return &AssertionError{Check: "expect", Expected: quote(want), Actual: quote(got)}
}

func assertContains(sub, query string) error {
	if strings.Contains(query, sub) {
		return nil
	}
	return &AssertionError{Check: "contains", Expected: "query containing " + quote(sub), Actual: quote(query)}
}

func assertNotContains(sub, query string) error {
	if !strings.Contains(query, sub) {
		return nil
	}
	return &AssertionError{Check: "not_contains", Expected: "query without " + quote(sub), Actual: quote(query)}
}

func assertObject(want, got string) error {
	if want == "" || strings.EqualFold(want, got) {
		return nil
	}
	return &AssertionError{Check: "object", Expected: want, Actual: got}
}

func assertDiagnostics(want, got []string) error {
	if want == nil || slices.Equal(want, got) {
		return nil
	}
	return &AssertionError{Check: "diagnostics", Expected: codeList(want), Actual: codeList(got)}
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}

func codeList(codes []string) string {
	if len(codes) == 0 {
		return "none"
	}
	return "[" + strings.Join(codes, ", ") + "]"
}

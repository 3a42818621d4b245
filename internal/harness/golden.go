package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Render formats a result as stable text for golden comparison and the
// test command:
//
//	suite: reference (2 passed, 0 failed)
//
//	PASS explicit fields
//	  question: Show me the ID and name of all accounts.
//	  query: SELECT Id, Name FROM Account
//	  diagnostics: none
//
// Failed cases list one "error:" line per failed check.
func Render(result *Result) []byte {
	var buf strings.Builder
	fmt.Fprintf(&buf, "suite: %s (%d passed, %d failed)\n", result.Suite, result.Passed(), result.Failed())
	for _, c := range result.Cases {
		status := "PASS"
		if !c.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(&buf, "\n%s %s\n", status, c.Name)
		fmt.Fprintf(&buf, "  question: %s\n", c.Question)
		fmt.Fprintf(&buf, "  query: %s\n", c.Query)
		fmt.Fprintf(&buf, "  diagnostics: %s\n", strings.Trim(codeList(c.Diagnostics), "[]"))
		for _, err := range c.Errors {
			fmt.Fprintf(&buf, "  error: %s\n", err)
		}
	}
	return []byte(buf.String())
}

// RunWithGolden runs a suite and compares the rendered result against
// testdata/golden/{suite.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the suite cannot run; a mismatch fails t via goldie.
func RunWithGolden(t *testing.T, suite *Suite, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(suite, opts...)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, suite.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against the golden file named
// name, without re-running the suite.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Render(result))
}

package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Reference(t *testing.T) {
	suite, err := LoadSuite("testdata/scenarios/reference.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, suite)
	require.NoError(t, err)
	assert.True(t, result.Pass)
}

func TestRender_Failure(t *testing.T) {
	result := NewResult("demo")
	result.Add(CaseResult{
		Name:        "broken",
		Question:    "show contacts",
		Query:       "SELECT Id, Name FROM Contact",
		Diagnostics: []string{"UNKNOWN_FIELD", "STRUCTURAL_WARNING"},
		Errors:      []string{"object: expected Lead, got Contact"},
	})

	want := "suite: demo (0 passed, 1 failed)\n" +
		"\n" +
		"FAIL broken\n" +
		"  question: show contacts\n" +
		"  query: SELECT Id, Name FROM Contact\n" +
		"  diagnostics: UNKNOWN_FIELD, STRUCTURAL_WARNING\n" +
		"  error: object: expected Lead, got Contact\n"
	assert.Equal(t, want, string(Render(result)))
	assert.False(t, result.Pass)
}

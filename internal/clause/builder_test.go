package clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/soqlgen/internal/intent"
	"github.com/roach88/soqlgen/internal/querysoql"
	"github.com/roach88/soqlgen/internal/resolve"
	"github.com/roach88/soqlgen/internal/schema"
)

// prepare extracts and resolves question against the sample graph without
// running any builder.
func prepare(t *testing.T, question string, opts ...resolve.Option) *Context {
	t.Helper()
	g := schema.Sample()
	v := intent.NewVocabulary(g)
	in := intent.NewExtractor(v).Extract(question)
	res := resolve.New(g, opts...).Resolve(in)
	require.NotNil(t, res.Root, "question %q resolved no root", question)
	return NewContext(v, in, res)
}

// generate runs the default pipeline and renders the result.
func generate(t *testing.T, question string, opts ...resolve.Option) (string, *Context) {
	t.Helper()
	ctx := prepare(t, question, opts...)
	Default().Run(ctx)
	q, err := querysoql.Render(ctx.Root)
	require.NoError(t, err)
	return q, ctx
}

type scenario struct {
	name     string
	question string
	want     string
}

func runScenarios(t *testing.T, tests []scenario, opts ...resolve.Option) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ctx := generate(t, tt.question, opts...)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, ctx.Diags.Items())
		})
	}
}

func TestPipeline_ReferenceQuestions(t *testing.T) {
	runScenarios(t, []scenario{
		{
			name:     "explicit fields",
			question: "Show me the ID and name of all accounts.",
			want:     "SELECT Id, Name FROM Account",
		},
		{
			name:     "parent with children",
			question: "Show me accounts with their contacts",
			want:     "SELECT Id, Name, (SELECT Id, Name FROM Contacts) FROM Account",
		},
		{
			name:     "top n by metric",
			question: "List top 5 opportunities by highest amount.",
			want:     "SELECT Id, Name FROM Opportunity ORDER BY Amount DESC LIMIT 5",
		},
		{
			name:     "date literal",
			question: "Show accounts created today.",
			want:     "SELECT Id, Name FROM Account WHERE CreatedDate = TODAY",
		},
		{
			name:     "grouped count",
			question: "Count accounts by industry.",
			want:     "SELECT Industry, COUNT(Id) FROM Account GROUP BY Industry",
		},
		{
			name:     "multi-hop",
			question: "List quote line items of an account.",
			want: "SELECT Id, Name, (SELECT Id, Name, (SELECT Id, Name, " +
				"(SELECT Id, Quantity, UnitPrice FROM QuoteLineItems) FROM Quotes) FROM Opportunities) FROM Account",
		},
		{
			name:     "for each with boolean adjective",
			question: "For each account, list their open cases",
			want:     "SELECT Id, Name, (SELECT Id, CaseNumber, Subject FROM Cases WHERE IsClosed = FALSE) FROM Account",
		},
	})
}

func TestPipeline_Deterministic(t *testing.T) {
	const question = "accounts where industry is energy or technology sorted by name"
	first, _ := generate(t, question)
	for range 5 {
		again, _ := generate(t, question)
		assert.Equal(t, first, again)
	}
}

func TestCapability_String(t *testing.T) {
	assert.Equal(t, "none", Capability(0).String())
	assert.Equal(t, "fields|sorting", (Fields | Sorting).String())
	assert.Equal(t, []string{"fields", "filters", "dates", "aggregation", "sorting", "modifiers"},
		(Fields | Filters | Dates | Aggregation | Sorting | Modifiers).Names())

	caps := Fields | Dates
	assert.True(t, caps.Has(Dates))
	assert.True(t, caps.Has(Fields|Dates))
	assert.False(t, caps.Has(Dates|Sorting))
}

func TestPipeline_Plan(t *testing.T) {
	tests := []struct {
		question string
		want     Capability
	}{
		{"Count accounts by industry.", Fields | Aggregation},
		{"Show accounts created today.", Fields | Dates},
		{"List top 5 opportunities by highest amount.", Fields | Sorting},
		{"contacts where email is null", Fields | Filters},
		{"accounts with security enforced", Fields | Modifiers},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			ctx := prepare(t, tt.question)
			assert.Equal(t, tt.want.String(), Default().Plan(ctx.Intent).String())
		})
	}
}

func TestPipeline_BuilderOrder(t *testing.T) {
	var names []string
	for _, b := range Default().Builders() {
		names = append(names, b.Name())
	}
	assert.Equal(t, []string{"fields", "filters", "dates", "aggregation", "sorting", "modifiers"}, names)
}

func TestPipeline_OnlyConfiguredBuildersRun(t *testing.T) {
	ctx := prepare(t, "top 5 accounts")
	caps := NewPipeline(FieldSelection{}).Run(ctx)

	assert.Equal(t, Fields, caps)
	q, err := querysoql.Render(ctx.Root)
	require.NoError(t, err)
	assert.Equal(t, "SELECT Id, Name FROM Account", q)
}

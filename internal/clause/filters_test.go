package clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/soqlgen/internal/intent"
	"github.com/roach88/soqlgen/internal/ir"
	"github.com/roach88/soqlgen/internal/queryir"
)

func TestFilter(t *testing.T) {
	runScenarios(t, []scenario{
		{
			name:     "reverse picklist phrase",
			question: "accounts in the technology industry",
			want:     "SELECT Id, Name FROM Account WHERE Industry = 'Technology'",
		},
		{
			name:     "scaled number and quoted literal",
			question: "opportunities where amount over 1.5 million and stage is 'Closed Won'",
			want:     "SELECT Id, Name FROM Opportunity WHERE Amount > 1500000 AND StageName = 'Closed Won'",
		},
		{
			name:     "at least with suffix",
			question: "opportunities where amount is at least 10k",
			want:     "SELECT Id, Name FROM Opportunity WHERE Amount >= 10000",
		},
		{
			name:     "or between conditions",
			question: "leads where status is open or rating is hot",
			want:     "SELECT Id, Name FROM Lead WHERE Status = 'Open' OR Rating = 'Hot'",
		},
		{
			name:     "and binds tighter than or",
			question: "accounts where industry is energy and rating is hot or type is partner",
			want:     "SELECT Id, Name FROM Account WHERE (Industry = 'Energy' AND Rating = 'Hot') OR Type = 'Partner'",
		},
		{
			name:     "alternatives become IN",
			question: "accounts where industry is energy or technology",
			want:     "SELECT Id, Name FROM Account WHERE Industry IN ('Energy', 'Technology')",
		},
		{
			name:     "parenthesized list",
			question: "cases where priority in ('High', 'Medium')",
			want:     "SELECT Id, CaseNumber, Subject FROM Case WHERE Priority IN ('High', 'Medium')",
		},
		{
			name:     "absence",
			question: "contacts without email",
			want:     "SELECT Id, Name FROM Contact WHERE Email = null",
		},
		{
			name:     "is null",
			question: "contacts where email is null",
			want:     "SELECT Id, Name FROM Contact WHERE Email = null",
		},
		{
			name:     "is not null",
			question: "contacts where email is not null",
			want:     "SELECT Id, Name FROM Contact WHERE Email != null",
		},
		{
			name:     "starts with",
			question: "accounts where name starts with 'Acme'",
			want:     "SELECT Id, Name FROM Account WHERE Name LIKE 'Acme%'",
		},
		{
			name:     "does not contain",
			question: "accounts where name does not contain 'test'",
			want:     "SELECT Id, Name FROM Account WHERE NOT (Name LIKE '%test%')",
		},
		{
			name:     "bind variable",
			question: "accounts where industry = :ind",
			want:     "SELECT Id, Name FROM Account WHERE Industry = :ind",
		},
		{
			name:     "boolean adjective",
			question: "active users",
			want:     "SELECT Id, Name FROM User WHERE IsActive = TRUE",
		},
		{
			name:     "parent field through a lookup",
			question: "contacts where account industry is energy",
			want:     "SELECT Id, Name, Account.Name FROM Contact WHERE Account.Industry = 'Energy'",
		},
		{
			name:     "parent field named without its object",
			question: "contacts where industry is energy",
			want:     "SELECT Id, Name, Account.Name FROM Contact WHERE Account.Industry = 'Energy'",
		},
		{
			name:     "parent name field",
			question: "contacts where account name is 'Acme'",
			want:     "SELECT Id, Name, Account.Name FROM Contact WHERE Account.Name = 'Acme'",
		},
		{
			name:     "named",
			question: "accounts named Acme",
			want:     "SELECT Id, Name FROM Account WHERE Name = 'Acme'",
		},
		{
			name:     "called",
			question: "accounts called Acme",
			want:     "SELECT Id, Name FROM Account WHERE Name = 'Acme'",
		},
		{
			name:     "with name",
			question: "accounts with name Acme",
			want:     "SELECT Id, Name FROM Account WHERE Name = 'Acme'",
		},
		{
			name:     "with the name, quoted",
			question: "show accounts with the name 'Acme Corp'",
			want:     "SELECT Id, Name FROM Account WHERE Name = 'Acme Corp'",
		},
		{
			name:     "named alternatives",
			question: "contacts named Smith or Jones",
			want:     "SELECT Id, Name FROM Contact WHERE Name IN ('Smith', 'Jones')",
		},
		{
			name:     "condition on a subquery",
			question: "accounts with their contacts where title is 'CEO'",
			want:     "SELECT Id, Name, (SELECT Id, Name FROM Contacts WHERE Title = 'CEO') FROM Account",
		},
	})
}

func TestMatchOperator_LongestPhrase(t *testing.T) {
	toks := intent.Tokenize("is not in ('a')")
	op, next, ok := matchOperator(toks, 0)
	require.True(t, ok)
	assert.Equal(t, opNotIn, op.kind)
	assert.Equal(t, 3, next)

	toks = intent.Tokenize("is greater than or equal to 5")
	op, next, ok = matchOperator(toks, 0)
	require.True(t, ok)
	assert.Equal(t, queryir.OpGe, op.op)
	assert.Equal(t, 6, next)
}

func TestFilter_OrderingNeedsOrderableValue(t *testing.T) {
	got, _ := generate(t, "accounts where industry over energy")
	assert.Equal(t, "SELECT Id, Name FROM Account", got)
}

func TestFilter_UnplacedField(t *testing.T) {
	got, ctx := generate(t, "accounts with amount over 5")

	assert.Equal(t, "SELECT Id, Name FROM Account", got)
	diags := ctx.Diags.Items()
	require.Len(t, diags, 1)
	assert.Equal(t, ir.CodeUnknownField, diags[0].Code)
	assert.Equal(t, "amount", diags[0].Subject)
	assert.Contains(t, diags[0].Message, "Account has no field")
}

func TestFilter_UnplacedFieldWithoutValue(t *testing.T) {
	_, ctx := generate(t, "accounts sorted by amount")
	assert.NotContains(t, ir.Codes(ctx.Diags.Items()), string(ir.CodeUnknownField))
}

package clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/soqlgen/internal/ir"
	"github.com/roach88/soqlgen/internal/resolve"
)

func TestFieldSelection(t *testing.T) {
	runScenarios(t, []scenario{
		{
			name:     "typo corrected",
			question: "show the emial and title of contacts",
			want:     "SELECT Email, Title FROM Contact",
		},
		{
			name:     "parent field written with the parent name",
			question: "show the name and account name of contacts",
			want:     "SELECT Name, Account.Name FROM Contact",
		},
		{
			name:     "lookup parent name",
			question: "contacts of accounts where name is 'Acme'",
			want:     "SELECT Id, Name, Account.Name FROM Contact WHERE Account.Name = 'Acme'",
		},
	})
}

func TestFieldSelection_NestPolicy(t *testing.T) {
	runScenarios(t, []scenario{
		{
			name:     "child named first becomes a subquery",
			question: "contacts of accounts where name is 'Acme'",
			want:     "SELECT Id, Name, (SELECT Id, Name FROM Contacts) FROM Account WHERE Name = 'Acme'",
		},
	}, resolve.WithPolicy(resolve.PolicyNest))
}

func TestFieldSelection_UnknownField(t *testing.T) {
	got, ctx := generate(t, "show the title and foo of contacts")

	assert.Equal(t, "SELECT Title FROM Contact", got)
	diags := ctx.Diags.Items()
	require.Len(t, diags, 1)
	assert.Equal(t, ir.CodeUnknownField, diags[0].Code)
	assert.Equal(t, "foo", diags[0].Subject)
}

func TestFieldSelection_AllFields(t *testing.T) {
	ctx := prepare(t, "show all fields of leads")
	FieldSelection{}.Apply(ctx)

	lead, err := ctx.Graph().LookupObject("Lead")
	require.NoError(t, err)
	assert.Equal(t, lead.FieldNames(), ctx.Root.Fields)
}

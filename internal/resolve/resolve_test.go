package resolve

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/soqlgen/internal/intent"
	"github.com/roach88/soqlgen/internal/ir"
	"github.com/roach88/soqlgen/internal/queryir"
	"github.com/roach88/soqlgen/internal/schema"
)

// shape flattens a tree into "depth:relationship:object" lines.
func shape(root *queryir.Node) []string {
	var out []string
	root.Walk(func(n *queryir.Node, depth int) bool {
		out = append(out, fmt.Sprintf("%d:%s:%s", depth, n.Relationship, n.Object))
		return true
	})
	return out
}

func lookups(res *Resolution) []string {
	var out []string
	for _, l := range res.Lookups {
		out = append(out, l.Prefix+"->"+l.Object)
	}
	return out
}

func TestResolve(t *testing.T) {
	g := schema.Sample()

	tests := []struct {
		name    string
		in      intent.Intent
		opts    []Option
		kind    Kind
		shape   []string
		lookups []string
	}{
		{
			name:  "single object",
			in:    intent.Intent{Primary: "Account"},
			kind:  NoRelationship,
			shape: []string{"0::Account"},
		},
		{
			name:  "parent named first",
			in:    intent.Intent{Primary: "Account", Related: []string{"Contact"}, Hint: intent.ParentToChild},
			kind:  DirectParentToChild,
			shape: []string{"0::Account", "1:Contacts:Contact"},
		},
		{
			name:    "child named first",
			in:      intent.Intent{Primary: "Contact", Related: []string{"Account"}, Hint: intent.ChildToParent},
			kind:    DirectChildToParent,
			shape:   []string{"0::Contact"},
			lookups: []string{"Account->Account"},
		},
		{
			name:  "child named first under nest policy",
			in:    intent.Intent{Primary: "Contact", Related: []string{"Account"}, Hint: intent.ChildToParent},
			opts:  []Option{WithPolicy(PolicyNest)},
			kind:  BidirectionalConversion,
			shape: []string{"0::Account", "1:Contacts:Contact"},
		},
		{
			name:    "parent named first under dot policy",
			in:      intent.Intent{Primary: "Account", Related: []string{"Contact"}, Hint: intent.ParentToChild},
			opts:    []Option{WithPolicy(PolicyDot)},
			kind:    DirectChildToParent,
			shape:   []string{"0::Contact"},
			lookups: []string{"Account->Account"},
		},
		{
			name:  "child-to-parent wording over a parent-to-child edge",
			in:    intent.Intent{Primary: "Account", Related: []string{"Contact"}, Hint: intent.ChildToParent},
			kind:  BidirectionalConversion,
			shape: []string{"0::Account", "1:Contacts:Contact"},
		},
		{
			name: "multi-hop from the child",
			in:   intent.Intent{Primary: "QuoteLineItem", Related: []string{"Account"}, Hint: intent.ChildToParent},
			kind: IndirectMultiHop,
			shape: []string{
				"0::Account",
				"1:Opportunities:Opportunity",
				"2:Quotes:Quote",
				"3:QuoteLineItems:QuoteLineItem",
			},
		},
		{
			name: "multi-hop from the parent",
			in:   intent.Intent{Primary: "Account", Related: []string{"QuoteLineItem"}, Hint: intent.Ambiguous},
			kind: IndirectMultiHop,
			shape: []string{
				"0::Account",
				"1:Opportunities:Opportunity",
				"2:Quotes:Quote",
				"3:QuoteLineItems:QuoteLineItem",
			},
		},
		{
			name:  "two children",
			in:    intent.Intent{Primary: "Account", Related: []string{"Contact", "Opportunity"}, Hint: intent.ParentToChild},
			kind:  DirectParentToChild,
			shape: []string{"0::Account", "1:Contacts:Contact", "1:Opportunities:Opportunity"},
		},
		{
			name:  "chained children",
			in:    intent.Intent{Primary: "Opportunity", Related: []string{"Quote", "QuoteLineItem"}, Hint: intent.ParentToChild},
			kind:  DirectParentToChild,
			shape: []string{"0::Opportunity", "1:Quotes:Quote", "2:QuoteLineItems:QuoteLineItem"},
		},
		{
			name:    "second parent becomes a lookup",
			in:      intent.Intent{Primary: "Contact", Related: []string{"Account", "User"}, Hint: intent.ChildToParent},
			kind:    DirectChildToParent,
			shape:   []string{"0::Contact"},
			lookups: []string{"Account->Account", "Owner->User"},
		},
		{
			name:  "duplicate related object",
			in:    intent.Intent{Primary: "Account", Related: []string{"Contact", "Contact"}, Hint: intent.ParentToChild},
			kind:  DirectParentToChild,
			shape: []string{"0::Account", "1:Contacts:Contact"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			res := New(g, tt.opts...).Resolve(&in)
			require.NotNil(t, res.Root)
			assert.Equal(t, tt.kind, res.Kind)
			assert.Equal(t, tt.shape, shape(res.Root))
			assert.Equal(t, tt.lookups, lookups(res))
			assert.Empty(t, res.Diagnostics)
		})
	}
}

func TestResolve_Unrelated(t *testing.T) {
	res := New(schema.Sample()).Resolve(&intent.Intent{Primary: "Lead", Related: []string{"Case"}})

	assert.Equal(t, NoRelationship, res.Kind)
	assert.Equal(t, []string{"0::Lead"}, shape(res.Root))
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, ir.CodeRelationshipNotFound, res.Diagnostics[0].Code)
	assert.Equal(t, "Case", res.Diagnostics[0].Subject)
}

func TestResolve_TooDeep(t *testing.T) {
	r := New(schema.Sample(), WithMaxHops(2))
	assert.Equal(t, 2, r.MaxHops())

	res := r.Resolve(&intent.Intent{Primary: "QuoteLineItem", Related: []string{"Account"}, Hint: intent.ChildToParent})

	assert.Equal(t, NoRelationship, res.Kind)
	assert.Equal(t, []string{"0::QuoteLineItem"}, shape(res.Root))
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, ir.CodeCyclicOrOverdeep, res.Diagnostics[0].Code)
}

func TestResolve_FromQuestion(t *testing.T) {
	g := schema.Sample()
	e := intent.NewExtractor(intent.NewVocabulary(g))
	r := New(g)

	res := r.Resolve(e.Extract("Show me accounts with their contacts"))
	assert.Equal(t, DirectParentToChild, res.Kind)
	assert.Equal(t, []string{"0::Account", "1:Contacts:Contact"}, shape(res.Root))

	res = r.Resolve(e.Extract("List quote line items of an account."))
	assert.Equal(t, IndirectMultiHop, res.Kind)
	assert.Equal(t, 3, res.Root.Depth())
	require.Len(t, res.Edges, 3)
	assert.Equal(t, "Opportunities", res.Edges[0].Name)
}

func TestResolve_DeterministicTrees(t *testing.T) {
	g := schema.Sample()
	in := &intent.Intent{Primary: "Account", Related: []string{"Contact", "Case", "Opportunity"}, Hint: intent.ParentToChild}

	first := shape(New(g).Resolve(in).Root)
	for range 20 {
		assert.Equal(t, first, shape(New(g).Resolve(in).Root))
	}
}

func TestLookupFor(t *testing.T) {
	res := New(schema.Sample()).Resolve(&intent.Intent{Primary: "Case", Related: []string{"Contact"}, Hint: intent.ChildToParent})

	l, ok := res.LookupFor("contact")
	require.True(t, ok)
	assert.Equal(t, "Contact", l.Prefix)
	assert.Equal(t, "ContactId", l.Edge.ForeignKey)
	assert.Same(t, res.Root, l.Node)

	_, ok = res.LookupFor("Account")
	assert.False(t, ok)
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": PolicySubject, "Subject": PolicySubject, "nest": PolicyNest, " dot ": PolicyDot} {
		got, err := ParsePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParsePolicy("sideways")
	assert.Error(t, err)
}

package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/soqlgen/internal/schema"
)

func newTestExtractor(opts ...Option) *Extractor {
	return NewExtractor(NewVocabulary(schema.Sample()), opts...)
}

func TestExtract_Rules(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		question string
		rule     RuleName
		primary  string
		related  []string
		hint     Direction
	}{
		{
			question: "Show me the ID and name of all accounts.",
			rule:     RuleMentions, primary: "Account", hint: DirectionNone,
		},
		{
			question: "Show me accounts with their contacts",
			rule:     RuleWithTheir, primary: "Account", related: []string{"Contact"}, hint: ParentToChild,
		},
		{
			question: "accounts and their contacts and their cases",
			rule:     RuleWithTheir, primary: "Account", related: []string{"Contact", "Case"}, hint: ParentToChild,
		},
		{
			question: "For each account, list their open cases",
			rule:     RuleForEach, primary: "Account", related: []string{"Case"}, hint: ParentToChild,
		},
		{
			question: "list contacts for each account",
			rule:     RuleForEach, primary: "Account", related: []string{"Contact"}, hint: ParentToChild,
		},
		{
			question: "show opportunities with quotes",
			rule:     RuleVerbWith, primary: "Opportunity", related: []string{"Quote"}, hint: ParentToChild,
		},
		{
			question: "List quote line items of an account.",
			rule:     RuleOf, primary: "QuoteLineItem", related: []string{"Account"}, hint: ChildToParent,
		},
		{
			question: "contacts belonging to accounts in the energy industry",
			rule:     RuleOf, primary: "Contact", related: []string{"Account"}, hint: ChildToParent,
		},
		{
			question: "contacts where account industry is energy",
			rule:     RuleMentions, primary: "Contact", related: []string{"Account"}, hint: Ambiguous,
		},
		{
			question: "contacts where account name is 'Acme'",
			rule:     RuleMentions, primary: "Contact", related: []string{"Account"}, hint: ChildToParent,
		},
		{
			question: "contacts where industry is energy",
			rule:     RuleMentions, primary: "Contact", related: []string{"Account"}, hint: ChildToParent,
		},
		{
			question: "show contacts with their account",
			rule:     RuleWithTheir, primary: "Contact", related: []string{"Account"}, hint: ParentToChild,
		},
		{
			question: "List top 5 opportunities by highest amount.",
			rule:     RuleMentions, primary: "Opportunity", hint: DirectionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			in := e.Extract(tt.question)
			assert.Equal(t, tt.rule, in.Rule)
			assert.Equal(t, tt.primary, in.Primary)
			assert.Equal(t, tt.related, in.Related)
			assert.Equal(t, tt.hint, in.Hint)
			assert.False(t, in.Defaulted)
		})
	}
}

func TestExtract_Deterministic(t *testing.T) {
	e := newTestExtractor()
	first := e.Extract("Show me accounts with their contacts and opportunities")
	for range 10 {
		again := e.Extract("Show me accounts with their contacts and opportunities")
		assert.Equal(t, first.Rule, again.Rule)
		assert.Equal(t, first.Related, again.Related)
	}
	assert.Equal(t, []string{"Contact", "Opportunity"}, first.Related)
}

func TestExtract_Fallback(t *testing.T) {
	in := newTestExtractor().Extract("what happened yesterday")
	assert.Equal(t, RuleFallback, in.Rule)
	assert.Equal(t, "Account", in.Primary)
	assert.True(t, in.Defaulted)

	in = newTestExtractor(WithDefaultObject("lead")).Extract("anything new")
	assert.Equal(t, "Lead", in.Primary)

	in = newTestExtractor(WithDefaultObject("Widget")).Extract("anything new")
	assert.Equal(t, "Account", in.Primary, "unknown default falls back to the first object")
}

func TestExtract_DemotesFieldLikeMentions(t *testing.T) {
	in := newTestExtractor().Extract("leads with company 'Acme'")
	assert.Equal(t, "Lead", in.Primary)
	assert.Empty(t, in.Related)
	require.Len(t, in.FieldMentions, 1)
	assert.Equal(t, "company", in.FieldMentions[0].Form)
	ref, ok := in.FieldMentions[0].Candidate("Lead")
	require.True(t, ok)
	assert.Equal(t, "Company", ref.Field.Name)
}

func TestExtract_FieldPhrase(t *testing.T) {
	e := newTestExtractor()

	in := e.Extract("Show me the ID and name of all accounts.")
	assert.Equal(t, []string{"id", "name"}, in.FieldPhrase)
	assert.Equal(t, "Account", in.FieldTarget)
	assert.False(t, in.AllFields)
	assert.True(t, in.Has(CueFieldList))

	in = e.Extract("list accounts with industry and annual revenue")
	assert.Equal(t, []string{"industry", "annual revenue"}, in.FieldPhrase)
	assert.Equal(t, "Account", in.FieldTarget)

	in = e.Extract("list accounts with annual revenue over 1000000")
	assert.Empty(t, in.FieldPhrase)

	in = e.Extract("show contacts with their account")
	assert.Empty(t, in.FieldPhrase)
	assert.False(t, in.Has(CueFieldList))

	in = e.Extract("show the emial and title of contacts")
	assert.Equal(t, []string{"emial", "title"}, in.FieldPhrase)
	assert.Equal(t, "Contact", in.FieldTarget)
}

func TestExtract_ScopedParentsNeedACondition(t *testing.T) {
	e := newTestExtractor()

	in := e.Extract("show the name and account name of contacts")
	assert.Equal(t, "Contact", in.Primary)
	assert.Empty(t, in.Related)

	in = e.Extract("leads where industry is energy")
	assert.Equal(t, "Lead", in.Primary)
	assert.Empty(t, in.Related)
	assert.Equal(t, DirectionNone, in.Hint)
}

func TestExtract_AllFields(t *testing.T) {
	e := newTestExtractor()
	assert.True(t, e.Extract("show me all accounts").AllFields)
	assert.True(t, e.Extract("get all fields of contacts").AllFields)
	assert.True(t, e.Extract("list cases with all columns").AllFields)
	assert.False(t, e.Extract("show me all accounts created today").AllFields)
	assert.False(t, e.Extract("show accounts").AllFields)
}

func TestExtract_Mentions(t *testing.T) {
	in := newTestExtractor().Extract("cases sorted in descending order of case number")
	require.Len(t, in.Mentions, 1)
	assert.Equal(t, "Case", in.Mentions[0].Object)

	require.Len(t, in.FieldMentions, 1)
	assert.Equal(t, "case number", in.FieldMentions[0].Form)
}

func TestExtract_FieldPrefix(t *testing.T) {
	in := newTestExtractor().Extract("contacts where account industry is energy")
	require.Len(t, in.FieldMentions, 1)
	assert.Equal(t, "Account", in.FieldMentions[0].Prefix)
}

func TestExtract_Cues(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		question string
		has      []CueKind
		hasNot   []CueKind
	}{
		{
			question: "Show me the ID and name of all accounts.",
			has:      []CueKind{CueFieldList},
			hasNot:   []CueKind{CueFilter, CueDate, CueAggregate, CueSort, CueModifier},
		},
		{
			question: "Count accounts by industry.",
			has:      []CueKind{CueAggregate},
			hasNot:   []CueKind{CueFilter, CueDate, CueSort},
		},
		{
			question: "Show accounts created today.",
			has:      []CueKind{CueDate},
			hasNot:   []CueKind{CueFilter, CueAggregate, CueSort},
		},
		{
			question: "List top 5 opportunities by highest amount.",
			has:      []CueKind{CueSort},
			hasNot:   []CueKind{CueFilter, CueDate, CueAggregate},
		},
		{
			question: "closed opportunities for update",
			has:      []CueKind{CueBoolean, CueModifier},
		},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			in := e.Extract(tt.question)
			for _, k := range tt.has {
				assert.True(t, in.Has(k), "expected cue %s", k)
			}
			for _, k := range tt.hasNot {
				assert.False(t, in.Has(k), "unexpected cue %s", k)
			}
		})
	}
}

func TestIntent_TokenHelpers(t *testing.T) {
	in := newTestExtractor().Extract("accounts created in the last 30 days")
	require.Len(t, in.Dates, 1)

	i := in.TokenAt(in.Dates[0].Start)
	assert.Equal(t, "last", in.Word(i))
	assert.True(t, in.InDate(i))
	assert.False(t, in.InDate(0))
	assert.Equal(t, "", in.Word(100))

	m, ok := in.MentionAt(0)
	require.True(t, ok)
	assert.Equal(t, "Account", m.Object)
}

package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/soqlgen/internal/schema"
)

func TestSpaced(t *testing.T) {
	tests := map[string]string{
		"QuoteLineItem": "quote line item",
		"AnnualRevenue": "annual revenue",
		"Product2Id":    "product id",
		"Region__c":     "region",
		"Id":            "id",
	}
	for in, want := range tests {
		assert.Equal(t, want, Spaced(in), in)
	}
}

func TestVocabulary_ObjectForms(t *testing.T) {
	v := NewVocabulary(schema.Sample())

	tests := map[string]string{
		"account":          "Account",
		"accounts":         "Account",
		"companies":        "Account",
		"quote line items": "QuoteLineItem",
		"quotelineitem":    "QuoteLineItem",
		"product":          "Product2",
		"products":         "Product2",
		"people":           "Contact",
		"deals":            "Opportunity",
		"opportunities":    "Opportunity",
	}
	for form, want := range tests {
		got, ok := v.Object(form)
		require.True(t, ok, form)
		assert.Equal(t, want, got, form)
	}

	_, ok := v.Object("widget")
	assert.False(t, ok)
	_, ok = v.Object("who")
	assert.False(t, ok)
}

func TestVocabulary_FieldForms(t *testing.T) {
	v := NewVocabulary(schema.Sample())

	refs := v.Fields("annual revenue")
	require.Len(t, refs, 2)
	assert.Equal(t, "Account", refs[0].Object)
	assert.Equal(t, "Lead", refs[1].Object)

	f, ok := v.Field("Contact", "account")
	require.True(t, ok)
	assert.Equal(t, "AccountId", f.Name)

	f, ok = v.Field("Opportunity", "stage")
	require.True(t, ok)
	assert.Equal(t, "StageName", f.Name)

	f, ok = v.Field("Account", "industries")
	require.True(t, ok)
	assert.Equal(t, "Industry", f.Name)

	_, ok = v.Field("Account", "email")
	assert.False(t, ok)

	assert.Contains(t, v.FieldForms("Case"), "case number")
	assert.GreaterOrEqual(t, v.MaxWords(), 3)
}

func TestVocabulary_BooleanAdjective(t *testing.T) {
	v := NewVocabulary(schema.Sample())

	tests := []struct {
		object string
		word   string
		field  string
		value  bool
	}{
		{object: "Opportunity", word: "closed", field: "IsClosed", value: true},
		{object: "Opportunity", word: "open", field: "IsClosed", value: false},
		{object: "Opportunity", word: "won", field: "IsWon", value: true},
		{object: "User", word: "inactive", field: "IsActive", value: false},
		{object: "Lead", word: "unconverted", field: "IsConverted", value: false},
		{object: "Lead", word: "non-converted", field: "IsConverted", value: false},
	}
	for _, tt := range tests {
		field, value, ok := v.BooleanAdjective(tt.object, tt.word)
		require.True(t, ok, tt.word)
		assert.Equal(t, tt.field, field, tt.word)
		assert.Equal(t, tt.value, value, tt.word)
	}

	_, _, ok := v.BooleanAdjective("Account", "open")
	assert.False(t, ok)
}

package engine

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/soqlgen/internal/clause"
	"github.com/roach88/soqlgen/internal/intent"
	"github.com/roach88/soqlgen/internal/ir"
	"github.com/roach88/soqlgen/internal/resolve"
	"github.com/roach88/soqlgen/internal/schema"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(opts ...Option) *Engine {
	return New(schema.Sample(), append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func widgetGraph(t *testing.T) *schema.Graph {
	t.Helper()
	g, err := schema.NewBuilder().AddObject(schema.Object{
		Name:          "Widget",
		DefaultFields: []string{"Id", "Name"},
		Fields: []schema.Field{
			{Name: "Id", Type: schema.TypeString},
			{Name: "Name", Type: schema.TypeString},
		},
	}).Build()
	require.NoError(t, err)
	return g
}

func TestGenerate(t *testing.T) {
	e := newTestEngine(WithIDGenerator(NewFixedGenerator("req-1")))

	res, err := e.Generate("Count accounts by industry.")
	require.NoError(t, err)

	assert.Equal(t, "req-1", res.RequestID)
	assert.Equal(t, int64(1), res.Seq)
	assert.Equal(t, "Count accounts by industry.", res.Question)
	assert.Equal(t, "Count accounts by industry", res.Normalized)
	assert.Equal(t, "SELECT Industry, COUNT(Id) FROM Account GROUP BY Industry", res.Query)
	assert.Equal(t, "Account", res.Object)
	assert.Equal(t, string(intent.RuleMentions), res.Rule)
	assert.Equal(t, resolve.NoRelationship, res.Resolution)
	assert.Equal(t, clause.Fields|clause.Aggregation, res.Capabilities)
	assert.Empty(t, res.Diagnostics)
	require.NotNil(t, res.Tree)
	require.NotNil(t, res.Tree.GroupBy)
	assert.Equal(t, []string{"Industry"}, res.Tree.GroupBy.Fields)
	assert.Len(t, res.Fingerprint, 64)
}

func TestGenerate_ReferenceQuestions(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		question string
		want     string
		kind     resolve.Kind
	}{
		{"Show me the ID and name of all accounts.", "SELECT Id, Name FROM Account", resolve.NoRelationship},
		{"Show me accounts with their contacts", "SELECT Id, Name, (SELECT Id, Name FROM Contacts) FROM Account", resolve.DirectParentToChild},
		{"List top 5 opportunities by highest amount.", "SELECT Id, Name FROM Opportunity ORDER BY Amount DESC LIMIT 5", resolve.NoRelationship},
		{"Show accounts created today.", "SELECT Id, Name FROM Account WHERE CreatedDate = TODAY", resolve.NoRelationship},
		{
			"List quote line items of an account.",
			"SELECT Id, Name, (SELECT Id, Name, (SELECT Id, Name, " +
				"(SELECT Id, Quantity, UnitPrice FROM QuoteLineItems) FROM Quotes) FROM Opportunities) FROM Account",
			resolve.IndirectMultiHop,
		},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			res, err := e.Generate(tt.question)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Query)
			assert.Equal(t, tt.kind, res.Resolution)
			assert.Empty(t, res.Diagnostics)
		})
	}
}

func TestGenerate_UnrecognizedObject(t *testing.T) {
	res, err := newTestEngine().Generate("anything new")
	require.NoError(t, err)

	assert.Equal(t, "Account", res.Object)
	assert.Equal(t, string(intent.RuleFallback), res.Rule)
	require.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, ir.CodeUnrecognizedObject, res.Diagnostics[0].Code)
	assert.Equal(t, "Account", res.Diagnostics[0].Subject)

	res, err = newTestEngine(WithDefaultObject("Contact")).Generate("anything new")
	require.NoError(t, err)
	assert.Equal(t, "Contact", res.Object)
}

func TestGenerate_UnrelatedObjects(t *testing.T) {
	res, err := newTestEngine().Generate("leads and cases")
	require.NoError(t, err)

	assert.Equal(t, "SELECT Id, Name FROM Lead", res.Query)
	assert.Equal(t, []string{string(ir.CodeRelationshipNotFound)}, ir.Codes(res.Diagnostics))
	assert.Equal(t, "Case", res.Diagnostics[0].Subject)
}

func TestGenerate_DefaultQuantity(t *testing.T) {
	res, err := newTestEngine(WithDefaultQuantity(3)).Generate("accounts created in the last 2.5 days")
	require.NoError(t, err)

	assert.Equal(t, "SELECT Id, Name FROM Account WHERE CreatedDate = LAST_N_DAYS:3", res.Query)
	assert.Equal(t, []string{string(ir.CodeMalformedNumericLiteral)}, ir.Codes(res.Diagnostics))
}

func TestGenerate_ConversionPolicy(t *testing.T) {
	res, err := newTestEngine(WithConversionPolicy(resolve.PolicyNest)).Generate("contacts of accounts")
	require.NoError(t, err)

	assert.Equal(t, resolve.BidirectionalConversion, res.Resolution)
	assert.Equal(t, "SELECT Id, Name, (SELECT Id, Name FROM Contacts) FROM Account", res.Query)
}

func TestGenerate_ConversionMovesParentConditions(t *testing.T) {
	nest := newTestEngine(WithConversionPolicy(resolve.PolicyNest))

	tests := []struct {
		question string
		nested   string
		lookup   string
	}{
		{
			question: "show opportunities for accounts in the technology industry",
			nested:   "SELECT Id, Name, (SELECT Id, Name FROM Opportunities) FROM Account WHERE Industry = 'Technology'",
			lookup:   "SELECT Id, Name, Account.Name FROM Opportunity WHERE Account.Industry = 'Technology'",
		},
		{
			question: "contacts where account name is 'Acme'",
			nested:   "SELECT Id, Name, (SELECT Id, Name FROM Contacts) FROM Account WHERE Name = 'Acme'",
			lookup:   "SELECT Id, Name, Account.Name FROM Contact WHERE Account.Name = 'Acme'",
		},
		{
			question: "contacts where industry is energy",
			nested:   "SELECT Id, Name, (SELECT Id, Name FROM Contacts) FROM Account WHERE Industry = 'Energy'",
			lookup:   "SELECT Id, Name, Account.Name FROM Contact WHERE Account.Industry = 'Energy'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			res, err := nest.Generate(tt.question)
			require.NoError(t, err)
			assert.Equal(t, tt.nested, res.Query)
			assert.Equal(t, resolve.BidirectionalConversion, res.Resolution)
			assert.NotContains(t, res.Query, "Account.")
			assert.Empty(t, res.Diagnostics)

			res, err = newTestEngine().Generate(tt.question)
			require.NoError(t, err)
			assert.Equal(t, tt.lookup, res.Query)
			assert.Equal(t, resolve.DirectChildToParent, res.Resolution)
		})
	}
}

func TestGenerate_RelatedParentIsNotAField(t *testing.T) {
	res, err := newTestEngine().Generate("show contacts with their account")
	require.NoError(t, err)
	assert.Equal(t, "SELECT Id, Name, Account.Name FROM Contact", res.Query)
	assert.Equal(t, resolve.DirectChildToParent, res.Resolution)
	assert.Empty(t, res.Diagnostics)

	res, err = newTestEngine(WithConversionPolicy(resolve.PolicyNest)).Generate("show contacts with their account")
	require.NoError(t, err)
	assert.Equal(t, "SELECT Id, Name, (SELECT Id, Name FROM Contacts) FROM Account", res.Query)
}

func TestGenerate_MaxHops(t *testing.T) {
	res, err := newTestEngine(WithMaxHops(2)).Generate("List quote line items of an account.")
	require.NoError(t, err)

	assert.Equal(t, "QuoteLineItem", res.Object)
	assert.Equal(t, resolve.NoRelationship, res.Resolution)
	assert.Contains(t, ir.Codes(res.Diagnostics), string(ir.CodeCyclicOrOverdeep))
}

func TestGenerate_Deterministic(t *testing.T) {
	const question = "accounts where industry is energy or technology sorted by name"

	first, err := newTestEngine().Generate(question)
	require.NoError(t, err)
	for range 5 {
		again, err := newTestEngine().Generate(question)
		require.NoError(t, err)
		assert.Equal(t, first.Query, again.Query)
		assert.Equal(t, first.Fingerprint, again.Fingerprint)
		assert.Equal(t, first.Diagnostics, again.Diagnostics)
	}
}

func TestGenerate_Sequence(t *testing.T) {
	e := newTestEngine(WithClock(NewClockAt(41)), WithIDGenerator(NewFixedGenerator("a", "b")))

	first, err := e.Generate("show accounts")
	require.NoError(t, err)
	second, err := e.Generate("show contacts")
	require.NoError(t, err)

	assert.Equal(t, int64(42), first.Seq)
	assert.Equal(t, "a", first.RequestID)
	assert.Equal(t, int64(43), second.Seq)
	assert.Equal(t, "b", second.RequestID)
}

func TestGenerate_Concurrent(t *testing.T) {
	e := newTestEngine()
	questions := []string{
		"Show me accounts with their contacts",
		"Count accounts by industry.",
		"Show accounts created today.",
		"List top 5 opportunities by highest amount.",
	}

	want := make(map[string]string, len(questions))
	for _, q := range questions {
		res, err := e.Generate(q)
		require.NoError(t, err)
		want[q] = res.Query
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seqs = make(map[int64]bool)
		ids  = make(map[string]bool)
	)
	for i := range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q := questions[i%len(questions)]
			res, err := e.Generate(q)
			assert.NoError(t, err)
			assert.Equal(t, want[q], res.Query)

			mu.Lock()
			defer mu.Unlock()
			seqs[res.Seq] = true
			ids[res.RequestID] = true
		}()
	}
	wg.Wait()

	assert.Len(t, seqs, 40)
	assert.Len(t, ids, 40)
}

func TestReload(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Reload(widgetGraph(t)))

	res, err := e.Generate("show widgets")
	require.NoError(t, err)
	assert.Equal(t, "SELECT Id, Name FROM Widget", res.Query)
	assert.Equal(t, "Widget", e.Graph().Objects()[0].Name)

	// Account is gone; the fallback is the first object of the new schema.
	res, err = e.Generate("show accounts")
	require.NoError(t, err)
	assert.Equal(t, "Widget", res.Object)

	assert.Error(t, e.Reload(nil))
	assert.Equal(t, "Widget", e.Graph().Objects()[0].Name)
}

func TestReload_Snapshot(t *testing.T) {
	snap := schema.NewSnapshot(schema.Sample())
	e := NewWithSnapshot(snap, WithLogger(quietLogger()))

	res, err := e.Generate("show accounts")
	require.NoError(t, err)
	assert.Equal(t, "Account", res.Object)

	require.NoError(t, snap.Store(widgetGraph(t)))
	res, err = e.Generate("show widgets")
	require.NoError(t, err)
	assert.Equal(t, "Widget", res.Object)
}

func TestGenerate_EmptySchema(t *testing.T) {
	e := New(nil, WithLogger(quietLogger()), WithIDGenerator(NewFixedGenerator("req-1")))

	_, err := e.Generate("show accounts")
	require.Error(t, err)
	assert.True(t, IsEmptySchema(err))
	assert.False(t, IsRenderError(err))
	assert.Contains(t, err.Error(), "request=req-1")
}

// addField selects a field the object may not have.
type addField struct{ field string }

func (addField) Name() string                  { return "add-field" }
func (addField) Capability() clause.Capability { return clause.Fields }
func (addField) CanHandle(*intent.Intent) bool { return true }
func (b addField) Apply(ctx *clause.Context)   { ctx.Root.AddFields(b.field) }

// clearFields leaves the root selecting nothing.
type clearFields struct{}

func (clearFields) Name() string                  { return "clear-fields" }
func (clearFields) Capability() clause.Capability { return clause.Sorting }
func (clearFields) CanHandle(*intent.Intent) bool { return true }
func (clearFields) Apply(ctx *clause.Context)     { ctx.Root.Fields = nil }

func TestGenerate_StructuralWarning(t *testing.T) {
	pipeline := clause.NewPipeline(clause.FieldSelection{}, addField{field: "Nope"})
	res, err := newTestEngine(WithPipeline(pipeline)).Generate("show accounts")
	require.NoError(t, err)

	assert.Equal(t, "SELECT Id, Name, Nope FROM Account", res.Query)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, ir.CodeStructuralWarning, res.Diagnostics[0].Code)
	assert.Equal(t, "Account", res.Diagnostics[0].Subject)
}

func TestGenerate_RenderFallback(t *testing.T) {
	pipeline := clause.NewPipeline(clause.FieldSelection{}, clearFields{})
	res, err := newTestEngine(WithPipeline(pipeline)).Generate("show accounts")
	require.NoError(t, err)

	assert.Equal(t, "SELECT Id, Name FROM Account", res.Query)
	assert.Equal(t, clause.Fields|clause.Sorting, res.Capabilities)
	for _, d := range res.Diagnostics {
		assert.Equal(t, ir.CodeStructuralWarning, d.Code)
	}
	assert.Len(t, res.Diagnostics, 2)
}

func TestError(t *testing.T) {
	cause := assert.AnError
	err := &Error{Code: ErrCodeRender, Message: "cannot render", RequestID: "r", Err: cause}

	assert.Equal(t, "RENDER_FAILED: cannot render (request=r): "+cause.Error(), err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsRenderError(err))
	assert.False(t, IsEmptySchema(err))
}

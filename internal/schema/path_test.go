package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPathMultiHop(t *testing.T) {
	g := Sample()

	path, err := g.FindPath("Account", "QuoteLineItem", DefaultMaxHops)
	require.NoError(t, err)
	assert.Equal(t, []string{"Opportunities", "Quotes", "QuoteLineItems"}, relationshipNames(path))
	assert.Equal(t, "Account", path[0].Parent)
	assert.Equal(t, "QuoteLineItem", path[2].Child)
}

func TestFindPathDirect(t *testing.T) {
	g := Sample()

	path, err := g.FindPath("account", "contact", 0)
	require.NoError(t, err)
	require.Len(t, path, 1)
	assert.Equal(t, "Contacts", path[0].Name)
}

func TestFindPathIsDirected(t *testing.T) {
	g := Sample()

	_, err := g.FindPath("QuoteLineItem", "Account", DefaultMaxHops)
	require.Error(t, err)
	assert.True(t, IsPathNotFound(err))
	assert.False(t, IsPathTooDeep(err))
}

func TestFindPathTooDeep(t *testing.T) {
	g := Sample()

	_, err := g.FindPath("Account", "QuoteLineItem", 2)
	require.Error(t, err)
	assert.True(t, IsPathTooDeep(err))

	var pe *PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 3, pe.Hops)
	assert.Equal(t, 2, pe.MaxHops)
}

func TestFindPathSelfRelationship(t *testing.T) {
	g := Sample()

	path, err := g.FindPath("Account", "Account", DefaultMaxHops)
	require.NoError(t, err)
	assert.Equal(t, []string{"ChildAccounts"}, relationshipNames(path))
}

func TestFindPathTieBreakByRegistration(t *testing.T) {
	// Two equal-length routes from Root to Leaf; the one through the
	// earlier-registered edge wins.
	g, err := NewBuilder().
		AddObject(Object{Name: "Root", Fields: []Field{{Name: "Id", Type: TypeString}}}).
		AddObject(Object{Name: "Left", Fields: []Field{
			{Name: "Id", Type: TypeString},
			{Name: "RootId", Type: TypeReference, ReferenceTo: "Root"},
		}}).
		AddObject(Object{Name: "Right", Fields: []Field{
			{Name: "Id", Type: TypeString},
			{Name: "RootId", Type: TypeReference, ReferenceTo: "Root"},
		}}).
		AddObject(Object{Name: "Leaf", Fields: []Field{
			{Name: "Id", Type: TypeString},
			{Name: "RightId", Type: TypeReference, ReferenceTo: "Right"},
			{Name: "LeftId", Type: TypeReference, ReferenceTo: "Left"},
		}}).
		Build()
	require.NoError(t, err)

	for range 10 {
		path, err := g.FindPath("Root", "Leaf", DefaultMaxHops)
		require.NoError(t, err)
		assert.Equal(t, []string{"Lefts", "Leafs"}, relationshipNames(path))
		assert.Equal(t, "LeftId", path[1].ForeignKey)
	}
}

func TestFindPathUnknownObject(t *testing.T) {
	g := Sample()
	_, err := g.FindPath("Account", "Widget", DefaultMaxHops)
	require.ErrorIs(t, err, ErrObjectNotFound)
}

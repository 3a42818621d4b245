package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDates(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		check func(t *testing.T, d DatePhrase)
	}{
		{
			name: "named day",
			text: "accounts created today",
			check: func(t *testing.T, d DatePhrase) {
				assert.Equal(t, "today", d.Day)
				assert.Equal(t, "today", d.Text)
				assert.Equal(t, d.Start, d.Anchor)
			},
		},
		{
			name: "last n days",
			text: "accounts created in the last 30 days",
			check: func(t *testing.T, d DatePhrase) {
				assert.True(t, d.Counted)
				assert.Equal(t, "last", d.Relative)
				assert.Equal(t, Day, d.Unit)
				assert.Equal(t, Quantity{N: 30, OK: true}, d.Count)
			},
		},
		{
			name: "number word",
			text: "cases closed in the past three weeks",
			check: func(t *testing.T, d DatePhrase) {
				assert.Equal(t, Week, d.Unit)
				assert.Equal(t, 3, d.Count.N)
			},
		},
		{
			name: "ago",
			text: "leads created 10 days ago",
			check: func(t *testing.T, d DatePhrase) {
				assert.Equal(t, "ago", d.Relative)
				assert.Equal(t, 10, d.Count.N)
			},
		},
		{
			name: "fiscal count",
			text: "opportunities closed in the last 2 fiscal quarters",
			check: func(t *testing.T, d DatePhrase) {
				assert.True(t, d.Fiscal)
				assert.Equal(t, Quarter, d.Unit)
				assert.Equal(t, 2, d.Count.N)
			},
		},
		{
			name: "single fiscal period",
			text: "opportunities closing this fiscal year",
			check: func(t *testing.T, d DatePhrase) {
				assert.False(t, d.Counted)
				assert.True(t, d.Fiscal)
				assert.Equal(t, "this", d.Relative)
				assert.Equal(t, Year, d.Unit)
			},
		},
		{
			name: "comparator",
			text: "opportunities closing before next quarter",
			check: func(t *testing.T, d DatePhrase) {
				assert.Equal(t, "before", d.Comparator)
				assert.Equal(t, "next", d.Relative)
				assert.Equal(t, Quarter, d.Unit)
				assert.Less(t, d.Anchor, d.Start)
			},
		},
		{
			name: "since",
			text: "contacts modified since last month",
			check: func(t *testing.T, d DatePhrase) {
				assert.Equal(t, "on or after", d.Comparator)
				assert.Equal(t, "last", d.Relative)
				assert.Equal(t, Month, d.Unit)
			},
		},
		{
			name: "calendar date",
			text: "accounts created after 2024-01-15",
			check: func(t *testing.T, d DatePhrase) {
				assert.Equal(t, "2024-01-15", d.Date)
				assert.Equal(t, "after", d.Comparator)
			},
		},
		{
			name: "malformed count",
			text: "leads created in the last few days",
			check: func(t *testing.T, d DatePhrase) {
				assert.True(t, d.Counted)
				assert.True(t, d.Count.Malformed)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := findDates(tt.text)
			require.Len(t, dates, 1)
			tt.check(t, dates[0])
		})
	}
}

func TestFindDates_NoOverlap(t *testing.T) {
	dates := findDates("cases created last year or in the last 5 years")
	require.Len(t, dates, 2)
	assert.Equal(t, "last year", dates[0].Text)
	assert.Equal(t, "last 5 years", dates[1].Text)
}

func TestFindDates_NotALimit(t *testing.T) {
	assert.Empty(t, findDates("last 5 opportunities by amount"))
}

func TestFindModifiers(t *testing.T) {
	mods := findModifiers("accounts with security enforced including deleted for update")
	kinds := make([]ModifierKind, len(mods))
	for i, m := range mods {
		kinds[i] = m.Kind
	}
	assert.Equal(t, []ModifierKind{SecurityEnforced, AllRows, ForUpdate}, kinds)

	assert.Empty(t, findModifiers("accounts with their contacts"))
	mods = findModifiers("cases without sharing")
	require.Len(t, mods, 1)
	assert.Equal(t, SystemMode, mods[0].Kind)
}

package clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/soqlgen/internal/intent"
	"github.com/roach88/soqlgen/internal/ir"
)

func TestReadNumber(t *testing.T) {
	tests := []struct {
		text     string
		wantText string
		wantInt  bool
		wantNext int
	}{
		{"1500", "1500", true, 1},
		{"10k", "10000", true, 1},
		{"1.5 million", "1500000", true, 2},
		{"2 billion dollars", "2000000000", true, 3},
		{"$2500.75", "2500.75", false, 1},
		{"0.25", "0.25", false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			lit, next, ok := readNumber(intent.Tokenize(tt.text), 0)
			require.True(t, ok)
			assert.Equal(t, tt.wantText, lit.text)
			assert.Equal(t, tt.wantNext, next)
			_, isInt := lit.value.(ir.Int)
			assert.Equal(t, tt.wantInt, isInt)
			assert.True(t, lit.orderable())
		})
	}
}

func TestReadNumber_NotANumber(t *testing.T) {
	for _, text := range []string{"energy", "10x", "$"} {
		_, _, ok := readNumber(intent.Tokenize(text), 0)
		assert.False(t, ok, text)
	}
}

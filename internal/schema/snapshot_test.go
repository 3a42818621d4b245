package schema

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Swap(t *testing.T) {
	first := Sample()
	snap := NewSnapshot(first)
	assert.Same(t, first, snap.Load())

	second, err := NewBuilder().AddObject(Object{
		Name:   "Widget",
		Fields: []Field{{Name: "Id", Type: TypeString}},
	}).Build()
	require.NoError(t, err)

	require.NoError(t, snap.Store(second))
	assert.Same(t, second, snap.Load())
	require.Error(t, snap.Store(nil))
	assert.Same(t, second, snap.Load())
}

func TestSnapshot_ConcurrentReaders(t *testing.T) {
	snap := NewSnapshot(Sample())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				g := snap.Load()
				assert.True(t, g.HasObject("Account"))
			}
		}()
	}
	for range 10 {
		require.NoError(t, snap.Store(Sample()))
	}
	wg.Wait()
}

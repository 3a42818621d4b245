package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Files(t *testing.T) {
	for _, path := range []string{"testdata/support.cue", "testdata/support.yaml"} {
		t.Run(path, func(t *testing.T) {
			g, err := Load(path)
			require.NoError(t, err)
			assert.True(t, g.HasObject("Ticket"))
			assert.Equal(t, "People", g.Plural("Person"))
		})
	}
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	src, err := os.ReadFile("testdata/support.cue")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "support.cue"), src, 0o644))

	g, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, g.HasObject("Account"))
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.cue"))
	assert.Error(t, err)

	_, err = Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no CUE files")

	txt := filepath.Join(dir, "schema.txt")
	require.NoError(t, os.WriteFile(txt, []byte("objects: []"), 0o644))
	_, err = Load(txt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("objects:\n  - name: A\n    colour: red\n"), 0o644))
	_, err = Load(bad)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "yaml", ce.Field)
}

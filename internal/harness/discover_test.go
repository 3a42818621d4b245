package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSuites(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("name: x\n"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))
	extra := filepath.Join(dir, "b.yaml")

	paths, err := FindSuites([]string{dir, extra})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
	}, paths)
}

func TestFindSuites_Missing(t *testing.T) {
	_, err := FindSuites([]string{"testdata/scenarios/missing.yaml"})

	var nf *SuiteNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "testdata/scenarios/missing.yaml", nf.Path)
}

func TestFindSuites_Testdata(t *testing.T) {
	paths, err := FindSuites([]string{"testdata/scenarios"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "scenarios", "reference.yaml"),
		filepath.Join("testdata", "scenarios", "support.yaml"),
	}, paths)
}

package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/soqlgen/internal/store"
)

// newTestOptions returns root options with default configuration, a
// history database under t.TempDir() and a discarding logger.
func newTestOptions(t *testing.T, format string) *RootOptions {
	t.Helper()
	cfg := DefaultConfig()
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")
	return &RootOptions{
		Format: format,
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// seedHistory writes generations straight into the history database.
func seedHistory(t *testing.T, path string, gens ...store.Generation) {
	t.Helper()
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	for _, g := range gens {
		if g.Normalized == "" {
			g.Normalized = g.Question
		}
		if g.Fingerprint == "" {
			g.Fingerprint = "fp-" + g.ID
		}
		if g.EngineVersion == "" {
			g.EngineVersion = "0.0.1"
		}
		if g.CreatedAt == "" {
			g.CreatedAt = "2026-01-02T03:04:05Z"
		}
		_, err := st.Write(context.Background(), g)
		require.NoError(t, err)
	}
}

package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/soqlgen/internal/ir"
	"github.com/roach88/soqlgen/internal/store"
)

func TestHistoryList(t *testing.T) {
	root := newTestOptions(t, "text")
	seedHistory(t, root.Config.History.Path,
		store.Generation{ID: "a", Seq: 1, Question: "show accounts", Query: "SELECT Id, Name FROM Account", Object: "Account"},
		store.Generation{ID: "b", Seq: 2, Question: "show contacts", Query: "SELECT Id, Name FROM Contact", Object: "Contact"},
	)

	out, err := execute(t, NewHistoryCommand(root), "list")
	require.NoError(t, err)
	assert.Equal(t,
		"     2  b  Contact        SELECT Id, Name FROM Contact\n"+
			"     1  a  Account        SELECT Id, Name FROM Account\n",
		out)
}

func TestHistoryListEmpty(t *testing.T) {
	root := newTestOptions(t, "text")
	seedHistory(t, root.Config.History.Path)

	out, err := execute(t, NewHistoryCommand(root), "list")
	require.NoError(t, err)
	assert.Equal(t, "No generations recorded.\n", out)
}

func TestHistoryMissingDatabase(t *testing.T) {
	root := newTestOptions(t, "json")

	out, err := execute(t, NewHistoryCommand(root), "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeHistory, resp.Error.Code)
}

func TestHistoryShow(t *testing.T) {
	root := newTestOptions(t, "text")
	seedHistory(t, root.Config.History.Path, store.Generation{
		ID:           "a",
		Seq:          1,
		Question:     "leads and cases",
		Query:        "SELECT Id, Name FROM Lead",
		Object:       "Lead",
		Rule:         "mentions",
		Resolution:   "none",
		Capabilities: "fields",
		Diagnostics: []ir.Diagnostic{
			{Code: ir.CodeRelationshipNotFound, Message: "no relationship between Lead and Case", Subject: "Case"},
		},
	})

	out, err := execute(t, NewHistoryCommand(root), "show", "a")
	require.NoError(t, err)
	assert.Contains(t, out, "id:           a\n")
	assert.Contains(t, out, "query:        SELECT Id, Name FROM Lead\n")
	assert.Contains(t, out, "rule:         mentions\n")
	assert.Contains(t, out, "diagnostics:\n  RELATIONSHIP_NOT_FOUND: no relationship between Lead and Case (Case)\n")
}

func TestHistoryShowNotFound(t *testing.T) {
	root := newTestOptions(t, "text")
	seedHistory(t, root.Config.History.Path)

	out, err := execute(t, NewHistoryCommand(root), "show", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "generation not found: nope")
}

func TestHistoryStats(t *testing.T) {
	root := newTestOptions(t, "json")
	seedHistory(t, root.Config.History.Path,
		store.Generation{ID: "a", Seq: 1, Question: "show accounts", Query: "SELECT Id, Name FROM Account", Object: "Account"},
		store.Generation{ID: "b", Seq: 2, Question: "show contacts", Query: "SELECT Id, Name FROM Contact", Object: "Contact"},
		store.Generation{ID: "c", Seq: 3, Question: "list contacts", Query: "SELECT Id, Name FROM Contact", Object: "Contact"},
	)

	out, err := execute(t, NewHistoryCommand(root), "stats")
	require.NoError(t, err)

	var resp struct {
		Data []ObjectCountOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []ObjectCountOutput{
		{Object: "Contact", Count: 2},
		{Object: "Account", Count: 1},
	}, resp.Data)
}

func TestHistoryDatabaseFlag(t *testing.T) {
	root := newTestOptions(t, "text")
	other := t.TempDir() + "/other.db"
	seedHistory(t, other, store.Generation{ID: "x", Seq: 7, Question: "show leads", Query: "SELECT Id, Name FROM Lead", Object: "Lead"})

	out, err := execute(t, NewHistoryCommand(root), "list", "--db", other)
	require.NoError(t, err)
	assert.Contains(t, out, "SELECT Id, Name FROM Lead")
}

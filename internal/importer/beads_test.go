package importer

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/internal/events"
	"github.com/quillhq/quill/internal/state"
	"github.com/quillhq/quill/internal/types"
)

const foreignSchema = `
CREATE TABLE issues (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL,
	priority INTEGER NOT NULL,
	issue_type TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE dependencies (
	issue_id TEXT NOT NULL,
	depends_on_id TEXT NOT NULL,
	type TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	issue_id TEXT NOT NULL,
	author TEXT NOT NULL,
	text TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
`

func newForeignDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "beads.db")
	db, err := sql.Open("sqlite3", "file:"+path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(foreignSchema)
	require.NoError(t, err)
	return db, path
}

func insertIssue(t *testing.T, db *sql.DB, id, title, status, issueType string, priority int, created time.Time) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO issues (id, title, description, status, priority, issue_type, created_at, updated_at)
		VALUES (?, ?, '', ?, ?, ?, ?, ?)`,
		id, title, status, priority, issueType, created, created.Add(time.Hour))
	require.NoError(t, err)
}

func TestImport_TranslatesIssuesAndDependencies(t *testing.T) {
	db, path := newForeignDB(t)
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	insertIssue(t, db, "bd-a1", "First task", "open", "task", 2, base)
	insertIssue(t, db, "bd-b2", "Blocked bug", "open", "bug", 1, base.Add(time.Minute))
	_, err := db.Exec(`INSERT INTO dependencies (issue_id, depends_on_id, type, created_at) VALUES (?, ?, 'blocks', ?)`,
		"bd-b2", "bd-a1", base)
	require.NoError(t, err)

	result, err := Import(context.Background(), path, Options{Prefix: "QUIL"})
	require.NoError(t, err)

	assert.Equal(t, "QUIL-a1", result.IDMap["bd-a1"])
	assert.Equal(t, "QUIL-b2", result.IDMap["bd-b2"])

	snapshot := state.Compute(result.Events)
	require.Len(t, snapshot, 2)
	issue := snapshot["QUIL-b2"]
	require.NotNil(t, issue)
	assert.Equal(t, "Blocked bug", issue.Title)
	assert.Equal(t, types.TypeBug, issue.IssueType)
	assert.Equal(t, []string{"QUIL-a1"}, issue.BlockedBy)
	assert.Equal(t, base.Add(time.Minute), issue.CreatedAt.UTC())
}

func TestImport_ClosedIssuesGetCloseEvents(t *testing.T) {
	db, path := newForeignDB(t)
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	insertIssue(t, db, "bd-c3", "Done already", "closed", "task", 3, base)

	result, err := Import(context.Background(), path, Options{Prefix: "QUIL"})
	require.NoError(t, err)
	require.Len(t, result.Events, 2)
	assert.Equal(t, events.TypeClose, result.Events[1].Type)

	snapshot := state.Compute(result.Events)
	assert.Equal(t, types.StatusClosed, snapshot["QUIL-c3"].Status)
}

func TestImport_MapsForeignTypes(t *testing.T) {
	db, path := newForeignDB(t)
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	insertIssue(t, db, "bd-f1", "A feature", "open", "feature", 2, base)
	insertIssue(t, db, "bd-ch", "A chore", "open", "chore", 4, base)
	insertIssue(t, db, "bd-ep", "An epic", "open", "epic", 0, base)

	result, err := Import(context.Background(), path, Options{Prefix: "QUIL"})
	require.NoError(t, err)

	snapshot := state.Compute(result.Events)
	assert.Equal(t, types.TypeTask, snapshot[result.IDMap["bd-f1"]].IssueType)
	assert.Equal(t, types.TypeTask, snapshot[result.IDMap["bd-ch"]].IssueType)
	assert.Equal(t, types.TypeEpic, snapshot[result.IDMap["bd-ep"]].IssueType)
}

func TestImport_ParentChildBecomesParentField(t *testing.T) {
	db, path := newForeignDB(t)
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	insertIssue(t, db, "bd-ep", "Epic", "open", "epic", 1, base)
	insertIssue(t, db, "bd-ch", "Child", "open", "task", 2, base.Add(time.Minute))
	_, err := db.Exec(`INSERT INTO dependencies (issue_id, depends_on_id, type, created_at) VALUES (?, ?, 'parent-child', ?)`,
		"bd-ch", "bd-ep", base)
	require.NoError(t, err)

	result, err := Import(context.Background(), path, Options{Prefix: "QUIL"})
	require.NoError(t, err)

	snapshot := state.Compute(result.Events)
	assert.Equal(t, result.IDMap["bd-ep"], snapshot[result.IDMap["bd-ch"]].Parent)
}

func TestImport_CarriesComments(t *testing.T) {
	db, path := newForeignDB(t)
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	insertIssue(t, db, "bd-a1", "Commented", "open", "task", 2, base)
	_, err := db.Exec(`INSERT INTO comments (issue_id, author, text, created_at) VALUES (?, ?, ?, ?)`,
		"bd-a1", "alice", "first note", base.Add(2*time.Minute))
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO comments (issue_id, author, text, created_at) VALUES (?, ?, ?, ?)`,
		"bd-a1", "bob", "second note", base.Add(3*time.Minute))
	require.NoError(t, err)

	result, err := Import(context.Background(), path, Options{Prefix: "QUIL"})
	require.NoError(t, err)

	snapshot := state.Compute(result.Events)
	issue := snapshot["QUIL-a1"]
	require.NotNil(t, issue)
	require.Len(t, issue.Comments, 2)
	assert.Equal(t, "alice", issue.Comments[0].Author)
	assert.Equal(t, "second note", issue.Comments[1].Text)
}

func TestImport_InvalidRowAbortsByDefault(t *testing.T) {
	db, path := newForeignDB(t)
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	insertIssue(t, db, "bd-ok", "Fine", "open", "task", 2, base)
	insertIssue(t, db, "bd-bad", "Strange", "wontfix", "task", 2, base.Add(time.Minute))

	_, err := Import(context.Background(), path, Options{Prefix: "QUIL"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bd-bad")
}

func TestImport_SkipInvalidCollectsSkips(t *testing.T) {
	db, path := newForeignDB(t)
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	insertIssue(t, db, "bd-ok", "Fine", "open", "task", 2, base)
	insertIssue(t, db, "bd-bad", "Strange", "wontfix", "task", 2, base.Add(time.Minute))

	result, err := Import(context.Background(), path, Options{Prefix: "QUIL", SkipInvalid: true})
	require.NoError(t, err)
	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0], "bd-bad")

	snapshot := state.Compute(result.Events)
	assert.Len(t, snapshot, 1)
}

func TestImport_RegeneratesUnusableIDs(t *testing.T) {
	db, path := newForeignDB(t)
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	// A foreign id whose suffix sanitizes to nothing forces a fresh id.
	insertIssue(t, db, "bd-###", "Odd id", "open", "task", 2, base)

	result, err := Import(context.Background(), path, Options{Prefix: "QUIL"})
	require.NoError(t, err)
	mapped := result.IDMap["bd-###"]
	assert.True(t, types.IsFullID(mapped), mapped)
	assert.Equal(t, "QUIL", types.IDPrefix(mapped))
}

package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/internal/events"
	"github.com/quillhq/quill/internal/state"
	"github.com/quillhq/quill/internal/storage"
	"github.com/quillhq/quill/internal/types"
)

func TestTrackerAppendAndResolve(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "issues.jsonl")
	tr := &tracker{
		logPath:  logPath,
		snapshot: state.Compute(nil),
	}

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	err := tr.append(events.NewCreate("PROJ-abc123", ts, events.CreateData{
		Title:     "Wire sessions",
		IssueType: types.TypeTask,
		Priority:  1,
	}))
	require.NoError(t, err)

	// Snapshot is updated in-process, not just on disk.
	issue, err := tr.resolve("abc")
	require.NoError(t, err)
	assert.Equal(t, "PROJ-abc123", issue.ID)
	assert.Equal(t, "Wire sessions", issue.Title)

	// A fresh fold of the log file sees the same state.
	evs, err := storage.NewFileSource(logPath).Events()
	require.NoError(t, err)
	tr2 := &tracker{logPath: logPath, snapshot: state.Compute(evs)}
	_, err = tr2.resolve("PROJ-abc123")
	assert.NoError(t, err)
}

func TestSourceLabel(t *testing.T) {
	tests := []struct {
		name string
		path string
		all  []string
		want string
	}{
		{
			name: "unique base name is shortened",
			path: "a/issues.jsonl",
			all:  []string{"a/issues.jsonl", "b/other.jsonl"},
			want: "issues.jsonl",
		},
		{
			name: "colliding base names keep the full path",
			path: "a/issues.jsonl",
			all:  []string{"a/issues.jsonl", "b/issues.jsonl"},
			want: "a/issues.jsonl",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sourceLabel(tt.path, tt.all))
		})
	}
}

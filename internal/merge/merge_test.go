package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/internal/events"
	"github.com/quillhq/quill/internal/types"
)

func ts(sec int) time.Time {
	return time.Date(2026, 3, 1, 12, 0, sec, 0, time.UTC)
}

func TestEvents_SortsByTimestampAscending(t *testing.T) {
	sources := []Source{
		{Name: "one.jsonl", Events: []events.Event{
			events.NewCreate("QUIL-a", ts(3), events.CreateData{Title: "a", IssueType: types.TypeTask}),
		}},
		{Name: "two.jsonl", Events: []events.Event{
			events.NewCreate("QUIL-b", ts(1), events.CreateData{Title: "b", IssueType: types.TypeTask}),
			events.NewComment("QUIL-b", ts(5), "later", ""),
		}},
	}

	merged := Events(sources)
	require.Len(t, merged, 3)
	assert.Equal(t, "QUIL-b", merged[0].IssueID)
	assert.Equal(t, "QUIL-a", merged[1].IssueID)
	assert.Equal(t, ts(5), merged[2].Timestamp)
}

func TestEvents_EqualTimestampsKeepSourceOrder(t *testing.T) {
	sources := []Source{
		{Name: "one.jsonl", Events: []events.Event{
			events.NewComment("QUIL-a", ts(1), "first", ""),
		}},
		{Name: "two.jsonl", Events: []events.Event{
			events.NewComment("QUIL-a", ts(1), "second", ""),
		}},
	}

	merged := Events(sources)
	require.Len(t, merged, 2)
	// Stable sort: ties keep concatenation order.
	assert.Equal(t, "first", merged[0].Data.(events.CommentData).Text)
	assert.Equal(t, "second", merged[1].Data.(events.CommentData).Text)
}

func TestIssues_LastWriteWinsWithProvenance(t *testing.T) {
	titleOld := "old title"
	titleNew := "new title"
	sources := []Source{
		{Name: "laptop.jsonl", Events: []events.Event{
			events.NewCreate("QUIL-x", ts(1), events.CreateData{Title: "x", IssueType: types.TypeTask}),
			events.NewUpdate("QUIL-x", ts(2), events.UpdateData{Title: &titleOld}),
		}},
		{Name: "desktop.jsonl", Events: []events.Event{
			events.NewCreate("QUIL-x", ts(1), events.CreateData{Title: "x", IssueType: types.TypeTask}),
			events.NewUpdate("QUIL-x", ts(8), events.UpdateData{Title: &titleNew}),
		}},
	}

	merged := Issues(sources)
	require.Len(t, merged, 1)
	got := merged[0]
	// The variant with the strictly greater UpdatedAt wins...
	assert.Equal(t, "new title", got.Title)
	assert.Equal(t, ts(8), got.UpdatedAt)
	// ...and provenance records every source that contained the id.
	assert.Equal(t, []string{"desktop.jsonl", "laptop.jsonl"}, got.Sources)
}

func TestIssues_DisjointIdsUnion(t *testing.T) {
	sources := []Source{
		{Name: "one.jsonl", Events: []events.Event{
			events.NewCreate("QUIL-a", ts(1), events.CreateData{Title: "a", IssueType: types.TypeTask}),
		}},
		{Name: "two.jsonl", Events: []events.Event{
			events.NewCreate("QUIL-b", ts(2), events.CreateData{Title: "b", IssueType: types.TypeBug}),
		}},
	}

	merged := Issues(sources)
	require.Len(t, merged, 2)
	assert.Equal(t, "QUIL-a", merged[0].ID)
	assert.Equal(t, []string{"one.jsonl"}, merged[0].Sources)
	assert.Equal(t, "QUIL-b", merged[1].ID)
	assert.Equal(t, []string{"two.jsonl"}, merged[1].Sources)
}

func TestIssues_FirstSourceWinsOnEqualUpdatedAt(t *testing.T) {
	sources := []Source{
		{Name: "one.jsonl", Events: []events.Event{
			events.NewCreate("QUIL-a", ts(1), events.CreateData{Title: "from one", IssueType: types.TypeTask}),
		}},
		{Name: "two.jsonl", Events: []events.Event{
			events.NewCreate("QUIL-a", ts(1), events.CreateData{Title: "from two", IssueType: types.TypeTask}),
		}},
	}

	merged := Issues(sources)
	require.Len(t, merged, 1)
	// Strictly-greater comparison: an equal UpdatedAt does not displace the
	// earlier source's variant.
	assert.Equal(t, "from one", merged[0].Title)
	assert.Equal(t, []string{"one.jsonl", "two.jsonl"}, merged[0].Sources)
}

func TestSnapshot_UsableForGraphQueries(t *testing.T) {
	sources := []Source{
		{Name: "one.jsonl", Events: []events.Event{
			events.NewCreate("QUIL-a", ts(1), events.CreateData{
				Title: "a", IssueType: types.TypeTask, BlockedBy: []string{"QUIL-b"},
			}),
		}},
		{Name: "two.jsonl", Events: []events.Event{
			events.NewCreate("QUIL-b", ts(2), events.CreateData{Title: "b", IssueType: types.TypeTask}),
		}},
	}

	snapshot := Snapshot(sources)
	require.Len(t, snapshot, 2)
	assert.Equal(t, []string{"QUIL-b"}, snapshot["QUIL-a"].BlockedBy)
}

func TestIssues_WinnerIsACopy(t *testing.T) {
	sources := []Source{
		{Name: "one.jsonl", Events: []events.Event{
			events.NewCreate("QUIL-a", ts(1), events.CreateData{
				Title: "a", IssueType: types.TypeTask, BlockedBy: []string{"QUIL-b"},
			}),
		}},
	}

	first := Issues(sources)
	first[0].BlockedBy[0] = "QUIL-mutated"

	second := Issues(sources)
	assert.Equal(t, "QUIL-b", second[0].BlockedBy[0])
}

package state

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

func TestCompute_CreateInitializesDefaults(t *testing.T) {
	snapshot := Compute([]events.Event{
		events.NewCreate("QUIL-aaaaaa", ts(1), events.CreateData{
			Title:     "Set up CI",
			IssueType: types.TypeTask,
			Priority:  2,
		}),
	})

	require.Len(t, snapshot, 1)
	issue := snapshot["QUIL-aaaaaa"]
	require.NotNil(t, issue)
	assert.Equal(t, "QUIL-aaaaaa", issue.ID)
	assert.Equal(t, types.StatusOpen, issue.Status)
	assert.Empty(t, issue.BlockedBy)
	assert.Empty(t, issue.Comments)
	assert.Equal(t, ts(1), issue.CreatedAt)
	assert.Equal(t, ts(1), issue.UpdatedAt)
}

func TestCompute_UpdateMergesOnlyPresentFields(t *testing.T) {
	title := "New title"
	snapshot := Compute([]events.Event{
		events.NewCreate("QUIL-aaaaaa", ts(1), events.CreateData{
			Title:       "Old title",
			Description: "keep me",
			IssueType:   types.TypeBug,
			Priority:    1,
		}),
		events.NewUpdate("QUIL-aaaaaa", ts(2), events.UpdateData{Title: &title}),
	})

	issue := snapshot["QUIL-aaaaaa"]
	assert.Equal(t, "New title", issue.Title)
	// Absent fields are left unchanged, not cleared.
	assert.Equal(t, "keep me", issue.Description)
	assert.Equal(t, 1, issue.Priority)
	assert.Equal(t, ts(2), issue.UpdatedAt)
	assert.Equal(t, ts(1), issue.CreatedAt)
}

func TestCompute_UpdateExplicitEmptyListClears(t *testing.T) {
	empty := []string{}
	snapshot := Compute([]events.Event{
		events.NewCreate("QUIL-aaaaaa", ts(1), events.CreateData{
			Title: "a", IssueType: types.TypeTask,
			BlockedBy: []string{"QUIL-bbbbbb"},
		}),
		events.NewUpdate("QUIL-aaaaaa", ts(2), events.UpdateData{BlockedBy: &empty}),
	})

	assert.Empty(t, snapshot["QUIL-aaaaaa"].BlockedBy)
}

func TestCompute_MutationOfUnknownIssueIsNoOp(t *testing.T) {
	title := "ghost"
	snapshot := Compute([]events.Event{
		events.NewUpdate("QUIL-zzzzzz", ts(1), events.UpdateData{Title: &title}),
		events.NewClose("QUIL-zzzzzz", ts(2), ""),
		events.NewComment("QUIL-zzzzzz", ts(3), "hello", ""),
	})

	// No placeholder issue is created and nothing raises.
	assert.Empty(t, snapshot)
}

func TestCompute_CloseAndReopenAreIdempotent(t *testing.T) {
	snapshot := Compute([]events.Event{
		events.NewCreate("QUIL-aaaaaa", ts(1), events.CreateData{Title: "a", IssueType: types.TypeTask}),
		events.NewClose("QUIL-aaaaaa", ts(2), "done"),
		events.NewClose("QUIL-aaaaaa", ts(3), "done again"),
	})
	assert.Equal(t, types.StatusClosed, snapshot["QUIL-aaaaaa"].Status)
	// Even a redundant close stamps UpdatedAt.
	assert.Equal(t, ts(3), snapshot["QUIL-aaaaaa"].UpdatedAt)

	snapshot = Compute([]events.Event{
		events.NewCreate("QUIL-aaaaaa", ts(1), events.CreateData{Title: "a", IssueType: types.TypeTask}),
		events.NewReopen("QUIL-aaaaaa", ts(2), ""),
	})
	assert.Equal(t, types.StatusOpen, snapshot["QUIL-aaaaaa"].Status)
}

func TestCompute_CommentsAppendInOrder(t *testing.T) {
	snapshot := Compute([]events.Event{
		events.NewCreate("QUIL-aaaaaa", ts(1), events.CreateData{Title: "a", IssueType: types.TypeTask}),
		events.NewComment("QUIL-aaaaaa", ts(2), "first", "alice"),
		events.NewComment("QUIL-aaaaaa", ts(3), "second", "bob"),
	})

	comments := snapshot["QUIL-aaaaaa"].Comments
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "alice", comments[0].Author)
	assert.Equal(t, ts(2), comments[0].Timestamp)
	assert.Equal(t, "second", comments[1].Text)
}

func TestCompute_ProcessesInAppendOrderNotTimestampOrder(t *testing.T) {
	early := "early"
	late := "late"
	// The second event carries an earlier timestamp but still wins: the
	// reducer folds in append order.
	snapshot := Compute([]events.Event{
		events.NewCreate("QUIL-aaaaaa", ts(1), events.CreateData{Title: "a", IssueType: types.TypeTask}),
		events.NewUpdate("QUIL-aaaaaa", ts(9), events.UpdateData{Title: &late}),
		events.NewUpdate("QUIL-aaaaaa", ts(5), events.UpdateData{Title: &early}),
	})

	assert.Equal(t, "early", snapshot["QUIL-aaaaaa"].Title)
	assert.Equal(t, ts(5), snapshot["QUIL-aaaaaa"].UpdatedAt)
}

func TestCompute_BlockedByDuplicatesAreKept(t *testing.T) {
	snapshot := Compute([]events.Event{
		events.NewCreate("QUIL-aaaaaa", ts(1), events.CreateData{
			Title: "a", IssueType: types.TypeTask,
			BlockedBy: []string{"QUIL-bbbbbb", "QUIL-bbbbbb"},
		}),
	})
	// The reducer does not deduplicate; that is the mutation path's concern.
	assert.Equal(t, []string{"QUIL-bbbbbb", "QUIL-bbbbbb"}, snapshot["QUIL-aaaaaa"].BlockedBy)
}

func TestCompute_IsDeterministic(t *testing.T) {
	status := types.StatusInProgress
	evs := []events.Event{
		events.NewCreate("QUIL-aaaaaa", ts(1), events.CreateData{Title: "a", IssueType: types.TypeTask}),
		events.NewCreate("QUIL-bbbbbb", ts(2), events.CreateData{Title: "b", IssueType: types.TypeBug}),
		events.NewUpdate("QUIL-aaaaaa", ts(3), events.UpdateData{Status: &status}),
		events.NewComment("QUIL-bbbbbb", ts(4), "note", ""),
		events.NewClose("QUIL-bbbbbb", ts(5), ""),
	}

	first := Compute(evs)
	second := Compute(evs)
	assert.Equal(t, first, second)
}

// Package state folds an ordered event sequence into issue snapshots.
//
// The fold is pure and deterministic: the same events in the same order
// always produce structurally equal snapshots. It is also intentionally
// dumb: no cycle checks, no parent-type checks, no status transitions.
// Validation belongs to the mutation path, not to state reconstruction.
package state

import (
	"github.com/quillhq/quill/internal/events"
	"github.com/quillhq/quill/internal/types"
)

// Compute folds events into a snapshot. Events are processed strictly in the
// order given (append order of the source, not re-sorted by timestamp).
// A mutation event whose issue id has no prior create is a silent no-op.
func Compute(evs []events.Event) types.Snapshot {
	snapshot := make(types.Snapshot)
	for _, ev := range evs {
		apply(snapshot, ev)
	}
	return snapshot
}

// Apply folds a single event into the snapshot in place and returns it.
// It is the incremental form of Compute.
func Apply(snapshot types.Snapshot, ev events.Event) types.Snapshot {
	apply(snapshot, ev)
	return snapshot
}

func apply(snapshot types.Snapshot, ev events.Event) {
	if create, ok := ev.Data.(events.CreateData); ok {
		snapshot[ev.IssueID] = &types.Issue{
			ID:          ev.IssueID,
			Title:       create.Title,
			Description: create.Description,
			Status:      types.StatusOpen,
			Priority:    create.Priority,
			IssueType:   create.IssueType,
			Parent:      create.Parent,
			BlockedBy:   append([]string{}, create.BlockedBy...),
			RelatedTo:   append([]string{}, create.RelatedTo...),
			Verifies:    create.Verifies,
			Comments:    []types.Comment{},
			CreatedAt:   ev.Timestamp,
			UpdatedAt:   ev.Timestamp,
		}
		return
	}

	issue, ok := snapshot[ev.IssueID]
	if !ok {
		return
	}

	switch data := ev.Data.(type) {
	case events.UpdateData:
		applyUpdate(issue, data)
	case events.CloseData:
		issue.Status = types.StatusClosed
	case events.ReopenData:
		issue.Status = types.StatusOpen
	case events.CommentData:
		issue.Comments = append(issue.Comments, types.Comment{
			Text:      data.Text,
			Timestamp: ev.Timestamp,
			Author:    data.Author,
		})
	}

	// Every mutation stamps UpdatedAt, even if no visible field changed.
	issue.UpdatedAt = ev.Timestamp
}

// applyUpdate merges only the fields present in the payload. Nil means
// "leave unchanged"; an explicit empty list replaces the existing one.
func applyUpdate(issue *types.Issue, data events.UpdateData) {
	if data.Title != nil {
		issue.Title = *data.Title
	}
	if data.Description != nil {
		issue.Description = *data.Description
	}
	if data.Status != nil {
		issue.Status = *data.Status
	}
	if data.Priority != nil {
		issue.Priority = *data.Priority
	}
	if data.IssueType != nil {
		issue.IssueType = *data.IssueType
	}
	if data.Parent != nil {
		issue.Parent = *data.Parent
	}
	if data.BlockedBy != nil {
		issue.BlockedBy = append([]string{}, (*data.BlockedBy)...)
	}
	if data.RelatedTo != nil {
		issue.RelatedTo = append([]string{}, (*data.RelatedTo)...)
	}
	if data.Verifies != nil {
		issue.Verifies = *data.Verifies
	}
}

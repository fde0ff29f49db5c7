package events

import (
	"time"

	"github.com/quillhq/quill/internal/types"
)

// NewCreate creates a create event for a new issue.
func NewCreate(issueID string, ts time.Time, data CreateData) Event {
	return Event{
		Type:      TypeCreate,
		IssueID:   issueID,
		Timestamp: ts,
		Data:      data,
	}
}

// NewUpdate creates an update event carrying only the fields to change.
func NewUpdate(issueID string, ts time.Time, data UpdateData) Event {
	return Event{
		Type:      TypeUpdate,
		IssueID:   issueID,
		Timestamp: ts,
		Data:      data,
	}
}

// NewClose creates a close event.
func NewClose(issueID string, ts time.Time, reason string) Event {
	return Event{
		Type:      TypeClose,
		IssueID:   issueID,
		Timestamp: ts,
		Data:      CloseData{Reason: reason},
	}
}

// NewReopen creates a reopen event.
func NewReopen(issueID string, ts time.Time, reason string) Event {
	return Event{
		Type:      TypeReopen,
		IssueID:   issueID,
		Timestamp: ts,
		Data:      ReopenData{Reason: reason},
	}
}

// NewComment creates a comment event.
func NewComment(issueID string, ts time.Time, text, author string) Event {
	return Event{
		Type:      TypeComment,
		IssueID:   issueID,
		Timestamp: ts,
		Data:      CommentData{Text: text, Author: author},
	}
}

// SetBlockedBy is a convenience for the common "replace the blocker list"
// update issued by the dependency mutation path.
func SetBlockedBy(issueID string, ts time.Time, blockedBy []string) Event {
	return NewUpdate(issueID, ts, UpdateData{BlockedBy: &blockedBy})
}

// SetStatus is a convenience for the common status-only update.
func SetStatus(issueID string, ts time.Time, status types.Status) Event {
	return NewUpdate(issueID, ts, UpdateData{Status: &status})
}

package types

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Issue represents a trackable work item. Issues are never stored directly:
// every Issue value is derived by folding the event log (see internal/state).
type Issue struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Priority    int       `json:"priority"`
	IssueType   IssueType `json:"issue_type"`
	Parent      string    `json:"parent,omitempty"`     // id of an epic
	BlockedBy   []string  `json:"blocked_by,omitempty"` // ordered, not deduplicated
	RelatedTo   []string  `json:"related_to,omitempty"`
	Verifies    string    `json:"verifies,omitempty"` // only meaningful for verification issues
	Comments    []Comment `json:"comments,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks if the issue has valid field values.
// This runs on the mutation path only; the reducer never validates.
func (i *Issue) Validate() error {
	if len(i.Title) == 0 {
		return fmt.Errorf("title is required")
	}
	if len(i.Title) > 500 {
		return fmt.Errorf("title must be 500 characters or less (got %d)", len(i.Title))
	}
	if i.Priority < 0 || i.Priority > 4 {
		return fmt.Errorf("priority must be between 0 and 4 (got %d)", i.Priority)
	}
	if !i.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", i.Status)
	}
	if !i.IssueType.IsValid() {
		return fmt.Errorf("invalid issue type: %s", i.IssueType)
	}
	for _, blocker := range i.BlockedBy {
		if blocker == i.ID {
			return fmt.Errorf("issue %s cannot block itself", i.ID)
		}
	}
	if i.Verifies != "" && i.IssueType != TypeVerification {
		return fmt.Errorf("verifies is only valid for verification issues (got type %s)", i.IssueType)
	}
	return nil
}

// Clone returns a deep copy of the issue. The reducer and merge engine hand
// out clones so callers can never mutate a shared snapshot.
func (i *Issue) Clone() *Issue {
	clone := *i
	if i.BlockedBy != nil {
		clone.BlockedBy = append([]string(nil), i.BlockedBy...)
	}
	if i.RelatedTo != nil {
		clone.RelatedTo = append([]string(nil), i.RelatedTo...)
	}
	if i.Comments != nil {
		clone.Comments = append([]Comment(nil), i.Comments...)
	}
	return &clone
}

// Comment is an append-only annotation on an issue.
type Comment struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Author    string    `json:"author,omitempty"`
}

// Status represents the current state of an issue
type Status string

const (
	StatusOpen                Status = "open"
	StatusInProgress          Status = "in_progress"
	StatusBlocked             Status = "blocked"
	StatusPendingVerification Status = "pending_verification"
	StatusClosed              Status = "closed"
)

// IsValid checks if the status value is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusBlocked, StatusPendingVerification, StatusClosed:
		return true
	}
	return false
}

// IssueType categorizes the kind of work
type IssueType string

const (
	TypeTask IssueType = "task"
	TypeBug  IssueType = "bug"
	TypeEpic IssueType = "epic"
	// TypeVerification marks an issue that stands for "confirm this work was
	// done"; it references the verified issue via the Verifies field.
	TypeVerification IssueType = "verification"
)

// IsValid checks if the issue type value is valid
func (t IssueType) IsValid() bool {
	switch t {
	case TypeTask, TypeBug, TypeEpic, TypeVerification:
		return true
	}
	return false
}

// Snapshot is the derived mapping from issue id to its current state.
type Snapshot map[string]*Issue

// idPattern matches a full issue id: 4 uppercase letters, a dash, and a
// lowercase alphanumeric suffix (e.g. "QUIL-ab12cd").
var idPattern = regexp.MustCompile(`^[A-Z]{4}-[a-z0-9]+$`)

// IsFullID reports whether s is syntactically a complete issue id.
func IsFullID(s string) bool {
	return idPattern.MatchString(s)
}

// IDPrefix returns the prefix portion of an issue id, or "" if the id has no
// dash separator.
func IDPrefix(id string) string {
	idx := strings.Index(id, "-")
	if idx < 0 {
		return ""
	}
	return id[:idx]
}

// Package events defines the typed events that make up the issue log.
// Events are immutable once appended and are the sole source of truth;
// issue snapshots are always recomputed from them.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/quillhq/quill/internal/types"
)

// Type is the discriminator tag on an event envelope.
type Type string

const (
	TypeCreate  Type = "create"
	TypeUpdate  Type = "update"
	TypeClose   Type = "close"
	TypeReopen  Type = "reopen"
	TypeComment Type = "comment"
)

// IsValid checks if the event type value is valid
func (t Type) IsValid() bool {
	switch t {
	case TypeCreate, TypeUpdate, TypeClose, TypeReopen, TypeComment:
		return true
	}
	return false
}

// Event is the envelope written as one JSON line in the log.
type Event struct {
	Type      Type      `json:"type"`
	IssueID   string    `json:"issueId"`
	Timestamp time.Time `json:"timestamp"`
	Data      Data      `json:"data"`
}

// Data is the closed set of event payloads. The concrete type is determined
// by the envelope's Type tag; decoding dispatches on it exhaustively, so a
// new event type cannot be added without extending the switch below.
type Data interface {
	isEventData()
}

// CreateData initializes a new issue. Status is not part of the payload:
// created issues always start open.
type CreateData struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	IssueType   types.IssueType `json:"issueType"`
	Priority    int             `json:"priority"`
	Parent      string          `json:"parent,omitempty"`
	BlockedBy   []string        `json:"blockedBy,omitempty"`
	RelatedTo   []string        `json:"relatedTo,omitempty"`
	Verifies    string          `json:"verifies,omitempty"`
}

// UpdateData merges the fields present in the payload into the issue.
// A nil field means "leave unchanged", not "clear"; an explicit empty list
// replaces the existing one.
type UpdateData struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Status      *types.Status    `json:"status,omitempty"`
	Priority    *int             `json:"priority,omitempty"`
	IssueType   *types.IssueType `json:"issueType,omitempty"`
	Parent      *string          `json:"parent,omitempty"`
	BlockedBy   *[]string        `json:"blockedBy,omitempty"`
	RelatedTo   *[]string        `json:"relatedTo,omitempty"`
	Verifies    *string          `json:"verifies,omitempty"`
}

// CloseData unconditionally sets status to closed. Idempotent.
type CloseData struct {
	Reason string `json:"reason,omitempty"`
}

// ReopenData unconditionally sets status back to open. Idempotent.
type ReopenData struct {
	Reason string `json:"reason,omitempty"`
}

// CommentData appends a comment to the issue.
type CommentData struct {
	Text   string `json:"text"`
	Author string `json:"author,omitempty"`
}

func (CreateData) isEventData()  {}
func (UpdateData) isEventData()  {}
func (CloseData) isEventData()   {}
func (ReopenData) isEventData()  {}
func (CommentData) isEventData() {}

// envelope mirrors Event with the payload left raw for two-phase decoding.
type envelope struct {
	Type      Type            `json:"type"`
	IssueID   string          `json:"issueId"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// UnmarshalJSON decodes the envelope, then the payload according to the type
// tag. An unknown or missing type tag is an error, never a skipped event.
func (e *Event) UnmarshalJSON(b []byte) error {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	e.Type = env.Type
	e.IssueID = env.IssueID
	e.Timestamp = env.Timestamp

	raw := env.Data
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	switch env.Type {
	case TypeCreate:
		var d CreateData
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("decoding create payload: %w", err)
		}
		e.Data = d
	case TypeUpdate:
		var d UpdateData
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("decoding update payload: %w", err)
		}
		e.Data = d
	case TypeClose:
		var d CloseData
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("decoding close payload: %w", err)
		}
		e.Data = d
	case TypeReopen:
		var d ReopenData
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("decoding reopen payload: %w", err)
		}
		e.Data = d
	case TypeComment:
		var d CommentData
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("decoding comment payload: %w", err)
		}
		e.Data = d
	default:
		return fmt.Errorf("unknown event type %q", env.Type)
	}
	return nil
}

// MarshalJSON emits the single-line wire form: {type, issueId, timestamp, data}.
func (e Event) MarshalJSON() ([]byte, error) {
	if !e.Type.IsValid() {
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
	data := e.Data
	if data == nil {
		return nil, fmt.Errorf("event %s has no payload", e.Type)
	}
	return json.Marshal(struct {
		Type      Type      `json:"type"`
		IssueID   string    `json:"issueId"`
		Timestamp time.Time `json:"timestamp"`
		Data      Data      `json:"data"`
	}{e.Type, e.IssueID, e.Timestamp, data})
}

package types

import (
	"fmt"
	"strings"
)

// NotFoundError indicates that no issue id matched a partial reference.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no issue matches %q", e.Ref)
}

// AmbiguousError indicates that a partial reference matched more than one
// issue id at the same resolution tier.
type AmbiguousError struct {
	Ref        string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%q is ambiguous: matches %s", e.Ref, strings.Join(e.Candidates, ", "))
}

// CycleError indicates that a proposed blocking edge would close a cycle.
type CycleError struct {
	IssueID   string
	BlockerID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cannot block %s on %s: would create a cycle", e.IssueID, e.BlockerID)
}

// InvalidStateError indicates a mutation that engine query results show to be
// invalid (e.g. closing an epic with open children). Detected by the mutation
// path, never by the reducer.
type InvalidStateError struct {
	IssueID string
	Reason  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state for %s: %s", e.IssueID, e.Reason)
}

// MalformedLogError indicates that a log line failed to parse. Reads of the
// primary log abort on the first malformed line rather than skipping it.
type MalformedLogError struct {
	Path string
	Line int
	Err  error
}

func (e *MalformedLogError) Error() string {
	return fmt.Sprintf("malformed event at %s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *MalformedLogError) Unwrap() error {
	return e.Err
}

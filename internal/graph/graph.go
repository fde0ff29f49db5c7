// Package graph answers dependency queries over an issue snapshot: what is
// ready, what is blocked, whether a proposed edge closes a cycle, and how
// issues relate to each other.
//
// Every operation recomputes from the snapshot it is given; there is no
// cached graph state. All traversals carry explicit visited sets so they
// stay safe over data that bypassed cycle validation, such as corrupted or
// externally merged logs.
package graph

import (
	"sort"

	"github.com/quillhq/quill/internal/types"
)

// Build returns the blocker adjacency: blocker id → ids of issues it blocks.
// Derived by inverting each issue's BlockedBy list.
func Build(snapshot types.Snapshot) map[string][]string {
	adjacency := make(map[string][]string)
	ids := sortedIDs(snapshot)
	for _, id := range ids {
		for _, blocker := range snapshot[id].BlockedBy {
			adjacency[blocker] = append(adjacency[blocker], id)
		}
	}
	return adjacency
}

// DetectCycle reports whether blocking issueID on proposedBlockerID would
// close a cycle. True when the two ids are equal, or when proposedBlockerID
// is already downstream of issueID (issueID transitively blocks it), since
// the new edge would complete the loop.
//
// Any mutation path that adds to BlockedBy must call this first and treat a
// true result as a hard validation failure.
func DetectCycle(issueID, proposedBlockerID string, snapshot types.Snapshot) bool {
	if issueID == proposedBlockerID {
		return true
	}

	adjacency := Build(snapshot)
	// Reachability from issueID over blocker→blocked edges.
	visited := map[string]bool{issueID: true}
	queue := []string{issueID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, blocked := range adjacency[current] {
			if blocked == proposedBlockerID {
				return true
			}
			if !visited[blocked] {
				visited[blocked] = true
				queue = append(queue, blocked)
			}
		}
	}
	return false
}

// IsReady reports whether the issue is actionable: not closed, and every
// blocker is either closed or absent from the snapshot. Dangling blocker
// references are treated as resolved, not blocking.
func IsReady(issue *types.Issue, snapshot types.Snapshot) bool {
	if issue.Status == types.StatusClosed {
		return false
	}
	for _, blockerID := range issue.BlockedBy {
		if blocker, ok := snapshot[blockerID]; ok && blocker.Status != types.StatusClosed {
			return false
		}
	}
	return true
}

// Ready returns the non-closed issues with no open blockers, ordered by id.
func Ready(snapshot types.Snapshot) []*types.Issue {
	var ready []*types.Issue
	for _, id := range sortedIDs(snapshot) {
		if IsReady(snapshot[id], snapshot) {
			ready = append(ready, snapshot[id])
		}
	}
	return ready
}

// Blocked returns the non-closed issues with at least one open blocker,
// ordered by id. Together with Ready it partitions the non-closed issues.
func Blocked(snapshot types.Snapshot) []*types.Issue {
	var blocked []*types.Issue
	for _, id := range sortedIDs(snapshot) {
		issue := snapshot[id]
		if issue.Status != types.StatusClosed && !IsReady(issue, snapshot) {
			blocked = append(blocked, issue)
		}
	}
	return blocked
}

// OpenBlockers returns the blocker ids of the issue that are present in the
// snapshot and not closed.
func OpenBlockers(issue *types.Issue, snapshot types.Snapshot) []string {
	var open []string
	for _, blockerID := range issue.BlockedBy {
		if blocker, ok := snapshot[blockerID]; ok && blocker.Status != types.StatusClosed {
			open = append(open, blockerID)
		}
	}
	return open
}

// Level returns the dependency depth of an issue: 0 when it has no blockers
// present in the snapshot, otherwise 1 + the maximum level of its blockers.
// A revisit during the recursion contributes 0 instead of recursing forever,
// so the computation terminates even over cyclic data.
func Level(snapshot types.Snapshot, issueID string) int {
	return level(snapshot, issueID, make(map[string]bool))
}

func level(snapshot types.Snapshot, issueID string, visiting map[string]bool) int {
	issue, ok := snapshot[issueID]
	if !ok || visiting[issueID] {
		return 0
	}
	visiting[issueID] = true
	defer delete(visiting, issueID)

	depth := 0
	for _, blockerID := range issue.BlockedBy {
		if _, ok := snapshot[blockerID]; !ok {
			continue
		}
		if d := level(snapshot, blockerID, visiting) + 1; d > depth {
			depth = d
		}
	}
	return depth
}

// Levels computes the level of every issue in the snapshot, giving a
// topological leveling of the blocker graph.
func Levels(snapshot types.Snapshot) map[string]int {
	levels := make(map[string]int, len(snapshot))
	for id := range snapshot {
		levels[id] = Level(snapshot, id)
	}
	return levels
}

// Neighborhood returns the bidirectional closure around rootID: upstream via
// BlockedBy and Parent edges, downstream via "blocks root" and "is child of
// root" edges. The result is a focused sub-snapshot containing the root.
func Neighborhood(rootID string, snapshot types.Snapshot) types.Snapshot {
	result := make(types.Snapshot)
	if _, ok := snapshot[rootID]; !ok {
		return result
	}

	children := make(map[string][]string)
	blocks := make(map[string][]string)
	for id, issue := range snapshot {
		if issue.Parent != "" {
			children[issue.Parent] = append(children[issue.Parent], id)
		}
		for _, blocker := range issue.BlockedBy {
			blocks[blocker] = append(blocks[blocker], id)
		}
	}

	queue := []string{rootID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		issue, ok := snapshot[current]
		if !ok {
			continue
		}
		if _, seen := result[current]; seen {
			continue
		}
		result[current] = issue

		var neighbors []string
		neighbors = append(neighbors, issue.BlockedBy...)
		if issue.Parent != "" {
			neighbors = append(neighbors, issue.Parent)
		}
		neighbors = append(neighbors, blocks[current]...)
		neighbors = append(neighbors, children[current]...)

		for _, neighbor := range neighbors {
			if _, seen := result[neighbor]; !seen {
				queue = append(queue, neighbor)
			}
		}
	}
	return result
}

func sortedIDs(snapshot types.Snapshot) []string {
	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

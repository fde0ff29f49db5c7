package graph

import (
	"sort"

	"github.com/quillhq/quill/internal/types"
)

// TreeNode is a node in a dependency or hierarchy tree.
type TreeNode struct {
	Issue    *types.Issue `json:"issue"`
	Children []*TreeNode  `json:"children,omitempty"`
	// Truncated marks a node whose subtree was cut to break a cycle.
	Truncated bool `json:"truncated,omitempty"`
}

// DependencyTree returns the root issue with its blockers nested recursively:
// each node's children are the issues it is blocked by. Blocker ids absent
// from the snapshot are omitted. A blocker revisited on the current path is
// emitted as a truncated leaf instead of recursing.
func DependencyTree(rootID string, snapshot types.Snapshot) *TreeNode {
	if _, ok := snapshot[rootID]; !ok {
		return nil
	}
	return dependencyNode(rootID, snapshot, make(map[string]bool))
}

func dependencyNode(id string, snapshot types.Snapshot, onPath map[string]bool) *TreeNode {
	issue := snapshot[id]
	node := &TreeNode{Issue: issue}
	onPath[id] = true
	defer delete(onPath, id)

	for _, blockerID := range issue.BlockedBy {
		blocker, ok := snapshot[blockerID]
		if !ok {
			continue
		}
		if onPath[blockerID] {
			node.Children = append(node.Children, &TreeNode{Issue: blocker, Truncated: true})
			continue
		}
		node.Children = append(node.Children, dependencyNode(blockerID, snapshot, onPath))
	}
	return node
}

// HierarchyTree walks upward from rootID to its top-most ancestor, then
// returns that ancestor with the full parent/child nesting below it. Sibling
// context at each level is therefore re-attached: the result shows the whole
// epic the issue belongs to, not just the chain above it.
func HierarchyTree(rootID string, snapshot types.Snapshot) *TreeNode {
	if _, ok := snapshot[rootID]; !ok {
		return nil
	}
	top := TopAncestor(rootID, snapshot)

	children := make(map[string][]string)
	for id, issue := range snapshot {
		if issue.Parent != "" {
			children[issue.Parent] = append(children[issue.Parent], id)
		}
	}
	for _, ids := range children {
		sort.Strings(ids)
	}
	return hierarchyNode(top, snapshot, children, make(map[string]bool))
}

func hierarchyNode(id string, snapshot types.Snapshot, children map[string][]string, visited map[string]bool) *TreeNode {
	node := &TreeNode{Issue: snapshot[id]}
	visited[id] = true
	for _, childID := range children[id] {
		if visited[childID] {
			node.Children = append(node.Children, &TreeNode{Issue: snapshot[childID], Truncated: true})
			continue
		}
		node.Children = append(node.Children, hierarchyNode(childID, snapshot, children, visited))
	}
	return node
}

// TopAncestor follows the parent chain from issueID to the top-most issue
// that has no parent present in the snapshot. A revisited id ends the walk,
// so a corrupted parent cycle cannot loop.
func TopAncestor(issueID string, snapshot types.Snapshot) string {
	visited := make(map[string]bool)
	current := issueID
	for {
		visited[current] = true
		issue, ok := snapshot[current]
		if !ok || issue.Parent == "" {
			return current
		}
		if _, ok := snapshot[issue.Parent]; !ok {
			return current
		}
		if visited[issue.Parent] {
			return current
		}
		current = issue.Parent
	}
}

// ChildrenOf returns the ids of issues whose Parent is issueID, sorted.
func ChildrenOf(issueID string, snapshot types.Snapshot) []string {
	var ids []string
	for id, issue := range snapshot {
		if issue.Parent == issueID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/quillhq/quill/internal/graph"
	"github.com/quillhq/quill/internal/types"
)

// statusColor returns the color function used for the given status.
func statusColor(s types.Status) func(a ...interface{}) string {
	switch s {
	case types.StatusOpen:
		return color.New(color.FgGreen).SprintFunc()
	case types.StatusInProgress:
		return color.New(color.FgYellow).SprintFunc()
	case types.StatusBlocked:
		return color.New(color.FgRed).SprintFunc()
	case types.StatusPendingVerification:
		return color.New(color.FgMagenta).SprintFunc()
	case types.StatusClosed:
		return color.New(color.FgHiBlack).SprintFunc()
	}
	return fmt.Sprint
}

// printIssueLine writes the one-line list form of an issue.
func printIssueLine(issue *types.Issue) {
	cyan := color.New(color.FgCyan).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()
	sc := statusColor(issue.Status)
	fmt.Printf("%s  %s  %s  %s %s\n",
		cyan(issue.ID),
		sc(fmt.Sprintf("%-20s", issue.Status)),
		fmt.Sprintf("P%d", issue.Priority),
		issue.Title,
		gray(fmt.Sprintf("[%s]", issue.IssueType)))
}

// printIssueDetail writes the full multi-line form of an issue.
func printIssueDetail(issue *types.Issue, snapshot types.Snapshot) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()
	sc := statusColor(issue.Status)

	fmt.Printf("\n%s %s\n", cyan(issue.ID), issue.Title)
	fmt.Printf("  Status:   %s\n", sc(issue.Status))
	fmt.Printf("  Type:     %s\n", issue.IssueType)
	fmt.Printf("  Priority: P%d\n", issue.Priority)
	if issue.Parent != "" {
		fmt.Printf("  Parent:   %s\n", issue.Parent)
	}
	if issue.Verifies != "" {
		fmt.Printf("  Verifies: %s\n", issue.Verifies)
	}
	if issue.Description != "" {
		fmt.Printf("  Description:\n")
		for _, line := range strings.Split(issue.Description, "\n") {
			fmt.Printf("    %s\n", line)
		}
	}
	if len(issue.BlockedBy) > 0 {
		fmt.Printf("  Blocked by:\n")
		for _, blocker := range issue.BlockedBy {
			label := gray("(resolved)")
			if b, ok := snapshot[blocker]; ok {
				label = statusColor(b.Status)(string(b.Status))
			}
			fmt.Printf("    %s %s\n", blocker, label)
		}
	}
	if len(issue.RelatedTo) > 0 {
		fmt.Printf("  Related:  %s\n", strings.Join(issue.RelatedTo, ", "))
	}
	fmt.Printf("  Created:  %s\n", issue.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Updated:  %s\n", issue.UpdatedAt.Format("2006-01-02 15:04:05"))
	if len(issue.Comments) > 0 {
		fmt.Printf("  Comments:\n")
		for _, c := range issue.Comments {
			author := ""
			if c.Author != "" {
				author = " " + c.Author
			}
			fmt.Printf("    %s%s: %s\n", gray(c.Timestamp.Format("2006-01-02 15:04")), author, c.Text)
		}
	}
	fmt.Println()
}

// printTree writes a nested tree with box-drawing connectors.
func printTree(node *graph.TreeNode, prefix string, last bool) {
	if node == nil {
		return
	}
	connector := ""
	childPrefix := prefix
	if prefix != "" || !last {
		if last {
			connector = "└── "
			childPrefix = prefix + "    "
		} else {
			connector = "├── "
			childPrefix = prefix + "│   "
		}
	}
	sc := statusColor(node.Issue.Status)
	suffix := ""
	if node.Truncated {
		suffix = color.New(color.FgRed).Sprint(" (cycle)")
	}
	fmt.Printf("%s%s%s %s [%s]%s\n", prefix, connector, node.Issue.ID, node.Issue.Title, sc(node.Issue.Status), suffix)
	for i, child := range node.Children {
		printTree(child, childPrefix, i == len(node.Children)-1)
	}
}

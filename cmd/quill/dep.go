package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/events"
	"github.com/quillhq/quill/internal/graph"
	"github.com/quillhq/quill/internal/types"
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Manage dependencies between issues",
}

var depAddCmd = &cobra.Command{
	Use:   "add ID BLOCKER",
	Short: "Mark an issue as blocked by another",
	Long: `Record that ID is blocked by BLOCKER.

The edge is refused if it would make the issue block itself, directly or
through a chain of existing dependencies.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTracker()
		if err != nil {
			return err
		}
		issue, err := t.resolve(args[0])
		if err != nil {
			return err
		}
		blocker, err := t.resolve(args[1])
		if err != nil {
			return err
		}

		if issue.ID == blocker.ID {
			return &types.CycleError{IssueID: issue.ID, BlockerID: blocker.ID}
		}
		for _, existing := range issue.BlockedBy {
			if existing == blocker.ID {
				return fmt.Errorf("%s is already blocked by %s", issue.ID, blocker.ID)
			}
		}
		if graph.DetectCycle(issue.ID, blocker.ID, t.snapshot) {
			return &types.CycleError{IssueID: issue.ID, BlockerID: blocker.ID}
		}

		blockedBy := append(append([]string{}, issue.BlockedBy...), blocker.ID)
		if err := t.append(events.SetBlockedBy(issue.ID, now(), blockedBy)); err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %s is now blocked by %s\n", green("✓"), issue.ID, blocker.ID)
		return nil
	},
}

var depRemoveCmd = &cobra.Command{
	Use:   "remove ID BLOCKER",
	Short: "Remove a dependency edge",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTracker()
		if err != nil {
			return err
		}
		issue, err := t.resolve(args[0])
		if err != nil {
			return err
		}
		blocker, err := t.resolve(args[1])
		if err != nil {
			return err
		}

		blockedBy := make([]string, 0, len(issue.BlockedBy))
		found := false
		for _, existing := range issue.BlockedBy {
			if existing == blocker.ID {
				found = true
				continue
			}
			blockedBy = append(blockedBy, existing)
		}
		if !found {
			return fmt.Errorf("%s is not blocked by %s", issue.ID, blocker.ID)
		}

		if err := t.append(events.SetBlockedBy(issue.ID, now(), blockedBy)); err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %s is no longer blocked by %s\n", green("✓"), issue.ID, blocker.ID)
		return nil
	},
}

var depTreeHierarchy bool

var depTreeCmd = &cobra.Command{
	Use:   "tree ID",
	Short: "Show the dependency tree of an issue",
	Long: `Show the issue with its blockers nested under it, recursively.
A branch that loops back onto itself is cut and marked (cycle).

With --hierarchy the tree is the epic hierarchy instead: the top-most
ancestor of ID with all descendant children nested under it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTracker()
		if err != nil {
			return err
		}
		issue, err := t.resolve(args[0])
		if err != nil {
			return err
		}

		var root *graph.TreeNode
		if depTreeHierarchy {
			root = graph.HierarchyTree(issue.ID, t.snapshot)
		} else {
			root = graph.DependencyTree(issue.ID, t.snapshot)
		}
		printTree(root, "", true)
		return nil
	},
}

func init() {
	depTreeCmd.Flags().BoolVar(&depTreeHierarchy, "hierarchy", false, "show the epic hierarchy instead of blockers")
	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depRemoveCmd)
	depCmd.AddCommand(depTreeCmd)
	rootCmd.AddCommand(depCmd)
}

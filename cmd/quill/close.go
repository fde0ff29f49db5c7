package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/events"
	"github.com/quillhq/quill/internal/graph"
	"github.com/quillhq/quill/internal/types"
)

var closeReason string

var closeCmd = &cobra.Command{
	Use:   "close ID",
	Short: "Close an issue",
	Long: `Close an issue by appending a close event.

An epic refuses to close while any of its children is still open.`,
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

		if err := checkClosable(issue, t.snapshot); err != nil {
			return err
		}

		if err := t.append(events.NewClose(issue.ID, now(), closeReason)); err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Closed %s\n", green("✓"), issue.ID)
		return nil
	},
}

// checkClosable refuses to close an epic while any of its children is still
// open. Ordinary issues always pass; replayed history is never re-checked.
func checkClosable(issue *types.Issue, snapshot types.Snapshot) error {
	if issue.IssueType != types.TypeEpic {
		return nil
	}
	var open []string
	for _, childID := range graph.ChildrenOf(issue.ID, snapshot) {
		if snapshot[childID].Status != types.StatusClosed {
			open = append(open, childID)
		}
	}
	if len(open) > 0 {
		return &types.InvalidStateError{
			IssueID: issue.ID,
			Reason:  fmt.Sprintf("epic has non-closed children: %s", strings.Join(open, ", ")),
		}
	}
	return nil
}

func init() {
	closeCmd.Flags().StringVarP(&closeReason, "reason", "r", "", "why the issue is being closed")
	rootCmd.AddCommand(closeCmd)
}

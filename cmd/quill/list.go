package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/types"
)

var (
	listStatus string
	listType   string
	listAll    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List issues",
	Long: `List issues derived from the event log, sorted by priority then id.

Closed issues are hidden unless --all or --status closed is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTracker()
		if err != nil {
			return err
		}

		var issues []*types.Issue
		for _, issue := range t.snapshot {
			if listStatus != "" && issue.Status != types.Status(listStatus) {
				continue
			}
			if listStatus == "" && !listAll && issue.Status == types.StatusClosed {
				continue
			}
			if listType != "" && issue.IssueType != types.IssueType(listType) {
				continue
			}
			issues = append(issues, issue)
		}
		sort.Slice(issues, func(i, j int) bool {
			if issues[i].Priority != issues[j].Priority {
				return issues[i].Priority < issues[j].Priority
			}
			return issues[i].ID < issues[j].ID
		})

		if len(issues) == 0 {
			gray := color.New(color.FgHiBlack).SprintFunc()
			fmt.Println(gray("No matching issues"))
			return nil
		}
		for _, issue := range issues {
			printIssueLine(issue)
		}
		fmt.Printf("\n%d issue(s)\n", len(issues))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "filter by status")
	listCmd.Flags().StringVar(&listType, "type", "", "filter by issue type")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "include closed issues")
	rootCmd.AddCommand(listCmd)
}

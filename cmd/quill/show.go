package main

import (
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show full details of one issue",
	Long: `Show a single issue, including blockers, relations, and comments.

ID may be partial: an unambiguous id prefix (proj-x7 or even x7) is enough.`,
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
		printIssueDetail(issue, t.snapshot)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

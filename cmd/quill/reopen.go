package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/events"
)

var reopenReason string

var reopenCmd = &cobra.Command{
	Use:   "reopen ID",
	Short: "Reopen a closed issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTracker()
		if err != nil {
			return err
		}
		issue, err := t.resolve(args[0])
		if err != nil {
			return err
		}
		if err := t.append(events.NewReopen(issue.ID, now(), reopenReason)); err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Reopened %s\n", green("✓"), issue.ID)
		return nil
	},
}

func init() {
	reopenCmd.Flags().StringVarP(&reopenReason, "reason", "r", "", "why the issue is being reopened")
	rootCmd.AddCommand(reopenCmd)
}

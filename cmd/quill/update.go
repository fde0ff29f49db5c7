package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/events"
	"github.com/quillhq/quill/internal/types"
)

var (
	updateTitle       string
	updateDescription string
	updateStatus      string
	updatePriority    int
	updateParent      string
)

var updateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update fields of an issue",
	Long: `Update an issue by appending an update event carrying only the
changed fields. Unset flags leave the corresponding fields untouched.

Examples:
  quill update x7k --status in_progress
  quill update x7k -p 0 --title "Fix login timeout on mobile"`,
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

		var data events.UpdateData
		changed := false
		if cmd.Flags().Changed("title") {
			data.Title = &updateTitle
			changed = true
		}
		if cmd.Flags().Changed("description") {
			data.Description = &updateDescription
			changed = true
		}
		if cmd.Flags().Changed("status") {
			status := types.Status(updateStatus)
			if !status.IsValid() {
				return fmt.Errorf("invalid status: %s", updateStatus)
			}
			data.Status = &status
			changed = true
		}
		if cmd.Flags().Changed("priority") {
			if updatePriority < 0 || updatePriority > 4 {
				return fmt.Errorf("priority must be between 0 and 4 (got %d)", updatePriority)
			}
			data.Priority = &updatePriority
			changed = true
		}
		if cmd.Flags().Changed("parent") {
			parentID := ""
			if updateParent != "" {
				parent, err := t.resolve(updateParent)
				if err != nil {
					return err
				}
				if parent.IssueType != types.TypeEpic {
					return fmt.Errorf("parent %s is a %s, not an epic", parent.ID, parent.IssueType)
				}
				parentID = parent.ID
			}
			data.Parent = &parentID
			changed = true
		}
		if !changed {
			return fmt.Errorf("nothing to update: pass at least one field flag")
		}

		if err := t.append(events.NewUpdate(issue.ID, now(), data)); err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Updated %s\n", green("✓"), issue.ID)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "new description")
	updateCmd.Flags().StringVarP(&updateStatus, "status", "s", "", "new status")
	updateCmd.Flags().IntVarP(&updatePriority, "priority", "p", 2, "new priority 0-4")
	updateCmd.Flags().StringVar(&updateParent, "parent", "", "new parent epic (empty string clears it)")
	rootCmd.AddCommand(updateCmd)
}

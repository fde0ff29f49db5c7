package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/events"
	"github.com/quillhq/quill/internal/graph"
	"github.com/quillhq/quill/internal/resolve"
	"github.com/quillhq/quill/internal/types"
)

var (
	createDescription string
	createType        string
	createPriority    int
	createParent      string
	createBlockedBy   []string
	createVerifies    string
)

var createCmd = &cobra.Command{
	Use:   "create TITLE",
	Short: "Create a new issue",
	Long: `Create a new issue by appending a create event to the log.

The id is generated from the project prefix plus a random suffix, e.g.
PROJ-x7k2m9. Blockers given with --blocked-by may be partial ids.

Examples:
  quill create "Fix login timeout" --type bug -p 1
  quill create "Auth epic" --type epic
  quill create "Wire sessions" --parent auth --blocked-by x7k`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTracker()
		if err != nil {
			return err
		}

		issueType := types.IssueType(createType)
		data := events.CreateData{
			Title:       args[0],
			Description: createDescription,
			IssueType:   issueType,
			Priority:    createPriority,
			Verifies:    createVerifies,
		}

		if createParent != "" {
			parent, err := t.resolve(createParent)
			if err != nil {
				return err
			}
			if parent.IssueType != types.TypeEpic {
				return fmt.Errorf("parent %s is a %s, not an epic", parent.ID, parent.IssueType)
			}
			data.Parent = parent.ID
		}

		id := resolve.GenerateID(t.config.Prefix)

		for _, ref := range createBlockedBy {
			blocker, err := t.resolve(ref)
			if err != nil {
				return err
			}
			if graph.DetectCycle(id, blocker.ID, t.snapshot) {
				return &types.CycleError{IssueID: id, BlockerID: blocker.ID}
			}
			data.BlockedBy = append(data.BlockedBy, blocker.ID)
		}

		issue := &types.Issue{
			ID:        id,
			Title:     data.Title,
			Status:    types.StatusOpen,
			Priority:  data.Priority,
			IssueType: issueType,
			Verifies:  data.Verifies,
		}
		if err := issue.Validate(); err != nil {
			return err
		}

		if err := t.append(events.NewCreate(id, now(), data)); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("%s Created %s: %s\n", green("✓"), cyan(id), data.Title)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "issue description")
	createCmd.Flags().StringVar(&createType, "type", "task", "issue type (task, bug, epic, verification)")
	createCmd.Flags().IntVarP(&createPriority, "priority", "p", 2, "priority 0 (highest) to 4")
	createCmd.Flags().StringVar(&createParent, "parent", "", "parent epic (full or partial id)")
	createCmd.Flags().StringSliceVar(&createBlockedBy, "blocked-by", nil, "blocking issues (full or partial ids)")
	createCmd.Flags().StringVar(&createVerifies, "verifies", "", "issue this verification issue confirms")
	rootCmd.AddCommand(createCmd)
}

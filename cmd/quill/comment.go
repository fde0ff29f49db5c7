package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/events"
)

var commentCmd = &cobra.Command{
	Use:   "comment ID TEXT",
	Short: "Add a comment to an issue",
	Long: `Append a comment event to an issue. The author defaults to the
"author" field of .quill/settings.yaml when present.`,
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

		settings, err := config.LoadSettings(t.logPath)
		if err != nil {
			return err
		}
		if err := t.append(events.NewComment(issue.ID, now(), args[1], settings.Author)); err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Commented on %s\n", green("✓"), issue.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commentCmd)
}

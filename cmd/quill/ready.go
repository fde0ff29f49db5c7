package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/graph"
)

var readyLevels bool

var readyCmd = &cobra.Command{
	Use:   "ready",
	Short: "List issues that are ready to work on",
	Long: `List non-closed issues with no unresolved blockers, sorted by id.

With --levels each issue is annotated with its dependency depth: 0 for
issues with no blockers, otherwise 1 + the deepest blocker level.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTracker()
		if err != nil {
			return err
		}

		issues := graph.Ready(t.snapshot)
		if len(issues) == 0 {
			gray := color.New(color.FgHiBlack).SprintFunc()
			fmt.Println(gray("Nothing is ready"))
			return nil
		}

		levels := map[string]int{}
		if readyLevels {
			levels = graph.Levels(t.snapshot)
		}
		for _, issue := range issues {
			if readyLevels {
				fmt.Printf("L%d ", levels[issue.ID])
			}
			printIssueLine(issue)
		}
		fmt.Printf("\n%d issue(s) ready\n", len(issues))
		return nil
	},
}

func init() {
	readyCmd.Flags().BoolVar(&readyLevels, "levels", false, "annotate each issue with its dependency depth")
	rootCmd.AddCommand(readyCmd)
}

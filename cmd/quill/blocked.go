package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/graph"
)

var blockedCmd = &cobra.Command{
	Use:   "blocked",
	Short: "List issues waiting on unresolved blockers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTracker()
		if err != nil {
			return err
		}

		issues := graph.Blocked(t.snapshot)
		if len(issues) == 0 {
			gray := color.New(color.FgHiBlack).SprintFunc()
			fmt.Println(gray("Nothing is blocked"))
			return nil
		}

		red := color.New(color.FgRed).SprintFunc()
		for _, issue := range issues {
			printIssueLine(issue)
			blockers := graph.OpenBlockers(issue, t.snapshot)
			fmt.Printf("    %s %s\n", red("waiting on:"), strings.Join(blockers, ", "))
		}
		fmt.Printf("\n%d issue(s) blocked\n", len(issues))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(blockedCmd)
}

package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/merge"
	"github.com/quillhq/quill/internal/storage"
)

var mergeCmd = &cobra.Command{
	Use:   "merge LOG...",
	Short: "Show a combined view of several event logs",
	Long: `Read two or more event logs and show the union of their issues.

When the same issue appears in several logs, the variant with the newest
updated timestamp wins. Each issue is annotated with the logs it came
from. The logs themselves are never modified.

Example:
  quill merge .quill/issues.jsonl ../other-checkout/.quill/issues.jsonl`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventSets, err := storage.LoadAll(args)
		if err != nil {
			return err
		}
		sources := make([]merge.Source, len(args))
		for i, path := range args {
			sources[i] = merge.Source{Name: sourceLabel(path, args), Events: eventSets[i]}
		}

		issues := merge.Issues(sources)
		sort.Slice(issues, func(i, j int) bool {
			if issues[i].Priority != issues[j].Priority {
				return issues[i].Priority < issues[j].Priority
			}
			return issues[i].ID < issues[j].ID
		})

		gray := color.New(color.FgHiBlack).SprintFunc()
		for _, mi := range issues {
			printIssueLine(mi.Issue)
			fmt.Printf("    %s\n", gray("from: "+strings.Join(mi.Sources, ", ")))
		}
		fmt.Printf("\n%d issue(s) across %d log(s)\n", len(issues), len(args))
		return nil
	},
}

// sourceLabel shortens a log path to its distinguishing part: the base name
// if unique among the merged paths, the full path otherwise.
func sourceLabel(path string, all []string) string {
	base := filepath.Base(path)
	n := 0
	for _, other := range all {
		if filepath.Base(other) == base {
			n++
		}
	}
	if n > 1 {
		return path
	}
	return base
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}

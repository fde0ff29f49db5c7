package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/events"
	"github.com/quillhq/quill/internal/types"
)

var relateCmd = &cobra.Command{
	Use:   "relate ID OTHER",
	Short: "Link two issues as related",
	Long: `Record a symmetric relation between two issues. Both issues get an
update event so the link is visible from either side.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTracker()
		if err != nil {
			return err
		}
		a, err := t.resolve(args[0])
		if err != nil {
			return err
		}
		b, err := t.resolve(args[1])
		if err != nil {
			return err
		}
		if a.ID == b.ID {
			return fmt.Errorf("cannot relate %s to itself", a.ID)
		}

		ts := now()
		for _, pair := range [][2]*types.Issue{{a, b}, {b, a}} {
			issue, other := pair[0], pair[1]
			if contains(issue.RelatedTo, other.ID) {
				continue
			}
			related := append(append([]string{}, issue.RelatedTo...), other.ID)
			ev := events.NewUpdate(issue.ID, ts, events.UpdateData{RelatedTo: &related})
			if err := t.append(ev); err != nil {
				return err
			}
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Related %s and %s\n", green("✓"), a.ID, b.ID)
		return nil
	},
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(relateCmd)
}

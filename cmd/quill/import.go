package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/importer"
)

var (
	importSkipInvalid bool
	importDryRun      bool
)

var importCmd = &cobra.Command{
	Use:   "import DATABASE",
	Short: "Import issues from a beads SQLite database",
	Long: `Import issues and dependencies from a beads database into the log.

Foreign ids are rewritten under this project's prefix; a mapping is
printed for every id that could not be carried over verbatim. Rows that
fail translation abort the import unless --skip-invalid is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTracker()
		if err != nil {
			return err
		}

		result, err := importer.Import(cmd.Context(), args[0], importer.Options{
			Prefix:      t.config.Prefix,
			SkipInvalid: importSkipInvalid,
		})
		if err != nil {
			return err
		}

		if importDryRun {
			fmt.Printf("Would import %d event(s)\n", len(result.Events))
		} else {
			for _, ev := range result.Events {
				if err := t.append(ev); err != nil {
					return err
				}
			}
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		if !importDryRun {
			fmt.Printf("%s Imported %d event(s) from %s\n", green("✓"), len(result.Events), args[0])
		}
		foreign := make([]string, 0, len(result.IDMap))
		for id := range result.IDMap {
			foreign = append(foreign, id)
		}
		sort.Strings(foreign)
		for _, id := range foreign {
			if local := result.IDMap[id]; local != id {
				fmt.Printf("  %s\n", gray(id+" -> "+local))
			}
		}
		for _, skipped := range result.Skipped {
			fmt.Printf("  %s %s\n", yellow("skipped:"), skipped)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importSkipInvalid, "skip-invalid", false, "skip rows that fail translation instead of aborting")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "translate and report without writing to the log")
	rootCmd.AddCommand(importCmd)
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/storage"
)

var initCmd = &cobra.Command{
	Use:   "init PREFIX",
	Short: "Initialize a new tracker in the current directory",
	Long: `Initialize a new tracker by creating a .quill/ directory.

This creates:
  - .quill/issues.jsonl (empty append-only event log)
  - .quill/config.json  (project prefix and config version)

PREFIX is the 4-letter uppercase id prefix for issues in this project.

Example:
  cd ~/myproject
  quill init PROJ`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := strings.ToUpper(args[0])

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}

		cfg := &config.Config{Prefix: prefix, Version: config.CurrentVersion}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logPath, err := storage.InitProject(cwd)
		if err != nil {
			return err
		}
		if err := config.Write(logPath, cfg); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("%s Initialized tracker\n", green("✓"))
		fmt.Printf("  Event log: %s\n", cyan(logPath))
		fmt.Printf("  Prefix:    %s\n", cyan(prefix))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

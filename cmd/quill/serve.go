package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a read-only HTTP dashboard",
	Long: `Serve the tracker over HTTP: issue listings, dependency trees, the
ready/blocked partition, and a server-sent-events stream that fires when
the log file changes on disk.

The address defaults to the "dashboard" field of .quill/settings.yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := openTracker()
		if err != nil {
			return err
		}
		settings, err := config.LoadSettings(t.logPath)
		if err != nil {
			return err
		}
		if serveAddr != "" {
			settings.Dashboard = serveAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("Serving %s on %s\n", cyan(t.logPath), cyan("http://"+settings.Dashboard))
		return server.New(t.logPath, settings).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (host:port)")
	rootCmd.AddCommand(serveCmd)
}

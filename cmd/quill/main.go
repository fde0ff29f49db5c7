// Command quill is an event-sourced issue tracker. The authoritative record
// is an append-only JSONL event log; every command recomputes issue state by
// folding that log.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/events"
	"github.com/quillhq/quill/internal/resolve"
	"github.com/quillhq/quill/internal/state"
	"github.com/quillhq/quill/internal/storage"
	"github.com/quillhq/quill/internal/types"
)

var logFlag string

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Track work items in an append-only event log",
	Long: `Quill tracks issues whose source of truth is an append-only log of
typed events. Issue state is always derived by replaying the log, so the
log file can be committed, diffed, and merged like any other text file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFlag, "log", "", "path to the event log (default: .quill/issues.jsonl)")
}

// tracker bundles the resolved log location, project config, and the
// snapshot computed from the current log contents.
type tracker struct {
	logPath  string
	config   *config.Config
	snapshot types.Snapshot
}

// openTracker locates the event log, loads the project config, and folds
// the log into a snapshot.
func openTracker() (*tracker, error) {
	logPath := logFlag
	if logPath == "" {
		discovered, err := storage.DiscoverLog()
		if err != nil {
			return nil, err
		}
		logPath = discovered
	}

	cfg, err := config.Load(logPath)
	if err != nil {
		return nil, err
	}

	evs, err := storage.NewFileSource(logPath).Events()
	if err != nil {
		return nil, err
	}

	return &tracker{
		logPath:  logPath,
		config:   cfg,
		snapshot: state.Compute(evs),
	}, nil
}

// resolve maps a full or partial id reference to the issue it names.
func (t *tracker) resolve(ref string) (*types.Issue, error) {
	id, err := resolve.Resolve(ref, t.snapshot)
	if err != nil {
		return nil, err
	}
	return t.snapshot[id], nil
}

// append writes an event to the log and folds it into the in-memory snapshot
// so follow-up events in the same command see the new state.
func (t *tracker) append(ev events.Event) error {
	if err := storage.Append(t.logPath, ev); err != nil {
		return err
	}
	t.snapshot = state.Apply(t.snapshot, ev)
	return nil
}

// now returns the timestamp stamped on new events.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Package storage reads and appends the append-only JSONL event logs that
// back the tracker. Snapshots are never persisted; every read hands the raw
// events to the reducer.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/quillhq/quill/internal/events"
	"github.com/quillhq/quill/internal/types"
)

// Source is an ordered sequence of immutable events read from one
// append-only log.
type Source interface {
	// Name identifies the source in merge provenance.
	Name() string
	// Events reads the full event sequence in append order.
	Events() ([]events.Event, error)
}

// FileSource reads events from a JSON Lines file: one event object per line,
// appended in order. Blank lines are ignored. A line that fails to parse
// aborts the read with MalformedLogError; corruption is surfaced, never
// silently skipped.
type FileSource struct {
	Path string
}

// NewFileSource returns a source backed by the JSONL file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Name returns the file path.
func (s *FileSource) Name() string {
	return s.Path
}

// Events reads every event in the file in append order.
func (s *FileSource) Events() ([]events.Event, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	defer f.Close()

	var evs []events.Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ev events.Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return nil, &types.MalformedLogError{Path: s.Path, Line: lineNo, Err: err}
		}
		evs = append(evs, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading event log %s: %w", s.Path, err)
	}
	return evs, nil
}

// Append writes the event as one JSON line at the end of the log, creating
// the file if needed. Appends are single writes, so concurrent readers see
// either the old log or the new one, never a torn line, assuming the
// filesystem keeps individual line appends atomic. No locking is taken.
func Append(path string, ev events.Event) error {
	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening event log for append: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending event: %w", err)
	}
	return nil
}

// LoadAll reads several logs concurrently and returns them in the order the
// paths were given. The first malformed log fails the whole load.
func LoadAll(paths []string) ([][]events.Event, error) {
	results := make([][]events.Event, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		g.Go(func() error {
			evs, err := NewFileSource(path).Events()
			if err != nil {
				return err
			}
			results[i] = evs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

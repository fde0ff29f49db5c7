// Package merge combines event streams from multiple logs into one view with
// source provenance.
//
// The merge is read-only and fully recomputed on every call; it never writes
// a unified log back to any source. Conflicts between sources are resolved by
// last-write-wins on UpdatedAt: there is no causal merge and no tiebreak
// beyond sort stability, so skewed client clocks can pick the wrong winner.
package merge

import (
	"sort"

	"github.com/quillhq/quill/internal/events"
	"github.com/quillhq/quill/internal/state"
	"github.com/quillhq/quill/internal/types"
)

// Source is one event log identified by name (typically its file path).
type Source struct {
	Name   string
	Events []events.Event
}

// MergedIssue is an issue together with the set of sources that contained it.
type MergedIssue struct {
	*types.Issue
	// Sources lists the names of every source whose log contains this id,
	// sorted; the issue fields come from the last-write-wins variant.
	Sources []string `json:"sources"`
}

// Events concatenates the events of all sources and sorts them by timestamp
// ascending. The sort is stable, so events with equal timestamps keep their
// source-order relative position.
func Events(sources []Source) []events.Event {
	var all []events.Event
	for _, source := range sources {
		all = append(all, source.Events...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.Before(all[j].Timestamp)
	})
	return all
}

// Issues reduces each source independently, then unions the snapshots by id.
// When an id appears in more than one source the variant with the strictly
// greater UpdatedAt wins; the provenance set always records every source
// that contained the id.
func Issues(sources []Source) []MergedIssue {
	winners := make(map[string]*types.Issue)
	provenance := make(map[string][]string)

	for _, source := range sources {
		snapshot := state.Compute(source.Events)
		for id, issue := range snapshot {
			provenance[id] = append(provenance[id], source.Name)
			current, ok := winners[id]
			if !ok || issue.UpdatedAt.After(current.UpdatedAt) {
				winners[id] = issue.Clone()
			}
		}
	}

	ids := make([]string, 0, len(winners))
	for id := range winners {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	merged := make([]MergedIssue, 0, len(ids))
	for _, id := range ids {
		srcs := provenance[id]
		sort.Strings(srcs)
		merged = append(merged, MergedIssue{Issue: winners[id], Sources: srcs})
	}
	return merged
}

// Snapshot returns the merged issues as a plain snapshot, losing provenance.
// Useful for running graph queries over the combined view.
func Snapshot(sources []Source) types.Snapshot {
	snapshot := make(types.Snapshot)
	for _, mi := range Issues(sources) {
		snapshot[mi.ID] = mi.Issue
	}
	return snapshot
}

// Package importer translates foreign issue-tracker exports into quill
// events. The only supported format is a beads SQLite database (the de facto
// interchange format for agent issue trackers).
package importer

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/quillhq/quill/internal/events"
	"github.com/quillhq/quill/internal/resolve"
	"github.com/quillhq/quill/internal/types"
)

// Options controls an import run.
type Options struct {
	// Prefix is the target project's id prefix; imported ids are translated
	// into it.
	Prefix string
	// SkipInvalid skips rows that fail translation instead of aborting.
	// The default matches the primary log's policy: fail fast and surface
	// the corruption rather than silently losing data.
	SkipInvalid bool
}

// Result reports what an import produced.
type Result struct {
	Events  []events.Event
	Skipped []string // row descriptions skipped under SkipInvalid
	IDMap   map[string]string
}

// beadsRow is one row of the foreign issues table.
type beadsRow struct {
	id          string
	title       string
	description string
	status      string
	priority    int
	issueType   string
	createdAt   time.Time
	updatedAt   time.Time
}

var suffixSanitizer = regexp.MustCompile(`[^a-z0-9]`)

// Import reads the beads database at path and returns the event sequence
// that reproduces its issues under the target prefix. The returned events
// are ordered by original creation time so that replaying them through the
// reducer keeps CreatedAt faithful.
func Import(ctx context.Context, path string, opts Options) (*Result, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening beads database: %w", err)
	}
	defer db.Close()

	rows, err := readIssues(ctx, db)
	if err != nil {
		return nil, err
	}

	result := &Result{IDMap: make(map[string]string)}
	for _, row := range rows {
		result.IDMap[row.id] = translateID(row.id, opts.Prefix, result.IDMap)
	}

	deps, err := readDependencies(ctx, db)
	if err != nil {
		return nil, err
	}
	comments, err := readComments(ctx, db)
	if err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].createdAt.Before(rows[j].createdAt) })

	for _, row := range rows {
		evs, err := translateRow(row, deps, comments[row.id], result.IDMap)
		if err != nil {
			if opts.SkipInvalid {
				result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %v", row.id, err))
				continue
			}
			return nil, fmt.Errorf("importing %s: %w", row.id, err)
		}
		result.Events = append(result.Events, evs...)
	}
	return result, nil
}

func readIssues(ctx context.Context, db *sql.DB) ([]beadsRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, title, COALESCE(description, ''), status, priority,
		       issue_type, created_at, updated_at
		FROM issues
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying issues: %w", err)
	}
	defer rows.Close()

	var out []beadsRow
	for rows.Next() {
		var r beadsRow
		if err := rows.Scan(&r.id, &r.title, &r.description, &r.status,
			&r.priority, &r.issueType, &r.createdAt, &r.updatedAt); err != nil {
			return nil, fmt.Errorf("scanning issue row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// dependency rows keyed by issue id: blocks, related, and parent edges.
type foreignDeps struct {
	blocks  map[string][]string
	related map[string][]string
	parent  map[string]string
}

func readDependencies(ctx context.Context, db *sql.DB) (*foreignDeps, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT issue_id, depends_on_id, type
		FROM dependencies
		ORDER BY created_at, issue_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying dependencies: %w", err)
	}
	defer rows.Close()

	deps := &foreignDeps{
		blocks:  make(map[string][]string),
		related: make(map[string][]string),
		parent:  make(map[string]string),
	}
	for rows.Next() {
		var issueID, dependsOnID, depType string
		if err := rows.Scan(&issueID, &dependsOnID, &depType); err != nil {
			return nil, fmt.Errorf("scanning dependency row: %w", err)
		}
		switch depType {
		case "blocks":
			deps.blocks[issueID] = append(deps.blocks[issueID], dependsOnID)
		case "related":
			deps.related[issueID] = append(deps.related[issueID], dependsOnID)
		case "parent-child":
			deps.parent[issueID] = dependsOnID
		default:
			// discovered-from and other beads-specific edge kinds have no
			// quill equivalent; they are dropped, not errors.
		}
	}
	return deps, rows.Err()
}

// foreignComment is one row of the foreign comments table.
type foreignComment struct {
	author    string
	text      string
	createdAt time.Time
}

func readComments(ctx context.Context, db *sql.DB) (map[string][]foreignComment, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT issue_id, author, text, created_at
		FROM comments
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying comments: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]foreignComment)
	for rows.Next() {
		var issueID string
		var c foreignComment
		if err := rows.Scan(&issueID, &c.author, &c.text, &c.createdAt); err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}
		out[issueID] = append(out[issueID], c)
	}
	return out, rows.Err()
}

func translateRow(row beadsRow, deps *foreignDeps, comments []foreignComment, idMap map[string]string) ([]events.Event, error) {
	issueType, err := translateType(row.issueType)
	if err != nil {
		return nil, err
	}
	status, err := translateStatus(row.status)
	if err != nil {
		return nil, err
	}
	if row.title == "" {
		return nil, fmt.Errorf("empty title")
	}
	priority := row.priority
	if priority < 0 || priority > 4 {
		return nil, fmt.Errorf("priority %d out of range", priority)
	}

	newID := idMap[row.id]
	create := events.CreateData{
		Title:       row.title,
		Description: row.description,
		IssueType:   issueType,
		Priority:    priority,
		BlockedBy:   translateIDs(deps.blocks[row.id], idMap),
		RelatedTo:   translateIDs(deps.related[row.id], idMap),
	}
	if parent, ok := deps.parent[row.id]; ok {
		create.Parent = idMap[parent]
	}

	evs := []events.Event{events.NewCreate(newID, row.createdAt, create)}
	for _, c := range comments {
		evs = append(evs, events.NewComment(newID, c.createdAt, c.text, c.author))
	}
	// The status event goes last so the issue's UpdatedAt ends up faithful
	// to the export's updated_at column.
	switch status {
	case types.StatusClosed:
		evs = append(evs, events.NewClose(newID, row.updatedAt, "imported as closed"))
	case types.StatusOpen:
		// create already leaves the issue open
	default:
		evs = append(evs, events.SetStatus(newID, row.updatedAt, status))
	}
	return evs, nil
}

// translateID rebuilds a foreign id under the target prefix, keeping the
// foreign suffix where it fits the id grammar and generating a fresh suffix
// where it does not (or where the translation would collide).
func translateID(foreignID, prefix string, idMap map[string]string) string {
	suffix := foreignID
	if idx := strings.Index(foreignID, "-"); idx >= 0 {
		suffix = foreignID[idx+1:]
	}
	suffix = suffixSanitizer.ReplaceAllString(strings.ToLower(suffix), "")

	candidate := prefix + "-" + suffix
	if suffix == "" || !types.IsFullID(candidate) || taken(candidate, idMap) {
		for {
			candidate = resolve.GenerateID(prefix)
			if !taken(candidate, idMap) {
				return candidate
			}
		}
	}
	return candidate
}

func taken(id string, idMap map[string]string) bool {
	for _, mapped := range idMap {
		if mapped == id {
			return true
		}
	}
	return false
}

func translateIDs(foreign []string, idMap map[string]string) []string {
	var out []string
	for _, id := range foreign {
		if mapped, ok := idMap[id]; ok {
			out = append(out, mapped)
		}
		// Edges pointing at issues absent from the export are dropped; the
		// graph layer would treat them as resolved anyway.
	}
	return out
}

func translateType(foreign string) (types.IssueType, error) {
	switch foreign {
	case "task", "chore":
		return types.TypeTask, nil
	case "bug":
		return types.TypeBug, nil
	case "epic":
		return types.TypeEpic, nil
	case "feature":
		return types.TypeTask, nil
	default:
		return "", fmt.Errorf("unknown issue type %q", foreign)
	}
}

func translateStatus(foreign string) (types.Status, error) {
	switch foreign {
	case "open":
		return types.StatusOpen, nil
	case "in_progress":
		return types.StatusInProgress, nil
	case "blocked":
		return types.StatusBlocked, nil
	case "closed":
		return types.StatusClosed, nil
	default:
		return "", fmt.Errorf("unknown status %q", foreign)
	}
}

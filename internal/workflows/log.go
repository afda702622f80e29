package workflows

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/PolarWolf314/wrench/internal/audit"
	werrors "github.com/PolarWolf314/wrench/internal/errors"
)

const dateFormat = "2006-01-02"

// LogOptions selects audit log entries.
type LogOptions struct {
	// Path is the audit log to read. Defaults to the one in the data directory.
	Path string

	// Limit keeps only the last Limit matching entries. 0 keeps them all.
	Limit int

	// Reverse lists the most recent entry first.
	Reverse bool

	// User keeps entries recorded for this Passbolt username.
	User string

	// Operations is a comma separated list of operations to keep.
	Operations string

	// Since and Until bound the entry dates, both inclusive, as YYYY-MM-DD.
	Since string
	Until string
}

// LogResult holds the selected entries.
type LogResult struct {
	Entries []audit.Entry

	// Total counts the entries of the log, matching or not.
	Total int
}

// entryFilter is the compiled form of LogOptions.
type entryFilter struct {
	user       string
	operations map[string]bool
	from, to   time.Time
}

func newEntryFilter(opts LogOptions) (*entryFilter, error) {
	f := &entryFilter{user: opts.User}

	if opts.Operations != "" {
		f.operations = make(map[string]bool)
		for _, op := range strings.Split(opts.Operations, ",") {
			f.operations[strings.ToLower(strings.TrimSpace(op))] = true
		}
	}

	var err error
	if opts.Since != "" {
		if f.from, err = time.Parse(dateFormat, opts.Since); err != nil {
			return nil, fmt.Errorf("%w: --since date format invalid, use YYYY-MM-DD", werrors.ErrValidation)
		}
	}
	if opts.Until != "" {
		if f.to, err = time.Parse(dateFormat, opts.Until); err != nil {
			return nil, fmt.Errorf("%w: --until date format invalid, use YYYY-MM-DD", werrors.ErrValidation)
		}
		f.to = f.to.AddDate(0, 0, 1)
	}
	return f, nil
}

func (f *entryFilter) match(e audit.Entry) bool {
	if f.user != "" && !strings.EqualFold(e.User, f.user) {
		return false
	}
	if f.operations != nil && !f.operations[strings.ToLower(e.Operation)] {
		return false
	}
	if f.from.IsZero() && f.to.IsZero() {
		return true
	}

	at, ok := entryTime(e.Timestamp)
	if !ok {
		return false
	}
	if !f.from.IsZero() && at.Before(f.from) {
		return false
	}
	return f.to.IsZero() || at.Before(f.to)
}

// Log reads the audit log and returns the entries selected by opts. A missing
// log has no entries.
//
// Returns ErrValidation if a date is not in YYYY-MM-DD format.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	filter, err := newEntryFilter(opts)
	if err != nil {
		return nil, err
	}

	path := opts.Path
	if path == "" {
		path = audit.LogPath()
	}
	entries, err := audit.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	var selected []audit.Entry
	for _, e := range entries {
		if filter.match(e) {
			selected = append(selected, e)
		}
	}

	if opts.Limit > 0 && len(selected) > opts.Limit {
		selected = selected[len(selected)-opts.Limit:]
	}
	if opts.Reverse {
		slices.Reverse(selected)
	}

	return &LogResult{Entries: selected, Total: len(entries)}, nil
}

func entryTime(ts string) (time.Time, bool) {
	for _, layout := range []string{audit.TimestampFormat, time.RFC3339Nano} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDateTime shows an entry timestamp as YYYY-MM-DD HH:MM:SS.
// Unparseable timestamps are shown as recorded.
func FormatDateTime(ts string) string {
	if t, ok := entryTime(ts); ok {
		return t.Format(time.DateTime)
	}
	return ts
}

// FormatDetails describes what an entry changed.
func FormatDetails(e audit.Entry) string {
	switch e.Operation {
	case audit.OpAdd:
		return fmt.Sprintf("%s (%s)", e.ResourceName, e.ResourceID)
	case audit.OpShare:
		return fmt.Sprintf("%s with %d users and %d groups", e.ResourceName, e.UsersCount, e.GroupsCount)
	case audit.OpImport:
		if e.Source != "" {
			return fmt.Sprintf("%d resources from %s", e.Count, e.Source)
		}
		return fmt.Sprintf("%d resources", e.Count)
	case audit.OpImportKey:
		return e.Fingerprint
	default:
		return ""
	}
}

package faillog

import (
	"fmt"
	"net/url"
	"time"

	"github.com/meridianworks/meridian/pkg/query"
	"github.com/meridianworks/meridian/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "failure_log", "f").
	Project("id", "ID").
	Project("logged_at", "LoggedAt").
	Project("tag", "Tag").
	Project("source_ref", "SourceRef").
	Project("message_id", "MessageID").
	Project("reason", "Reason")

var defaultSort = query.SortField{
	Field:      "LoggedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for failure log queries.
// Nil fields are ignored.
type Filters struct {
	Tag   *string    `json:"tag,omitempty"`
	Since *time.Time `json:"since,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Tag", f.Tag).
		WhereAtLeast("LoggedAt", f.Since)
}

// Layouts accepted by time-valued query parameters. Researchers
// usually pass bare dates, so those are accepted alongside full
// timestamps.
var timeLayouts = []string{time.RFC3339, "2006-01-02"}

func parseTimeParam(name, raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"%s must be an RFC 3339 timestamp or a YYYY-MM-DD date, got %q", name, raw)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// An unparseable since value is an error rather than an unfiltered
// listing.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if t := values.Get("tag"); t != "" {
		f.Tag = &t
	}

	if s := values.Get("since"); s != "" {
		ts, err := parseTimeParam("since", s)
		if err != nil {
			return Filters{}, err
		}
		f.Since = &ts
	}

	return f, nil
}

func scanID(s repository.Scanner) (int64, error) {
	var id int64
	err := s.Scan(&id)
	return id, err
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	err := s.Scan(
		&e.ID,
		&e.LoggedAt,
		&e.Tag,
		&e.SourceRef,
		&e.MessageID,
		&e.Reason,
	)
	return e, err
}

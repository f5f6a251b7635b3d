package permits

import (
	"net/url"

	"github.com/meridianworks/meridian/pkg/query"
	"github.com/meridianworks/meridian/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "permits", "p").
	Project("id", "ID").
	Project("permit_number", "PermitNumber").
	Project("issue_date", "IssueDate").
	Project("address_key", "AddressKey").
	Project("address", "Address").
	Project("city", "City").
	Project("owner", "Owner").
	Project("contractor", "Contractor").
	Project("scope", "Scope").
	Project("work_type", "WorkType").
	Project("value", "Value").
	Project("source_ref", "SourceRef").
	Project("confidence", "Confidence").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for permit queries.
// Nil fields are ignored.
type Filters struct {
	City     *string `json:"city,omitempty"`
	WorkType *string `json:"work_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("City", f.City).
		WhereEquals("WorkType", f.WorkType)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("city"); c != "" {
		f.City = &c
	}
	if wt := values.Get("work_type"); wt != "" {
		f.WorkType = &wt
	}

	return f
}

func scanPermit(s repository.Scanner) (Permit, error) {
	var p Permit
	err := s.Scan(
		&p.ID,
		&p.PermitNumber,
		&p.IssueDate,
		&p.AddressKey,
		&p.Address,
		&p.City,
		&p.Owner,
		&p.Contractor,
		&p.Scope,
		&p.WorkType,
		&p.Value,
		&p.SourceRef,
		&p.Confidence,
		&p.CreatedAt,
	)
	return p, err
}

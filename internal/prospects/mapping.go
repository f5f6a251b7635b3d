package prospects

import (
	"net/url"

	"github.com/meridianworks/meridian/pkg/query"
	"github.com/meridianworks/meridian/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "contacts", "c").
	Project("id", "ID").
	Project("name", "Name").
	Project("company", "Company").
	Project("title", "Title").
	Project("email", "Email").
	Project("phone", "Phone").
	Project("requirement", "Requirement").
	Project("notes", "Notes").
	Project("source_ref", "SourceRef").
	Project("confidence", "Confidence").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for contact queries.
// Nil fields are ignored.
type Filters struct {
	Company *string `json:"company,omitempty"`
	Email   *string `json:"email,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Company", f.Company).
		WhereEquals("Email", f.Email)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("company"); c != "" {
		f.Company = &c
	}
	if e := values.Get("email"); e != "" {
		f.Email = &e
	}

	return f
}

func scanContact(s repository.Scanner) (Contact, error) {
	var c Contact
	err := s.Scan(
		&c.ID,
		&c.Name,
		&c.Company,
		&c.Title,
		&c.Email,
		&c.Phone,
		&c.Requirement,
		&c.Notes,
		&c.SourceRef,
		&c.Confidence,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

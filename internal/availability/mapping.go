package availability

import (
	"net/url"

	"github.com/meridianworks/meridian/pkg/query"
	"github.com/meridianworks/meridian/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "availabilities", "a").
	Project("id", "ID").
	Project("kind", "Kind").
	Project("address_key", "AddressKey").
	Project("address", "Address").
	Project("city", "City").
	Project("unit", "Unit").
	Project("floor", "Floor").
	Project("area_sqft", "AreaSqft").
	Project("asking_rate_psf", "AskingRatePSF").
	Project("op_costs_psf", "OpCostsPSF").
	Project("clear_height_ft", "ClearHeightFt").
	Project("loading_doors", "LoadingDoors").
	Project("power", "Power").
	Project("available_date", "AvailableDate").
	Project("notes", "Notes").
	Project("source_ref", "SourceRef").
	Project("confidence", "Confidence").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for listing queries.
// Nil fields are ignored.
type Filters struct {
	Kind       *string `json:"kind,omitempty"`
	City       *string `json:"city,omitempty"`
	AddressKey *string `json:"address_key,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Kind", f.Kind).
		WhereEquals("City", f.City).
		WhereEquals("AddressKey", f.AddressKey)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if k := values.Get("kind"); k != "" {
		f.Kind = &k
	}
	if c := values.Get("city"); c != "" {
		f.City = &c
	}
	if a := values.Get("address_key"); a != "" {
		f.AddressKey = &a
	}

	return f
}

func scanAvailability(s repository.Scanner) (Availability, error) {
	var a Availability
	err := s.Scan(
		&a.ID,
		&a.Kind,
		&a.AddressKey,
		&a.Address,
		&a.City,
		&a.Unit,
		&a.Floor,
		&a.AreaSqft,
		&a.AskingRatePSF,
		&a.OpCostsPSF,
		&a.ClearHeightFt,
		&a.LoadingDoors,
		&a.Power,
		&a.AvailableDate,
		&a.Notes,
		&a.SourceRef,
		&a.Confidence,
		&a.CreatedAt,
	)
	return a, err
}

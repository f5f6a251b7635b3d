package leases

import (
	"net/url"

	"github.com/meridianworks/meridian/pkg/query"
	"github.com/meridianworks/meridian/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "lease_abstracts", "l").
	Project("id", "ID").
	Project("address_key", "AddressKey").
	Project("address", "Address").
	Project("city", "City").
	Project("tenant", "Tenant").
	Project("landlord", "Landlord").
	Project("commencement_date", "CommencementDate").
	Project("expiry_date", "ExpiryDate").
	Project("term_months", "TermMonths").
	Project("area_sqft", "AreaSqft").
	Project("base_rent_psf", "BaseRentPSF").
	Project("deposit", "Deposit").
	Project("free_rent_months", "FreeRentMonths").
	Project("renewal_options", "RenewalOptions").
	Project("notes", "Notes").
	Project("status", "Status").
	Project("source_ref", "SourceRef").
	Project("confidence", "Confidence").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for lease abstract
// queries. Nil fields are ignored.
type Filters struct {
	Status *string `json:"status,omitempty"`
	Tenant *string `json:"tenant,omitempty"`
	City   *string `json:"city,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Tenant", f.Tenant).
		WhereEquals("City", f.City)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if t := values.Get("tenant"); t != "" {
		f.Tenant = &t
	}
	if c := values.Get("city"); c != "" {
		f.City = &c
	}

	return f
}

func scanAbstract(s repository.Scanner) (Abstract, error) {
	var a Abstract
	err := s.Scan(
		&a.ID,
		&a.AddressKey,
		&a.Address,
		&a.City,
		&a.Tenant,
		&a.Landlord,
		&a.CommencementDate,
		&a.ExpiryDate,
		&a.TermMonths,
		&a.AreaSqft,
		&a.BaseRentPSF,
		&a.Deposit,
		&a.FreeRentMonths,
		&a.RenewalOptions,
		&a.Notes,
		&a.Status,
		&a.SourceRef,
		&a.Confidence,
		&a.CreatedAt,
	)
	return a, err
}

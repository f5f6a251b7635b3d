package comps

import (
	"net/url"

	"github.com/meridianworks/meridian/pkg/query"
	"github.com/meridianworks/meridian/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "comps", "c").
	Project("id", "ID").
	Project("address_key", "AddressKey").
	Project("address", "Address").
	Project("city", "City").
	Project("transaction_type", "TransactionType").
	Project("tenant", "Tenant").
	Project("landlord", "Landlord").
	Project("vendor", "Vendor").
	Project("purchaser", "Purchaser").
	Project("start_date", "StartDate").
	Project("term_months", "TermMonths").
	Project("area_sqft", "AreaSqft").
	Project("rate_psf", "RatePSF").
	Project("annual_rent", "AnnualRent").
	Project("sale_price", "SalePrice").
	Project("notes", "Notes").
	Project("status", "Status").
	Project("duplicate_of", "DuplicateOf").
	Project("renewal", "Renewal").
	Project("source_ref", "SourceRef").
	Project("confidence", "Confidence").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for comp queries.
// Nil fields are ignored.
type Filters struct {
	Status          *string `json:"status,omitempty"`
	City            *string `json:"city,omitempty"`
	TransactionType *string `json:"transaction_type,omitempty"`
	AddressKey      *string `json:"address_key,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("City", f.City).
		WhereEquals("TransactionType", f.TransactionType).
		WhereEquals("AddressKey", f.AddressKey)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if c := values.Get("city"); c != "" {
		f.City = &c
	}
	if tt := values.Get("transaction_type"); tt != "" {
		f.TransactionType = &tt
	}
	if k := values.Get("address_key"); k != "" {
		f.AddressKey = &k
	}

	return f
}

func scanComp(s repository.Scanner) (Comp, error) {
	var c Comp
	err := s.Scan(
		&c.ID,
		&c.AddressKey,
		&c.Address,
		&c.City,
		&c.TransactionType,
		&c.Tenant,
		&c.Landlord,
		&c.Vendor,
		&c.Purchaser,
		&c.StartDate,
		&c.TermMonths,
		&c.AreaSqft,
		&c.RatePSF,
		&c.AnnualRent,
		&c.SalePrice,
		&c.Notes,
		&c.Status,
		&c.DuplicateOf,
		&c.Renewal,
		&c.SourceRef,
		&c.Confidence,
		&c.CreatedAt,
	)
	return c, err
}

// Package comps implements the comparable transaction domain: lease
// and sale comps extracted from tagged messages, deduplicated on the
// normalized address key, and stored as pending records for researcher
// review.
package comps

import (
	"time"
)

// Record lifecycle statuses. Every extracted comp lands as pending or
// duplicate; promotion past pending is a manual review action.
const (
	StatusPending   = "pending"
	StatusDuplicate = "duplicate"
)

// Comp represents a stored comparable transaction. It mirrors the
// comps table schema.
type Comp struct {
	ID              int64      `json:"id"`
	AddressKey      string     `json:"address_key"`
	Address         string     `json:"address"`
	City            string     `json:"city"`
	TransactionType string     `json:"transaction_type"`
	Tenant          string     `json:"tenant"`
	Landlord        string     `json:"landlord"`
	Vendor          string     `json:"vendor"`
	Purchaser       string     `json:"purchaser"`
	StartDate       *time.Time `json:"start_date"`
	TermMonths      *int       `json:"term_months"`
	AreaSqft        *float64   `json:"area_sqft"`
	RatePSF         *float64   `json:"rate_psf"`
	AnnualRent      *float64   `json:"annual_rent"`
	SalePrice       *float64   `json:"sale_price"`
	Notes           string     `json:"notes"`
	Status          string     `json:"status"`
	DuplicateOf     *int64     `json:"duplicate_of"`
	Renewal         bool       `json:"renewal"`
	SourceRef       string     `json:"source_ref"`
	Confidence      float64    `json:"confidence"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Counterparty returns the name dedup should compare: the tenant for
// leases, falling back to purchaser then vendor for sales.
func (c *Comp) Counterparty() string {
	if c.Tenant != "" {
		return c.Tenant
	}
	if c.Purchaser != "" {
		return c.Purchaser
	}
	return c.Vendor
}

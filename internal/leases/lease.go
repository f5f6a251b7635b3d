// Package leases implements the lease abstract domain. The drafter tag
// produces a pending abstract for review; the underwrite tag runs the
// same extraction and hands the abstract to an injected model builder.
package leases

import (
	"time"
)

// Record lifecycle statuses.
const (
	StatusPending = "pending"
)

// Abstract represents a stored lease abstract. It mirrors the
// lease_abstracts table schema.
type Abstract struct {
	ID               int64      `json:"id"`
	AddressKey       string     `json:"address_key"`
	Address          string     `json:"address"`
	City             string     `json:"city"`
	Tenant           string     `json:"tenant"`
	Landlord         string     `json:"landlord"`
	CommencementDate *time.Time `json:"commencement_date"`
	ExpiryDate       *time.Time `json:"expiry_date"`
	TermMonths       *int       `json:"term_months"`
	AreaSqft         *float64   `json:"area_sqft"`
	BaseRentPSF      *float64   `json:"base_rent_psf"`
	Deposit          *float64   `json:"deposit"`
	FreeRentMonths   *int       `json:"free_rent_months"`
	RenewalOptions   string     `json:"renewal_options"`
	Notes            string     `json:"notes"`
	Status           string     `json:"status"`
	SourceRef        string     `json:"source_ref"`
	Confidence       float64    `json:"confidence"`
	CreatedAt        time.Time  `json:"created_at"`
}

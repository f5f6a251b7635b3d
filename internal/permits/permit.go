// Package permits implements the building permit domain. Permits are
// keyed by their municipal permit number: a repeat submission gap-fills
// the existing record instead of creating a second row.
package permits

import (
	"strings"
	"time"
)

// ReportingFloor is the minimum construction value worth recording.
// Small permits are acknowledged but not stored.
const ReportingFloor = 350000

// Work-class prefixes municipalities put on permit numbers. Commercial
// work carries COMM-; the other classes are residential or ancillary
// and are acknowledged without being stored. Numbers without a class
// prefix (BP-2025-01447 style) carry no class information and pass
// through.
var nonCommercialPrefixes = []string{
	"ACC-", "DECK-", "DEMO-", "HALT-", "INST-", "MFR-",
	"SFD-", "SIGN-", "TENT-", "PLUMB-", "FIRE-", "MOVE-",
}

// classifiedNonCommercial reports whether the permit number carries a
// work-class prefix other than COMM-.
func classifiedNonCommercial(permitNumber string) bool {
	n := strings.ToUpper(permitNumber)
	for _, p := range nonCommercialPrefixes {
		if strings.HasPrefix(n, p) {
			return true
		}
	}
	return false
}

// Permit represents a stored building permit. It mirrors the permits
// table schema.
type Permit struct {
	ID           int64      `json:"id"`
	PermitNumber string     `json:"permit_number"`
	IssueDate    *time.Time `json:"issue_date"`
	AddressKey   string     `json:"address_key"`
	Address      string     `json:"address"`
	City         string     `json:"city"`
	Owner        string     `json:"owner"`
	Contractor   string     `json:"contractor"`
	Scope        string     `json:"scope"`
	WorkType     string     `json:"work_type"`
	Value        *float64   `json:"value"`
	SourceRef    string     `json:"source_ref"`
	Confidence   float64    `json:"confidence"`
	CreatedAt    time.Time  `json:"created_at"`
}

// gapFill copies candidate values into existing fields that are empty
// or nil, never overwriting populated data. It returns the names of
// the fields it filled.
func gapFill(existing, candidate *Permit) []string {
	var filled []string

	fillString := func(name string, dst *string, src string) {
		if *dst == "" && src != "" {
			*dst = src
			filled = append(filled, name)
		}
	}

	fillString("address", &existing.Address, candidate.Address)
	fillString("city", &existing.City, candidate.City)
	fillString("owner", &existing.Owner, candidate.Owner)
	fillString("contractor", &existing.Contractor, candidate.Contractor)
	fillString("scope", &existing.Scope, candidate.Scope)
	fillString("work_type", &existing.WorkType, candidate.WorkType)

	if existing.AddressKey == "" && candidate.AddressKey != "" {
		existing.AddressKey = candidate.AddressKey
		filled = append(filled, "address_key")
	}
	if existing.IssueDate == nil && candidate.IssueDate != nil {
		existing.IssueDate = candidate.IssueDate
		filled = append(filled, "issue_date")
	}
	if existing.Value == nil && candidate.Value != nil {
		existing.Value = candidate.Value
		filled = append(filled, "value")
	}

	return filled
}

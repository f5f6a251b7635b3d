// Package availability implements the listing domain: industrial bays
// and office suites extracted in batches from availability reports.
// One message commonly yields many listings; items that fail
// validation are skipped and counted without sinking their siblings.
package availability

import (
	"time"

	"github.com/meridianworks/meridian/internal/extraction"
	"github.com/meridianworks/meridian/internal/normalize"
)

// Listing kinds, matching the extraction class that produced them.
const (
	KindIndustrial = "industrial"
	KindOffice     = "office"
)

// Availability represents one stored listing. It mirrors the
// availabilities table schema. Unit holds the bay for industrial
// listings and the suite for office listings.
type Availability struct {
	ID            int64      `json:"id"`
	Kind          string     `json:"kind"`
	AddressKey    string     `json:"address_key"`
	Address       string     `json:"address"`
	City          string     `json:"city"`
	Unit          string     `json:"unit"`
	Floor         string     `json:"floor,omitempty"`
	AreaSqft      *float64   `json:"area_sqft"`
	AskingRatePSF *float64   `json:"asking_rate_psf"`
	OpCostsPSF    *float64   `json:"op_costs_psf"`
	ClearHeightFt *float64   `json:"clear_height_ft,omitempty"`
	LoadingDoors  *float64   `json:"loading_doors,omitempty"`
	Power         string     `json:"power,omitempty"`
	AvailableDate *time.Time `json:"available_date"`
	Notes         string     `json:"notes"`
	SourceRef     string     `json:"source_ref"`
	Confidence    float64    `json:"confidence"`
	CreatedAt     time.Time  `json:"created_at"`
}

// fromItem builds a listing from one batch extraction item. The kind
// decides which unit designator field applies.
func fromItem(m *extraction.Merged, kind, sourceRef string) *Availability {
	a := &Availability{
		Kind:       kind,
		Address:    m.String("address"),
		City:       m.String("city"),
		Notes:      m.String("notes"),
		SourceRef:  sourceRef,
		Confidence: m.Confidence,
	}

	switch kind {
	case KindIndustrial:
		a.Unit = m.String("unit")
		a.Power = m.String("power")
		if f, ok := m.Float("clear_height_ft"); ok {
			a.ClearHeightFt = &f
		}
		if f, ok := m.Float("loading_doors"); ok {
			a.LoadingDoors = &f
		}
	case KindOffice:
		a.Unit = m.String("suite")
		a.Floor = m.String("floor")
	}

	if key, ok := normalize.MatchKey(a.Address, a.City); ok {
		a.AddressKey = key
	}
	if f, ok := m.Float("area_sqft"); ok {
		a.AreaSqft = &f
	}
	if f, ok := m.Float("asking_rate_psf"); ok {
		a.AskingRatePSF = &f
	}
	if f, ok := m.Float("op_costs_psf"); ok {
		a.OpCostsPSF = &f
	}
	if d, ok := m.Date("available_date"); ok {
		a.AvailableDate = &d
	}

	return a
}

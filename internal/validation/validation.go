// Package validation implements the anti-hallucination layer: required
// field checks, per-class numeric range bands, and grounding of
// extracted numbers against the source text. One malformed sub-item in
// a batch is skipped and counted, not fatal; a record missing a
// structurally required field is rejected outright.
package validation

import (
	"errors"
	"fmt"

	"github.com/meridianworks/meridian/internal/extraction"
)

// Validation failure categories. Callers wrap these into failure log
// reasons.
var (
	ErrMissingField = errors.New("required field missing")
	ErrOutOfRange   = errors.New("value out of plausible range")
	ErrUngrounded   = errors.New("numeric value not grounded in source text")
	ErrEmptyResult  = errors.New("extraction produced no fields")
)

// Required verifies that every named field carries a value.
func Required(m *extraction.Merged, fields ...string) error {
	if m.Empty() {
		return ErrEmptyResult
	}
	for _, name := range fields {
		if m.String(name) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}
	return nil
}

// Band is an inclusive plausibility range for one numeric field.
type Band struct {
	Field string
	Min   float64
	Max   float64
}

// Fixed per-class plausibility bands. Values outside a band are treated
// as extraction errors, not data.
var classBands = map[extraction.Class][]Band{
	extraction.ClassComp: {
		{Field: "area_sqft", Min: 1, Max: 2_000_000},
		{Field: "rate_psf", Min: 0.5, Max: 500},
		{Field: "annual_rent", Min: 1, Max: 100_000_000},
		{Field: "sale_price", Min: 1, Max: 500_000_000},
		{Field: "term_months", Min: 1, Max: 600},
	},
	extraction.ClassPermit: {
		{Field: "value", Min: 1, Max: 1_000_000_000},
	},
	extraction.ClassIndustrial: {
		{Field: "area_sqft", Min: 1, Max: 1_000_000},
		{Field: "asking_rate_psf", Min: 1, Max: 60},
		{Field: "op_costs_psf", Min: 0.5, Max: 30},
		{Field: "clear_height_ft", Min: 8, Max: 60},
	},
	extraction.ClassOffice: {
		{Field: "area_sqft", Min: 100, Max: 100_000},
		{Field: "asking_rate_psf", Min: 8, Max: 80},
		{Field: "op_costs_psf", Min: 1, Max: 40},
	},
	extraction.ClassLease: {
		{Field: "area_sqft", Min: 1, Max: 2_000_000},
		{Field: "base_rent_psf", Min: 0.5, Max: 500},
		{Field: "term_months", Min: 1, Max: 600},
	},
}

// BandsFor returns the plausibility bands registered for a class.
func BandsFor(c extraction.Class) []Band {
	return classBands[c]
}

// CheckBands verifies every present banded field parses as a number
// within its band. A banded field that is present but non-numeric is an
// out-of-range failure.
func CheckBands(m *extraction.Merged, bands []Band) error {
	for _, band := range bands {
		if !m.Has(band.Field) {
			continue
		}
		v, ok := m.Float(band.Field)
		if !ok {
			return fmt.Errorf("%w: %s is not numeric", ErrOutOfRange, band.Field)
		}
		if v < band.Min || v > band.Max {
			return fmt.Errorf(
				"%w: %s = %g outside [%g, %g]",
				ErrOutOfRange, band.Field, v, band.Min, band.Max,
			)
		}
	}
	return nil
}

// VerifyGrounding checks that every explicit numeric field among the
// banded fields appears literally in the source text in at least one
// accepted rendering. Inferred fields are exempt: derivation is their
// entire point, and their provenance and confidence already mark them.
func VerifyGrounding(m *extraction.Merged, bands []Band, source string) error {
	for _, band := range bands {
		f, ok := m.Fields[band.Field]
		if !ok || f.Provenance != extraction.ProvenanceExplicit {
			continue
		}
		v, ok := m.Float(band.Field)
		if !ok {
			continue
		}
		if !Grounded(v, source) {
			return fmt.Errorf("%w: %s = %g", ErrUngrounded, band.Field, v)
		}
	}
	return nil
}

// Validate runs the full check sequence for a merged extraction:
// required fields, range bands, and numeric grounding.
func Validate(m *extraction.Merged, source string, required ...string) error {
	if err := Required(m, required...); err != nil {
		return err
	}
	bands := BandsFor(m.Class)
	if err := CheckBands(m, bands); err != nil {
		return err
	}
	return VerifyGrounding(m, bands, source)
}

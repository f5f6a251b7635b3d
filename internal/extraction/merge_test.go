package extraction_test

import (
	"math"
	"slices"
	"testing"

	"github.com/meridianworks/meridian/internal/extraction"
)

func fv(value any, confidence float64) *extraction.FieldValue {
	return &extraction.FieldValue{Value: value, Confidence: confidence}
}

func TestMergeExplicitWins(t *testing.T) {
	fields := []string{"tenant", "area_sqft"}
	explicit := extraction.Pass{
		"tenant": fv("Acme Logistics", 0.9),
	}
	inferred := extraction.Pass{
		"tenant":    fv("Acme Logistics Ltd", 0.6),
		"area_sqft": fv(12500.0, 0.5),
	}

	m := extraction.Merge(extraction.ClassComp, explicit, inferred, fields)

	tenant := m.Fields["tenant"]
	if tenant.Value != "Acme Logistics" {
		t.Errorf("tenant = %v, want pass-one value", tenant.Value)
	}
	if tenant.Provenance != extraction.ProvenanceExplicit {
		t.Errorf("tenant provenance = %s, want explicit", tenant.Provenance)
	}

	area := m.Fields["area_sqft"]
	if area.Provenance != extraction.ProvenanceInferred {
		t.Errorf("area provenance = %s, want inferred", area.Provenance)
	}
}

func TestMergeConfidenceDefaults(t *testing.T) {
	fields := []string{"a", "b"}
	explicit := extraction.Pass{"a": fv("x", 0)}
	inferred := extraction.Pass{"b": fv("y", 0)}

	m := extraction.Merge(extraction.ClassComp, explicit, inferred, fields)

	if got := m.Fields["a"].Confidence; got != 0.8 {
		t.Errorf("explicit default confidence = %v, want 0.8", got)
	}
	if got := m.Fields["b"].Confidence; got != 0.5 {
		t.Errorf("inferred default confidence = %v, want 0.5", got)
	}
	if want := (0.8 + 0.5) / 2; math.Abs(m.Confidence-want) > 1e-9 {
		t.Errorf("aggregate confidence = %v, want %v", m.Confidence, want)
	}
}

func TestMergeMissingFields(t *testing.T) {
	fields := []string{"a", "b", "c"}
	explicit := extraction.Pass{
		"a": fv("x", 0.7),
		"b": nil,
	}

	m := extraction.Merge(extraction.ClassPermit, explicit, nil, fields)

	if !slices.Equal(m.Missing, []string{"b", "c"}) {
		t.Errorf("Missing = %v, want [b c]", m.Missing)
	}
	if m.Empty() {
		t.Error("Empty() = true with one field present")
	}
}

func TestMergeAllEmpty(t *testing.T) {
	fields := []string{"a", "b"}
	m := extraction.Merge(extraction.ClassComp, nil, nil, fields)

	if !m.Empty() {
		t.Error("Empty() = false for empty passes")
	}
	if m.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", m.Confidence)
	}
	if len(m.Missing) != 2 {
		t.Errorf("Missing = %v, want both fields", m.Missing)
	}
}

func TestMergeBlankStringTreatedAsMissing(t *testing.T) {
	m := extraction.Merge(extraction.ClassComp, extraction.Pass{"a": fv("  ", 0.9)}, nil, []string{"a"})
	if !m.Empty() {
		t.Error("blank string value should be treated as missing")
	}
}

func TestMergedValueHelpers(t *testing.T) {
	m := extraction.Merge(extraction.ClassComp, extraction.Pass{
		"tenant":    fv("Acme", 0.9),
		"area_sqft": fv("12,500 ", 0.9),
		"rate_psf":  fv(14.5, 0.9),
	}, nil, []string{"tenant", "area_sqft", "rate_psf"})

	if got := m.String("tenant"); got != "Acme" {
		t.Errorf("String(tenant) = %q", got)
	}
	if got, ok := m.Float("area_sqft"); !ok || got != 12500 {
		t.Errorf("Float(area_sqft) = %v, %v", got, ok)
	}
	if got, ok := m.Float("rate_psf"); !ok || got != 14.5 {
		t.Errorf("Float(rate_psf) = %v, %v", got, ok)
	}
	if _, ok := m.Float("tenant"); ok {
		t.Error("Float(tenant) ok = true for non-numeric")
	}
	if m.Has("missing") {
		t.Error("Has(missing) = true")
	}
}

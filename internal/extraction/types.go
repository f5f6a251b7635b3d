// Package extraction implements the multi-pass inference extraction
// engine. Each document class has a schema and a prompt pair: pass one
// asks the inference service for values literally present in the source
// text, pass two (comparable transactions only) may propose values
// inferable from context. Results merge with per-field confidence and
// provenance bookkeeping.
package extraction

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Provenance marks which pass produced a merged field value.
type Provenance string

const (
	// ProvenanceExplicit marks a value literally present in the source.
	ProvenanceExplicit Provenance = "explicit"
	// ProvenanceInferred marks a value the second pass derived from context.
	ProvenanceInferred Provenance = "inferred"
)

// Default confidences applied when the service omits one.
const (
	defaultExplicitConfidence = 0.8
	defaultInferredConfidence = 0.5
)

// FieldValue is one field's output from a single inference pass.
type FieldValue struct {
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Pass maps schema field names to extracted values. A nil entry or an
// absent key both mean the pass found nothing for that field.
type Pass map[string]*FieldValue

// Field is a merged per-field result with provenance.
type Field struct {
	Value      any        `json:"value"`
	Confidence float64    `json:"confidence"`
	Provenance Provenance `json:"provenance"`
}

// Merged is the combined outcome of all passes for one document.
type Merged struct {
	Class      Class            `json:"class"`
	Fields     map[string]Field `json:"fields"`
	Missing    []string         `json:"missing"`
	Confidence float64          `json:"confidence"`
	Summary    string           `json:"summary"`
}

// Empty reports whether no field survived any pass.
func (m *Merged) Empty() bool {
	return len(m.Fields) == 0
}

// String returns the named field as a trimmed string, or "" when the
// field is missing, nil, or not textual.
func (m *Merged) String(name string) string {
	f, ok := m.Fields[name]
	if !ok || f.Value == nil {
		return ""
	}
	switch v := f.Value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// Float returns the named field as a float64. Numeric strings are
// parsed after stripping currency symbols and group separators.
func (m *Merged) Float(name string) (float64, bool) {
	f, ok := m.Fields[name]
	if !ok || f.Value == nil {
		return 0, false
	}
	switch v := f.Value.(type) {
	case float64:
		return v, true
	case string:
		cleaned := strings.Map(func(r rune) rune {
			switch r {
			case '$', ',', ' ':
				return -1
			}
			return r
		}, strings.TrimSpace(v))
		n, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// dateLayouts covers the formats the inference service returns dates
// in. ISO first: prompts ask for it, but the service is not always
// obedient.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"01/02/2006",
}

// Date returns the named field parsed as a calendar date.
func (m *Merged) Date(name string) (time.Time, bool) {
	s := m.String(name)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Int returns the named field as an int.
func (m *Merged) Int(name string) (int, bool) {
	f, ok := m.Float(name)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Has reports whether the named field carries a non-nil value.
func (m *Merged) Has(name string) bool {
	f, ok := m.Fields[name]
	return ok && f.Value != nil
}

// Merge combines an explicit and an inferred pass over the schema's
// field list. Explicit values always win; inferred values fill the
// remainder; fields absent from both are recorded as missing. The
// aggregate confidence is the arithmetic mean over non-missing fields.
func Merge(class Class, explicit, inferred Pass, fields []string) *Merged {
	m := &Merged{
		Class:  class,
		Fields: make(map[string]Field),
	}

	var explicitCount, inferredCount int
	var sum float64

	for _, name := range fields {
		if fv := present(explicit, name); fv != nil {
			conf := fv.Confidence
			if conf == 0 {
				conf = defaultExplicitConfidence
			}
			m.Fields[name] = Field{Value: fv.Value, Confidence: conf, Provenance: ProvenanceExplicit}
			explicitCount++
			sum += conf
			continue
		}

		if fv := present(inferred, name); fv != nil {
			conf := fv.Confidence
			if conf == 0 {
				conf = defaultInferredConfidence
			}
			m.Fields[name] = Field{Value: fv.Value, Confidence: conf, Provenance: ProvenanceInferred}
			inferredCount++
			sum += conf
			continue
		}

		m.Missing = append(m.Missing, name)
	}

	sort.Strings(m.Missing)

	if n := explicitCount + inferredCount; n > 0 {
		m.Confidence = sum / float64(n)
	}

	m.Summary = fmt.Sprintf(
		"extracted %d of %d fields (%d explicit, %d inferred, %d missing), confidence %.2f",
		explicitCount+inferredCount, len(fields), explicitCount, inferredCount, len(m.Missing), m.Confidence,
	)

	return m
}

func present(p Pass, name string) *FieldValue {
	if p == nil {
		return nil
	}
	fv, ok := p[name]
	if !ok || fv == nil || fv.Value == nil {
		return nil
	}
	if s, ok := fv.Value.(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}
	return fv
}

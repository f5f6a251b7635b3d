package extraction_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/meridianworks/meridian/internal/extraction"
	"github.com/meridianworks/meridian/internal/inference"
)

// fakeCompleter returns canned responses in call order.
type fakeCompleter struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeCompleter) Complete(_ context.Context, msgs []inference.Message, _ int) (string, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, msgs[len(msgs)-1].Content)

	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", nil
}

func (f *fakeCompleter) CompleteLarge(ctx context.Context, msgs []inference.Message, n int) (string, error) {
	return f.Complete(ctx, msgs, n)
}

func newEngine(fake *fakeCompleter) *extraction.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return extraction.NewEngine(fake, logger)
}

func TestExtractTwoPass(t *testing.T) {
	fake := &fakeCompleter{responses: []string{
		`{"tenant":{"value":"Acme Logistics","confidence":0.9},"area_sqft":null}`,
		`{"tenant":null,"area_sqft":{"value":12500,"confidence":0.4}}`,
	}}

	m, err := newEngine(fake).Extract(context.Background(), extraction.ClassComp, "lease text")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if fake.calls != 2 {
		t.Fatalf("calls = %d, want 2 for comp class", fake.calls)
	}
	if m.Fields["tenant"].Provenance != extraction.ProvenanceExplicit {
		t.Error("tenant should be explicit")
	}
	if m.Fields["area_sqft"].Provenance != extraction.ProvenanceInferred {
		t.Error("area_sqft should be inferred")
	}
	if !strings.Contains(fake.prompts[1], "first extraction pass") {
		t.Error("second prompt should carry pass-one context")
	}
}

func TestExtractSinglePassClasses(t *testing.T) {
	fake := &fakeCompleter{responses: []string{
		`{"permit_number":{"value":"COMM-2025-01234","confidence":0.95}}`,
	}}

	m, err := newEngine(fake).Extract(context.Background(), extraction.ClassPermit, "permit text")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("calls = %d, want 1 for permit class", fake.calls)
	}
	if got := m.String("permit_number"); got != "COMM-2025-01234" {
		t.Errorf("permit_number = %q", got)
	}
}

func TestExtractMalformedPassDegrades(t *testing.T) {
	fake := &fakeCompleter{responses: []string{
		"I could not find any fields, sorry!",
		`{"area_sqft":{"value":5000,"confidence":0.4}}`,
	}}

	m, err := newEngine(fake).Extract(context.Background(), extraction.ClassComp, "text")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if m.Fields["area_sqft"].Provenance != extraction.ProvenanceInferred {
		t.Error("second pass should still contribute after first pass degrades")
	}
}

func TestExtractBothPassesFailing(t *testing.T) {
	fake := &fakeCompleter{errs: []error{inference.ErrUnavailable, inference.ErrUnavailable}}

	m, err := newEngine(fake).Extract(context.Background(), extraction.ClassComp, "text")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if !m.Empty() {
		t.Error("both passes failing should yield an empty extraction")
	}
	if m.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", m.Confidence)
	}
}

func TestExtractFencedResponse(t *testing.T) {
	fake := &fakeCompleter{responses: []string{
		"```json\n{\"permit_number\":{\"value\":\"COMM-2025-7\",\"confidence\":0.9}}\n```",
	}}

	m, err := newEngine(fake).Extract(context.Background(), extraction.ClassPermit, "text")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if got := m.String("permit_number"); got != "COMM-2025-7" {
		t.Errorf("permit_number = %q", got)
	}
}

func TestExtractBatch(t *testing.T) {
	fake := &fakeCompleter{responses: []string{
		`[{"unit":{"value":"A","confidence":0.9},"area_sqft":{"value":4000,"confidence":0.9}},
		  {"unit":{"value":"B","confidence":0.8},"area_sqft":{"value":6200,"confidence":0.9}}]`,
	}}

	items, err := newEngine(fake).ExtractBatch(context.Background(), extraction.ClassIndustrial, "listing text")
	if err != nil {
		t.Fatalf("ExtractBatch error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if got := items[1].String("unit"); got != "B" {
		t.Errorf("second unit = %q", got)
	}
}

func TestExtractBatchMalformed(t *testing.T) {
	fake := &fakeCompleter{responses: []string{"no listings here"}}

	items, err := newEngine(fake).ExtractBatch(context.Background(), extraction.ClassIndustrial, "text")
	if err != nil {
		t.Fatalf("ExtractBatch error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %d, want 0 for malformed response", len(items))
	}
}

package faillog_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meridianworks/meridian/internal/faillog"
	"github.com/meridianworks/meridian/pkg/pagination"
)

type fakeSystem struct {
	entries   []faillog.Entry
	lastPage  pagination.PageRequest
	lastFilt  faillog.Filters
	listCalls int
	pruneFrom time.Time
	pruned    int
}

func (f *fakeSystem) Handler() *faillog.Handler {
	return faillog.NewHandler(f, slog.Default(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
}

func (f *fakeSystem) Record(_ context.Context, cmd faillog.RecordCommand) (*faillog.Entry, error) {
	e := faillog.Entry{
		ID:        int64(len(f.entries) + 1),
		LoggedAt:  time.Now(),
		Tag:       cmd.Tag,
		SourceRef: cmd.SourceRef,
		MessageID: cmd.MessageID,
		Reason:    cmd.Reason,
	}
	f.entries = append(f.entries, e)
	return &e, nil
}

func (f *fakeSystem) List(
	_ context.Context,
	page pagination.PageRequest,
	filters faillog.Filters,
) (*pagination.PageResult[faillog.Entry], error) {
	f.lastPage = page
	f.lastFilt = filters
	f.listCalls++
	result := pagination.NewPageResult(f.entries, len(f.entries), page.Page, page.PageSize)
	return &result, nil
}

func (f *fakeSystem) Prune(_ context.Context, olderThan time.Time) (int, error) {
	f.pruneFrom = olderThan
	return f.pruned, nil
}

func TestListPassesFilters(t *testing.T) {
	sys := &fakeSystem{
		entries: []faillog.Entry{
			{ID: 1, Tag: "comp", Reason: "no address extracted"},
		},
	}
	h := sys.Handler()

	req := httptest.NewRequest("GET", "/failures?tag=comp&since=2025-08-01T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	if sys.lastFilt.Tag == nil || *sys.lastFilt.Tag != "comp" {
		t.Errorf("tag filter not passed through: %+v", sys.lastFilt)
	}
	if sys.lastFilt.Since == nil {
		t.Fatal("since filter not passed through")
	}
	want := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	if !sys.lastFilt.Since.Equal(want) {
		t.Errorf("since = %v, want %v", sys.lastFilt.Since, want)
	}

	var result pagination.PageResult[faillog.Entry]
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("total = %d, want 1", result.Total)
	}
}

func TestListAcceptsDateOnlySince(t *testing.T) {
	sys := &fakeSystem{}
	h := sys.Handler()

	req := httptest.NewRequest("GET", "/failures?since=2026-01-01", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if sys.lastFilt.Since == nil {
		t.Fatal("date-only since not passed through")
	}
	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if !sys.lastFilt.Since.Equal(want) {
		t.Errorf("since = %v, want %v", sys.lastFilt.Since, want)
	}
}

func TestListRejectsMalformedSince(t *testing.T) {
	sys := &fakeSystem{}
	h := sys.Handler()

	req := httptest.NewRequest("GET", "/failures?since=yesterday", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if sys.listCalls != 0 {
		t.Errorf("list called %d times with malformed since, want 0", sys.listCalls)
	}
}

func TestListHonorsLimit(t *testing.T) {
	sys := &fakeSystem{}
	h := sys.Handler()

	req := httptest.NewRequest("GET", "/failures?limit=5", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if sys.lastPage.PageSize != 5 {
		t.Errorf("page size = %d, want 5", sys.lastPage.PageSize)
	}
}

func TestListPageSizeWinsOverLimit(t *testing.T) {
	sys := &fakeSystem{}
	h := sys.Handler()

	req := httptest.NewRequest("GET", "/failures?page_size=30&limit=5", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if sys.lastPage.PageSize != 30 {
		t.Errorf("page size = %d, want 30", sys.lastPage.PageSize)
	}
}

func TestPruneRequiresOlderThan(t *testing.T) {
	sys := &fakeSystem{}
	h := sys.Handler()

	req := httptest.NewRequest("DELETE", "/failures", nil)
	rec := httptest.NewRecorder()
	h.Prune(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestPruneReportsRemovedCount(t *testing.T) {
	sys := &fakeSystem{pruned: 12}
	h := sys.Handler()

	req := httptest.NewRequest("DELETE", "/failures?olderThan=2025-01-01T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	h.Prune(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["removed"] != 12 {
		t.Errorf("removed = %d, want 12", body["removed"])
	}

	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !sys.pruneFrom.Equal(want) {
		t.Errorf("olderThan = %v, want %v", sys.pruneFrom, want)
	}
}

func TestPruneAcceptsDateOnly(t *testing.T) {
	sys := &fakeSystem{pruned: 3}
	h := sys.Handler()

	req := httptest.NewRequest("DELETE", "/failures?olderThan=2025-06-01", nil)
	rec := httptest.NewRecorder()
	h.Prune(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !sys.pruneFrom.Equal(want) {
		t.Errorf("olderThan = %v, want %v", sys.pruneFrom, want)
	}
}

func TestPruneRejectsMalformedOlderThan(t *testing.T) {
	sys := &fakeSystem{}
	h := sys.Handler()

	req := httptest.NewRequest("DELETE", "/failures?olderThan=last-week", nil)
	rec := httptest.NewRecorder()
	h.Prune(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

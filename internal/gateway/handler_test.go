package gateway_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/meridianworks/meridian/internal/config"
	"github.com/meridianworks/meridian/internal/gateway"
	"github.com/meridianworks/meridian/internal/mail"
	"github.com/meridianworks/meridian/internal/router"
	"github.com/meridianworks/meridian/pkg/lifecycle"
	"github.com/meridianworks/meridian/pkg/routes"
)

const testSecret = "gw-secret"

type fakeStore struct {
	uploads []string
}

func (f *fakeStore) Start(lc *lifecycle.Coordinator) error { return nil }

func (f *fakeStore) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	f.uploads = append(f.uploads, key)
	return nil
}

func (f *fakeStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error { return nil }

func (f *fakeStore) Exists(ctx context.Context, key string) (bool, error) { return false, nil }

type fakeDispatch struct {
	msg     *mail.Message
	outcome *router.Outcome
}

func (f *fakeDispatch) Dispatch(ctx context.Context, msg *mail.Message) *router.Outcome {
	f.msg = msg
	return f.outcome
}

func newTestServer(
	t *testing.T,
	allowed []string,
	outcome *router.Outcome,
) (*httptest.Server, *fakeDispatch, *fakeStore) {
	t.Helper()

	cfg := config.InboundConfig{
		BasePath:       "/inbound",
		Secret:         testSecret,
		AllowedSenders: allowed,
		MaxMessageSize: "25MB",
	}
	store := &fakeStore{}
	dispatch := &fakeDispatch{outcome: outcome}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	gw := gateway.New(cfg, store, dispatch, logger)
	mux := http.NewServeMux()
	routes.Register(mux, gw.Handler().Routes())

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, dispatch, store
}

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func passedAuth() map[string]bool {
	return map[string]bool{
		"authenticated":      true,
		"sender_policy_pass": true,
		"domain_key_pass":    true,
	}
}

func TestSubmitRejectsBadSecret(t *testing.T) {
	srv, dispatch, _ := newTestServer(t, []string{"colliers.com"}, nil)

	resp := postJSON(t, srv.URL+"/messages", "wrong-secret", map[string]any{
		"from": "researcher@colliers.com",
		"auth": passedAuth(),
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if dispatch.msg != nil {
		t.Fatal("dispatcher should not be called on auth failure")
	}
}

func TestSubmitRejectsFailedTransportChecks(t *testing.T) {
	srv, dispatch, _ := newTestServer(t, []string{"colliers.com"}, nil)

	resp := postJSON(t, srv.URL+"/messages", testSecret, map[string]any{
		"from": "researcher@colliers.com",
		"auth": map[string]bool{
			"authenticated":      true,
			"sender_policy_pass": false,
			"domain_key_pass":    true,
		},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if dispatch.msg != nil {
		t.Fatal("dispatcher should not be called on transport failure")
	}
}

func TestSubmitRejectsUnknownSender(t *testing.T) {
	srv, _, _ := newTestServer(t, []string{"colliers.com"}, nil)

	resp := postJSON(t, srv.URL+"/messages", testSecret, map[string]any{
		"from": "spam@example.org",
		"auth": passedAuth(),
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestSubmitEmptyAllowListRejectsAll(t *testing.T) {
	srv, _, _ := newTestServer(t, nil, nil)

	resp := postJSON(t, srv.URL+"/messages", testSecret, map[string]any{
		"from": "researcher@colliers.com",
		"auth": passedAuth(),
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestSubmitAcceptedMessage(t *testing.T) {
	outcome := &router.Outcome{
		Success: true,
		Message: "comp recorded as pending: 123 Main Street",
		Tag:     "comp",
	}
	srv, dispatch, store := newTestServer(t, []string{"colliers.com"}, outcome)

	resp := postJSON(t, srv.URL+"/messages", testSecret, map[string]any{
		"from":    "Researcher@Colliers.com",
		"subject": "deal sheet #comp",
		"body":    "lease at 123 Main Street",
		"auth":    passedAuth(),
		"attachments": []map[string]any{
			{
				"filename":     "deal.pdf",
				"content_type": "application/pdf",
				"content":      []byte("%PDF-1.4 stub"),
			},
		},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var got struct {
		Success  bool   `json:"success"`
		Message  string `json:"message"`
		Tag      string `json:"tag"`
		EmailRef string `json:"emailRef"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if !got.Success {
		t.Error("expected success outcome")
	}
	if got.Tag != "comp" {
		t.Errorf("expected tag comp, got %q", got.Tag)
	}
	if got.EmailRef == "" {
		t.Error("expected a non-empty emailRef")
	}

	if dispatch.msg == nil {
		t.Fatal("dispatcher not called")
	}
	if dispatch.msg.ID != got.EmailRef {
		t.Errorf("emailRef %q does not match message ID %q", got.EmailRef, dispatch.msg.ID)
	}

	if len(store.uploads) != 1 {
		t.Fatalf("expected 1 archived attachment, got %d", len(store.uploads))
	}
	want := "messages/" + dispatch.msg.ID + "/0-deal.pdf"
	if store.uploads[0] != want {
		t.Errorf("archive key %q, want %q", store.uploads[0], want)
	}
}

func TestSubmitMalformedBody(t *testing.T) {
	srv, _, _ := newTestServer(t, []string{"colliers.com"}, nil)

	req, err := http.NewRequest(
		http.MethodPost,
		srv.URL+"/messages",
		strings.NewReader("{not json"),
	)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+testSecret)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSubmitRawMessage(t *testing.T) {
	outcome := &router.Outcome{Success: true, Message: "recorded", Tag: "permit"}
	srv, dispatch, _ := newTestServer(t, []string{"cityofsaskatoon.ca"}, outcome)

	raw := strings.Join([]string{
		"From: clerk@cityofsaskatoon.ca",
		"To: research@meridianworks.example",
		"Subject: weekly permits #permit",
		"Content-Type: text/plain",
		"",
		"BP-2025-01447 issued for 410 22nd Street East",
	}, "\r\n")

	resp := postJSON(t, srv.URL+"/messages", testSecret, map[string]any{
		"auth": passedAuth(),
		"raw":  []byte(raw),
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if dispatch.msg == nil {
		t.Fatal("dispatcher not called")
	}
	if !strings.Contains(dispatch.msg.Subject, "#permit") {
		t.Errorf("raw subject not parsed, got %q", dispatch.msg.Subject)
	}
	if !dispatch.msg.Auth.Passed() {
		t.Error("auth verdict from submission should carry over to raw message")
	}
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t, nil, nil)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["status"] != "ok" {
		t.Errorf("expected status ok, got %q", got["status"])
	}
}

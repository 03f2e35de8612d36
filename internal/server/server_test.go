package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agencykit/cms/internal/backend"
	"github.com/agencykit/cms/internal/contact"
	"github.com/agencykit/cms/internal/health"
	"github.com/agencykit/cms/pkg/interfaces"
)

func newTestAPI(t *testing.T) (*API, *backend.Memory) {
	t.Helper()
	be := backend.NewMemory()
	be.PutSession("editor-token", interfaces.Session{
		UserID:    "user-1",
		Email:     "editor@agency.test",
		Role:      "editor",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	be.PutSession("viewer-token", interfaces.Session{
		UserID:    "user-2",
		Email:     "viewer@agency.test",
		Role:      "viewer",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	checker := health.NewChecker(be)
	monitor := health.NewMonitor(checker)
	contactSvc := contact.NewService(contact.NewMemoryRepository())
	return NewAPI(be.Auth(), monitor, WithContactService(contactSvc)), be
}

func sanitizeCall(t *testing.T, api *API, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/functions/sanitize-html", strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)
	return rec
}

func TestSanitizeRequiresToken(t *testing.T) {
	api, _ := newTestAPI(t)

	rec := sanitizeCall(t, api, "", `{"html":"<p>hi</p>"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = sanitizeCall(t, api, "bogus-token", `{"html":"<p>hi</p>"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown token, got %d", rec.Code)
	}
}

func TestSanitizeRejectsInsufficientRole(t *testing.T) {
	api, _ := newTestAPI(t)

	rec := sanitizeCall(t, api, "viewer-token", `{"html":"<p>hi</p>"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestSanitizeStripsScriptAndKeepsPlaceholders(t *testing.T) {
	api, _ := newTestAPI(t)

	rec := sanitizeCall(t, api, "editor-token", `{"html":"<p>Hi {{client_name}}</p><script>alert(1)</script>"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp sanitizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Contains(resp.Sanitized, "<script") {
		t.Fatalf("script not stripped: %q", resp.Sanitized)
	}
	if !strings.Contains(resp.Sanitized, "{{client_name}}") {
		t.Fatalf("placeholder lost: %q", resp.Sanitized)
	}
	if !resp.Modified {
		t.Fatal("expected modified flag")
	}
	if resp.Message != "content was modified" {
		t.Fatalf("Message = %q", resp.Message)
	}
}

func TestSanitizeCleanInputReportsNoChanges(t *testing.T) {
	api, _ := newTestAPI(t)

	rec := sanitizeCall(t, api, "editor-token", `{"html":"<p>plain</p>"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp sanitizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Modified {
		t.Fatal("clean input reported as modified")
	}
	if resp.Message != "no changes" {
		t.Fatalf("Message = %q", resp.Message)
	}
}

func TestSanitizeRejectsMalformedBody(t *testing.T) {
	api, _ := newTestAPI(t)

	rec := sanitizeCall(t, api, "editor-token", `{"html":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHealthEndpointReportsStatus(t *testing.T) {
	api, be := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var report health.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Status != health.StatusHealthy {
		t.Fatalf("expected healthy, got %q", report.Status)
	}

	// three of four probes failing drops the service to unhealthy and 503
	be.FailDatabase(true)
	be.FailStorage(true)
	be.FailFunctions(true)
	rec = httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestContactSubmissionAcceptsValidPayload(t *testing.T) {
	api, _ := newTestAPI(t)

	body := `{"name":"Ada Lovelace","email":"ada@example.test","message":"Need a site."}`
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var submission contact.Submission
	if err := json.Unmarshal(rec.Body.Bytes(), &submission); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if submission.Email != "ada@example.test" {
		t.Fatalf("Email = %q", submission.Email)
	}
}

func TestContactSubmissionRejectsInvalidPayload(t *testing.T) {
	api, _ := newTestAPI(t)

	body := `{"name":"Ada Lovelace","email":"not-an-email","message":""}`
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	api, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/functions/sanitize-html", nil)
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS headers")
	}
}

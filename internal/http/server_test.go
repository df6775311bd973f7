package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"physiobudget/internal/budget/memory"
	"physiobudget/internal/core"
	applog "physiobudget/internal/log"
)

type fakePublisher struct {
	rows [][]string
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, rows [][]string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.rows = rows
	return "'Physio Report'!A1:J31", nil
}

func newTestServer(t *testing.T, pub *fakePublisher, opts Options) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	logger := applog.New(applog.Config{Output: io.Discard})
	var srv *Server
	if pub != nil {
		srv = NewServer(":0", store, pub, logger, opts)
	} else {
		srv = NewServer(":0", store, nil, logger, opts)
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, store
}

func do(srv *Server, method, target string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexAndHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil, Options{})

	rr := do(srv, http.MethodGet, "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("index status=%d body=%s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	for _, want := range []string{"Physio Practice Budget", "Physio 1", "Physio 5", "Monthly Summary", "Friday", "Stroke Recovery (Intensive)"} {
		if !strings.Contains(body, want) {
			t.Errorf("index body missing %q", want)
		}
	}
	if strings.Contains(body, "Thursday") {
		t.Errorf("index should not offer Thursday")
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Errorf("missing X-Request-ID header")
	}
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("missing security headers")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(srv, http.MethodGet, path, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("%s content type %q", path, ct)
		}
	}

	if rr := do(srv, http.MethodGet, "/static/app.css", nil); rr.Code != http.StatusOK {
		t.Fatalf("static asset status=%d", rr.Code)
	}
	if rr := do(srv, http.MethodGet, "/missing", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", rr.Code)
	}
}

func TestUpdateSessionRendersCardAndSummary(t *testing.T) {
	srv, store := newTestServer(t, nil, Options{})

	rr := do(srv, http.MethodPost, "/practitioners/0/sessions/0", url.Values{"field": {"incomeFromPatient"}, "value": {"50"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), EventBudgetChanged) {
		t.Fatalf("missing budget:changed trigger: %q", rr.Header().Get("HX-Trigger"))
	}
	if !strings.Contains(rr.Body.String(), `id="practitioner-0"`) {
		t.Fatalf("expected practitioner card partial")
	}
	if !strings.Contains(rr.Body.String(), "Weekly: 50.00 KWD") {
		t.Fatalf("expected weekly total in card: %s", rr.Body.String())
	}

	book, _ := store.Snapshot(context.Background())
	if got := book.Practitioners[0].WeeklySessions[0].IncomeFromPatient; got != 50 {
		t.Fatalf("income not stored, got %v", got)
	}

	rr = do(srv, http.MethodGet, "/ui/summary", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("summary status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `<strong id="total-income">50.00</strong>`) {
		t.Fatalf("summary missing income: %s", rr.Body.String())
	}
}

func TestUpdateSessionCoercesNonNumeric(t *testing.T) {
	srv, store := newTestServer(t, nil, Options{})

	rr := do(srv, http.MethodPost, "/practitioners/1/sessions/2", url.Values{"field": {"fuelCost"}, "value": {"abc"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("non-numeric input should be accepted, got %d", rr.Code)
	}
	book, _ := store.Snapshot(context.Background())
	if got := book.Practitioners[1].WeeklySessions[2].FuelCost; got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestEditAddressingErrors(t *testing.T) {
	srv, _ := newTestServer(t, nil, Options{})

	tests := []struct {
		name   string
		target string
		form   url.Values
		want   int
	}{
		{"unknown field", "/practitioners/0/sessions/0", url.Values{"field": {"colour"}, "value": {"x"}}, http.StatusBadRequest},
		{"practitioner out of range", "/practitioners/5/sessions/0", url.Values{"field": {"patient"}, "value": {"x"}}, http.StatusNotFound},
		{"day out of range", "/practitioners/0/sessions/6", url.Values{"field": {"patient"}, "value": {"x"}}, http.StatusNotFound},
		{"non-numeric index", "/practitioners/abc/sessions/0", url.Values{"field": {"patient"}, "value": {"x"}}, http.StatusNotFound},
		{"unknown duration part", "/practitioners/0/sessions/0/duration", url.Values{"part": {"second"}, "value": {"10"}}, http.StatusBadRequest},
		{"unknown overhead", "/overheads", url.Values{"field": {"rent"}, "value": {"10"}}, http.StatusBadRequest},
		{"rename out of range", "/practitioners/-1/name", url.Values{"name": {"x"}}, http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(srv, http.MethodPost, tc.target, tc.form)
			if rr.Code != tc.want {
				t.Fatalf("expected %d, got %d (%s)", tc.want, rr.Code, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), `class="error"`) {
				t.Fatalf("expected error fragment, got %s", rr.Body.String())
			}
		})
	}

	if rr := do(srv, http.MethodGet, "/practitioners/0/sessions/0", nil); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET on edit route, got %d", rr.Code)
	}
}

func TestDurationRenameAndOverheads(t *testing.T) {
	srv, store := newTestServer(t, nil, Options{})

	if rr := do(srv, http.MethodPost, "/practitioners/2/sessions/3/duration", url.Values{"part": {"minute"}, "value": {"45"}}); rr.Code != http.StatusOK {
		t.Fatalf("duration status=%d", rr.Code)
	}
	if rr := do(srv, http.MethodPost, "/practitioners/2/sessions/3/duration", url.Values{"part": {"hour"}, "value": {"01"}}); rr.Code != http.StatusOK {
		t.Fatalf("duration status=%d", rr.Code)
	}

	rr := do(srv, http.MethodPost, "/practitioners/2/name", url.Values{"name": {"Sara"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("rename status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `value="Sara"`) {
		t.Fatalf("rename should return the header partial: %s", rr.Body.String())
	}

	rr = do(srv, http.MethodPost, "/overheads", url.Values{"field": {"headSalary"}, "value": {"100"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("overhead status=%d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), EventBudgetChanged) {
		t.Fatalf("overhead edit should trigger a summary reload")
	}

	book, _ := store.Snapshot(context.Background())
	if got := book.Practitioners[2].WeeklySessions[3].Duration; got != "01:45" {
		t.Fatalf("duration=%q, want 01:45", got)
	}
	if book.Practitioners[2].Name != "Sara" {
		t.Fatalf("name=%q", book.Practitioners[2].Name)
	}
	if book.Overheads.HeadSalary != 100 {
		t.Fatalf("headSalary=%v", book.Overheads.HeadSalary)
	}
}

func TestExportCSV(t *testing.T) {
	srv, _ := newTestServer(t, nil, Options{})
	do(srv, http.MethodPost, "/practitioners/0/sessions/0", url.Values{"field": {"patient"}, "value": {"Ali"}})

	rr := do(srv, http.MethodGet, "/export.csv", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/csv;charset=utf-8" {
		t.Fatalf("content type %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != `attachment; filename="physio_report.csv"` {
		t.Fatalf("content disposition %q", cd)
	}
	lines := strings.Split(strings.TrimSuffix(rr.Body.String(), "\n"), "\n")
	if len(lines) != 1+core.PractitionerCount*core.DaysPerWeek {
		t.Fatalf("expected 31 lines, got %d", len(lines))
	}
	if lines[1] != "Physio 1,Monday,Ali,,,,0,0,0,0.00" {
		t.Fatalf("unexpected first row %q", lines[1])
	}
}

func TestPublishSheets(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		srv, _ := newTestServer(t, nil, Options{})
		if rr := do(srv, http.MethodPost, "/export/sheets", url.Values{}); rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rr.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		pub := &fakePublisher{}
		srv, _ := newTestServer(t, pub, Options{})
		rr := do(srv, http.MethodPost, "/export/sheets", url.Values{})
		if rr.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
		}
		if len(pub.rows) != 31 || pub.rows[0][0] != "Physio Name" {
			t.Fatalf("unexpected rows published: %d", len(pub.rows))
		}
		if !strings.Contains(rr.Header().Get("HX-Trigger"), `"type":"success"`) {
			t.Fatalf("expected success notification: %q", rr.Header().Get("HX-Trigger"))
		}
	})

	t.Run("failure", func(t *testing.T) {
		srv, _ := newTestServer(t, &fakePublisher{err: errors.New("quota")}, Options{})
		rr := do(srv, http.MethodPost, "/export/sheets", url.Values{})
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rr.Code)
		}
	})
}

func TestPostRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, nil, Options{RateLimitPerMinute: 1})

	form := url.Values{"field": {"patient"}, "value": {"x"}}
	if rr := do(srv, http.MethodPost, "/practitioners/0/sessions/0", form); rr.Code != http.StatusOK {
		t.Fatalf("first edit status=%d", rr.Code)
	}
	rr := do(srv, http.MethodPost, "/practitioners/0/sessions/0", form)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After")
	}

	// reads are never limited
	if rr := do(srv, http.MethodGet, "/ui/summary", nil); rr.Code != http.StatusOK {
		t.Fatalf("GET should pass, got %d", rr.Code)
	}

	rr = do(srv, http.MethodGet, "/readyz", nil)
	var ready struct {
		Checks struct {
			RateLimiter struct {
				ActiveClients int `json:"active_clients"`
				Rejected      int `json:"rejected_total"`
			} `json:"rate_limiter"`
			Requests struct {
				Total int `json:"total"`
			} `json:"requests"`
		} `json:"checks"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&ready); err != nil {
		t.Fatalf("decode readyz: %v", err)
	}
	if ready.Checks.RateLimiter.Rejected != 1 || ready.Checks.RateLimiter.ActiveClients != 1 {
		t.Fatalf("unexpected limiter report: %+v", ready.Checks.RateLimiter)
	}
	if ready.Checks.Requests.Total != 4 {
		t.Fatalf("expected 4 traced requests, got %d", ready.Checks.Requests.Total)
	}
}

func TestFreeTextStoredVerbatim(t *testing.T) {
	srv, store := newTestServer(t, nil, Options{})

	do(srv, http.MethodPost, "/practitioners/0/sessions/1", url.Values{"field": {"patient"}, "value": {"  Sara, Jr. "}})
	do(srv, http.MethodPost, "/practitioners/0/name", url.Values{"name": {" Dr. Hana "}})

	book, _ := store.Snapshot(context.Background())
	if got := book.Practitioners[0].WeeklySessions[1].Patient; got != "  Sara, Jr. " {
		t.Fatalf("patient = %q", got)
	}
	if got := book.Practitioners[0].Name; got != " Dr. Hana " {
		t.Fatalf("name = %q", got)
	}
}

func TestIndexPolicyAllowsHTMXScript(t *testing.T) {
	srv, _ := newTestServer(t, nil, Options{})

	rr := do(srv, http.MethodGet, "/", nil)
	csp := rr.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "script-src 'self' https://unpkg.com") {
		t.Fatalf("CSP does not allow the htmx script: %q", csp)
	}
	if !strings.Contains(rr.Body.String(), `<script src="https://unpkg.com/htmx.org@`) {
		t.Fatalf("index no longer loads htmx from unpkg; keep the CSP in step")
	}
}

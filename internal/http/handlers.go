package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"physiobudget/internal/core"
	applog "physiobudget/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

// handleReady reports whether templates and the record set are usable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if _, err := s.book.Snapshot(r.Context()); err != nil {
		checks["book"] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["book"] = "ok"
	}

	if s.publisher != nil {
		checks["sheets"] = "configured"
	} else {
		checks["sheets"] = "not_configured"
	}

	limits := s.rateLimiter.GetMetrics()
	checks["rate_limiter"] = map[string]any{
		"active_clients": limits.ClientCount,
		"rejected_total": limits.TotalHits,
		"status":         "ok",
	}

	requests := s.trace.GetMetrics()
	checks["requests"] = map[string]any{
		"total":              requests.TotalRequests,
		"last_response_usec": requests.LastResponseTime,
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	book, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "index.html", newPageView(book), nil)
}

// handleSummary renders the monthly summary partial, recomputed from a fresh snapshot.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	book, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "summary", newSummaryView(core.Summarize(book)), nil)
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (core.Book, bool) {
	book, err := s.book.Snapshot(r.Context())
	if err != nil {
		applog.NewStructuredLogger(applog.FromContext(r.Context())).
			LogError(r.Context(), "Snapshot failed", err, applog.ComponentBudget, applog.OpSummary, nil)
		InternalServerError("Could not load the budget").Write(w)
		return core.Book{}, false
	}
	return book, true
}

// render executes a template into a buffer first so a failure never leaves
// a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any, resp *HTMXResponseBuilder) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		InternalServerError("templates not loaded").Write(w)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.NewStructuredLogger(applog.FromContext(r.Context())).
			LogError(r.Context(), "Template execution failed", err, applog.ComponentTemplate, applog.OpRender,
				applog.NewFields().With(applog.FieldTemplate, name))
		InternalServerError("Rendering failed").Write(w)
		return
	}
	if resp == nil {
		resp = NewHTMXResponse()
	}
	resp.Status(status).BodyHTML(buf.String()).Write(w)
}

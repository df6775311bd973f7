package http

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"physiobudget/internal/core"
	"physiobudget/internal/export"
	applog "physiobudget/internal/log"
)

const publishTimeout = 30 * time.Second

// handleExportCSV streams the whole record set as a CSV download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	book, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	if err := export.Write(w, book); err != nil {
		applog.NewStructuredLogger(applog.FromContext(r.Context())).
			LogError(r.Context(), "CSV write failed", err, applog.ComponentExport, applog.OpExport, nil)
		return
	}

	applog.FromContext(r.Context()).WithComponent(applog.ComponentExport).InfoContext(r.Context(), "CSV exported",
		applog.FieldRows, sessionCount(book),
		applog.FieldOperation, applog.OpExport)
}

// handlePublishSheets writes the export rows to the configured spreadsheet.
func (s *Server) handlePublishSheets(w http.ResponseWriter, r *http.Request) {
	if s.publisher == nil {
		NotFoundError("Spreadsheet publishing is not configured").Write(w)
		return
	}
	book, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), publishTimeout)
	defer cancel()

	rows := export.Rows(book)
	ref, err := s.publisher.Publish(ctx, rows)
	if err != nil {
		applog.NewStructuredLogger(applog.FromContext(r.Context())).
			LogError(r.Context(), "Publishing to spreadsheet failed", err, applog.ComponentSheets, applog.OpPublish,
				applog.NewFields().With(applog.FieldRows, len(rows)))
		InternalServerError("Publishing failed").
			TriggerErrorNotification("Publishing to the spreadsheet failed").
			Write(w)
		return
	}

	applog.FromContext(r.Context()).WithComponent(applog.ComponentSheets).InfoContext(r.Context(), "Report published",
		applog.FieldRows, len(rows),
		applog.FieldSheetsRef, ref,
		applog.FieldOperation, applog.OpPublish)

	NewHTMXResponse().
		TriggerSuccessNotification("Report published").
		BodyHTML(`<div class="success">Published to ` + template.HTMLEscapeString(ref) + `</div>`).
		Write(w)
}

func sessionCount(b core.Book) int {
	n := 0
	for _, p := range b.Practitioners {
		n += len(p.WeeklySessions)
	}
	return n
}

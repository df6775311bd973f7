package http

import (
	"errors"
	"net/http"

	"physiobudget/internal/budget"
	"physiobudget/internal/core"
	applog "physiobudget/internal/log"
)

// handleUpdateSession sets one field of one session and re-renders the card.
func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	addr, err := parseSessionAddress(r)
	if err != nil {
		s.writeEditError(w, r, err)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	field := formName(r, "field")
	if err := s.book.UpdateSession(r.Context(), addr.Practitioner, addr.Day, core.SessionField(field), formValue(r, "value")); err != nil {
		s.writeEditError(w, r, err)
		return
	}
	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogSessionEdited(r.Context(), addr.Practitioner, addr.Day, field)

	s.renderPractitioner(w, r, addr.Practitioner, "practitioner")
}

// handleSetDuration replaces the hour or minute half of a session duration.
func (s *Server) handleSetDuration(w http.ResponseWriter, r *http.Request) {
	addr, err := parseSessionAddress(r)
	if err != nil {
		s.writeEditError(w, r, err)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	part := formName(r, "part")
	if err := s.book.SetDuration(r.Context(), addr.Practitioner, addr.Day, core.DurationPart(part), formValue(r, "value")); err != nil {
		s.writeEditError(w, r, err)
		return
	}
	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogSessionEdited(r.Context(), addr.Practitioner, addr.Day, string(core.FieldDuration)+"."+part)

	s.renderPractitioner(w, r, addr.Practitioner, "practitioner")
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	p, err := parseIndex(r, "p")
	if err != nil {
		s.writeEditError(w, r, err)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	if err := s.book.RenamePractitioner(r.Context(), p, formValue(r, "name")); err != nil {
		s.writeEditError(w, r, err)
		return
	}
	applog.FromContext(r.Context()).WithComponent(applog.ComponentBudget).InfoContext(r.Context(), "Practitioner renamed",
		applog.FieldPractitioner, p,
		applog.FieldOperation, applog.OpRename)

	s.renderPractitioner(w, r, p, "practitioner_header")
}

// handleSetOverhead sets one overhead amount. The body is empty; the
// summary reloads through the budget:changed trigger.
func (s *Server) handleSetOverhead(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	field := formName(r, "field")
	if err := s.book.SetOverhead(r.Context(), core.OverheadField(field), formValue(r, "value")); err != nil {
		s.writeEditError(w, r, err)
		return
	}
	applog.FromContext(r.Context()).WithComponent(applog.ComponentBudget).InfoContext(r.Context(), "Overhead updated",
		applog.FieldField, field,
		applog.FieldOperation, applog.OpUpdate)

	NewHTMXResponse().TriggerBudgetChanged().Write(w)
}

// renderPractitioner renders one practitioner partial from a fresh snapshot
// and tells the page that totals changed.
func (s *Server) renderPractitioner(w http.ResponseWriter, r *http.Request, p int, name string) {
	book, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	if p >= len(book.Practitioners) {
		NotFoundError("Unknown practitioner").Write(w)
		return
	}
	view := newPractitionerView(p, book.Practitioners[p], newFormOptions())
	s.render(w, r, http.StatusOK, name, view, NewHTMXResponse().TriggerBudgetChanged())
}

// writeEditError maps store errors to HTMX error fragments.
func (s *Server) writeEditError(w http.ResponseWriter, r *http.Request, err error) {
	logger := applog.FromContext(r.Context()).WithComponent(applog.ComponentBudget)
	switch {
	case errors.Is(err, budget.ErrNotFound):
		logger.WarnContext(r.Context(), "Edit addressed a missing record", applog.FieldError, err.Error())
		NotFoundError("Unknown practitioner or day").Write(w)
	case errors.Is(err, budget.ErrUnknownField):
		logger.WarnContext(r.Context(), "Edit named an unknown field", applog.FieldError, err.Error())
		BadRequestError("Unknown field").Write(w)
	default:
		applog.NewStructuredLogger(applog.FromContext(r.Context())).
			LogError(r.Context(), "Edit failed", err, applog.ComponentBudget, applog.OpUpdate, nil)
		InternalServerError("Could not save the change").Write(w)
	}
}

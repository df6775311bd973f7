// Package http provides HTTP server and handler implementations.
//
// This file implements helpers for reading path and form values.

package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"physiobudget/internal/budget"
)

// parseIndex reads a non-negative integer path value. Anything else maps to
// budget.ErrNotFound so the handler answers 404.
func parseIndex(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%s %q: %w", name, raw, budget.ErrNotFound)
	}
	return i, nil
}

// sessionAddress holds the practitioner and weekday indexes of a session route.
type sessionAddress struct {
	Practitioner int
	Day          int
}

func parseSessionAddress(r *http.Request) (sessionAddress, error) {
	p, err := parseIndex(r, "p")
	if err != nil {
		return sessionAddress{}, err
	}
	d, err := parseIndex(r, "d")
	if err != nil {
		return sessionAddress{}, err
	}
	return sessionAddress{Practitioner: p, Day: d}, nil
}

// formValue returns the submitted value for key exactly as typed. Numeric
// fields are coerced later by core.ParseAmount.
func formValue(r *http.Request, key string) string {
	return r.PostFormValue(key)
}

// formName returns a field or part selector with surrounding spaces removed.
func formName(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Malformed request")
	}
	return nil
}

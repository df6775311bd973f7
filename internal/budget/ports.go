// Package budget declares the ports between the web form and the record set.
package budget

import (
	"context"
	"errors"

	"physiobudget/internal/core"
)

var (
	// ErrNotFound is returned for a practitioner or weekday index outside the book.
	ErrNotFound = errors.New("not found")

	// ErrUnknownField is returned when an edit names a field the record does not have.
	ErrUnknownField = core.ErrUnknownField
)

// Ports for the record set and outbound sinks.
type (
	// BookReader hands out copies of the record set.
	BookReader interface {
		// Snapshot returns a deep copy the caller owns.
		Snapshot(ctx context.Context) (core.Book, error)
	}

	// BookEditor applies single-field edits. Each call changes exactly one field.
	BookEditor interface {
		UpdateSession(ctx context.Context, practitioner, day int, field core.SessionField, value string) error
		SetDuration(ctx context.Context, practitioner, day int, part core.DurationPart, value string) error
		RenamePractitioner(ctx context.Context, practitioner int, name string) error
		SetOverhead(ctx context.Context, field core.OverheadField, value string) error
	}

	// Book is the full store used by the form.
	Book interface {
		BookReader
		BookEditor
	}

	// ReportPublisher pushes export rows to an external spreadsheet.
	ReportPublisher interface {
		Publish(ctx context.Context, rows [][]string) (ref string, err error)
	}
)

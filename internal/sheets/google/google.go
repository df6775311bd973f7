package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"physiobudget/internal/budget"
)

var _ budget.ReportPublisher = (*Publisher)(nil)

// Options configures a Publisher. One of CredentialsJSON or CredentialsFile
// must hold service account credentials.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// valuesAPI is the slice of the Sheets values API the publisher needs.
type valuesAPI interface {
	Clear(ctx context.Context, spreadsheetID, rng string) error
	Update(ctx context.Context, spreadsheetID, rng string, values [][]any) (updatedRange string, err error)
}

// Publisher replaces the contents of one sheet tab with the export rows.
type Publisher struct {
	values        valuesAPI
	spreadsheetID string
	sheetName     string
}

// New creates a Publisher backed by the Sheets v4 API.
func New(ctx context.Context, opts Options) (*Publisher, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(opts.SheetName) == "" {
		return nil, errors.New("missing sheet name")
	}
	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Publisher{
		values:        serviceValues{svc: svc},
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     opts.SheetName,
	}, nil
}

// Publish clears the tab and writes rows from A1. It returns the range the
// API reports as updated.
func (p *Publisher) Publish(ctx context.Context, rows [][]string) (string, error) {
	if p.values == nil {
		return "", errors.New("sheets service not initialized")
	}
	tab := quoteSheetName(p.sheetName)

	if err := p.values.Clear(ctx, p.spreadsheetID, tab); err != nil {
		return "", fmt.Errorf("clear %s: %w", p.sheetName, err)
	}
	ref, err := p.values.Update(ctx, p.spreadsheetID, tab+"!A1", toValues(rows))
	if err != nil {
		return "", fmt.Errorf("write %s: %w", p.sheetName, err)
	}

	slog.InfoContext(ctx, "Report published to Google Sheets",
		"spreadsheet_id", p.spreadsheetID,
		"range", ref,
		"rows", len(rows))
	return ref, nil
}

// toValues converts string rows into the cell matrix the API expects.
func toValues(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}

// quoteSheetName wraps a tab name in single quotes for A1 notation,
// doubling any embedded quote.
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

type serviceValues struct {
	svc *gsheet.Service
}

func (s serviceValues) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := s.svc.Spreadsheets.Values.Clear(spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (s serviceValues) Update(ctx context.Context, spreadsheetID, rng string, values [][]any) (string, error) {
	resp, err := s.svc.Spreadsheets.Values.Update(spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return resp.UpdatedRange, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	var credentialsJSON []byte
	switch {
	case strings.TrimSpace(opts.CredentialsJSON) != "":
		slog.InfoContext(ctx, "Using inline service account credentials")
		credentialsJSON = []byte(opts.CredentialsJSON)
	case strings.TrimSpace(opts.CredentialsFile) != "":
		raw, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.InfoContext(ctx, "Read service account credentials", "path", opts.CredentialsFile, "size", len(raw))
		credentialsJSON = raw
	default:
		return nil, errors.New("missing service account credentials")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

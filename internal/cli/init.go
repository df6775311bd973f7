// Package cli provides the initialization shared by the physio-budget commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"physiobudget/internal/budget"
	"physiobudget/internal/budget/memory"
	"physiobudget/internal/config"
	applog "physiobudget/internal/log"
	gsheet "physiobudget/internal/sheets/google"
)

// SetupLogger initializes structured logging at level and installs it as
// the process default.
func SetupLogger(level slog.Level) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Level = level
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenBook builds the in-memory record set, overlaying the seed file when it
// exists. With required set a missing seed file is an error.
func OpenBook(logger *applog.Logger, seedFile string, required bool) (*memory.Store, error) {
	if required {
		if _, err := os.Stat(seedFile); err != nil {
			return nil, fmt.Errorf("seed file: %w", err)
		}
	}
	store, err := memory.NewFromFile(seedFile)
	if err != nil {
		return nil, fmt.Errorf("open book: %w", err)
	}
	logger.WithComponent(applog.ComponentBudget).Info("Book ready", "seed_file", seedFile)
	return store, nil
}

// NewPublisher returns the Google Sheets publisher, or nil when publishing
// is not configured.
func NewPublisher(ctx context.Context, logger *applog.Logger, cfg *config.Config) (budget.ReportPublisher, error) {
	if !cfg.SheetsEnabled() {
		logger.WithComponent(applog.ComponentSheets).Info("Spreadsheet publishing disabled")
		return nil, nil
	}
	pub, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("google sheets publisher: %w", err)
	}
	logger.WithComponent(applog.ComponentSheets).Info("Spreadsheet publishing enabled",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName)
	return pub, nil
}

// Server is what Serve needs from an HTTP server.
type Server interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// Serve runs srv until ctx is cancelled or SIGINT/SIGTERM arrives, then
// shuts it down within timeout.
func Serve(ctx context.Context, logger *applog.Logger, srv Server, timeout time.Duration) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("Server stopped gracefully")
		return nil
	})
	return g.Wait()
}

// OpenOutput returns a writer for path; "-" means stdout. The returned
// close func is always non-nil.
func OpenOutput(path string) (*os.File, func() error, error) {
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}

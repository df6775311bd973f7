package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"physiobudget/internal/cli"
	"physiobudget/internal/export"
	apphttp "physiobudget/internal/http"
	applog "physiobudget/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var seedFile string

	root := &cobra.Command{
		Use:           "physio-budget",
		Short:         "Physiotherapy practice budgeting form",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			cli.LoadEnvFile()
		},
	}
	root.PersistentFlags().StringVar(&seedFile, "seed", "", "practice seed YAML (default: SEED_FILE)")

	root.AddCommand(newServeCmd(&seedFile))
	root.AddCommand(newExportCmd(&seedFile))
	return root
}

func newServeCmd(seedFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the budgeting web form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := cli.LoadAndValidateConfig()
			if err != nil {
				return err
			}
			explicitSeed := *seedFile != ""
			if explicitSeed {
				cfg.SeedFile = *seedFile
			}
			logger := cli.SetupLogger(cfg.SlogLevel())

			ctx := cmd.Context()

			book, err := cli.OpenBook(logger, cfg.SeedFile, explicitSeed)
			if err != nil {
				return err
			}
			publisher, err := cli.NewPublisher(ctx, logger, cfg)
			if err != nil {
				return err
			}

			srv := apphttp.NewServer(":"+cfg.Port, book, publisher, logger, apphttp.Options{
				RateLimitPerMinute: cfg.RateLimitPerMinute,
			})
			logger.Info("Starting physio-budget server",
				"port", cfg.Port,
				"sheets", cfg.SheetsEnabled(),
				applog.FieldOperation, applog.OpStartup)
			return cli.Serve(ctx, logger, srv, cfg.ShutdownTimeout)
		},
	}
}

func newExportCmd(seedFile *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the report CSV for the seeded book",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := cli.LoadAndValidateConfig()
			if err != nil {
				return err
			}
			explicitSeed := *seedFile != ""
			if explicitSeed {
				cfg.SeedFile = *seedFile
			}
			// Logs go to stderr so "-" can stream the report to stdout.
			logger := applog.New(applog.Config{Level: cfg.SlogLevel(), Output: os.Stderr})

			store, err := cli.OpenBook(logger, cfg.SeedFile, explicitSeed)
			if err != nil {
				return err
			}
			book, err := store.Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			w, closeOut, err := cli.OpenOutput(out)
			if err != nil {
				return err
			}
			if err := export.Write(w, book); err != nil {
				_ = closeOut()
				return fmt.Errorf("write report: %w", err)
			}
			if err := closeOut(); err != nil {
				return fmt.Errorf("close report: %w", err)
			}

			logger.WithComponent(applog.ComponentExport).Info("Report written",
				"path", out,
				applog.FieldOperation, applog.OpExport)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", export.Filename, `output path, "-" for stdout`)
	return cmd
}

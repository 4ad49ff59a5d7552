package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"gastos/internal/cli"
	"gastos/internal/core"
	"gastos/internal/export"
	"gastos/internal/log"
	"gastos/internal/report"
	"gastos/internal/services"
)

func main() {
	var (
		fromFlag    = flag.String("from", "", "period start (YYYY-MM-DD, default first of current month)")
		toFlag      = flag.String("to", "", "period end (YYYY-MM-DD, default today)")
		compareFlag = flag.Bool("compare", false, "compare against the immediately preceding period")
		chartFlag   = flag.String("chart", "", "write a category pie chart PNG to this path")
		exportFlag  = flag.String("export-folder", "", "export this receipt folder ID as a zip instead of reporting")
		outFlag     = flag.String("out", "receipts.zip", "zip destination for -export-folder")
		watchFlag   = flag.Bool("watch", false, "after reporting, keep watching settings changes until interrupted")
	)
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()
	result := cli.InitStore(ctx, logger, cfg)
	cleanup := func() {
		if result.Cleanup == nil {
			return
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Store cleanup failed", log.FieldError, err)
		}
	}

	settings := services.NewSettingsService(result.Store, logger)
	expenses := services.NewExpenseService(result.Store, settings, logger)
	taxonomy := services.NewTaxonomyService(result.Store, logger)
	receipts := services.NewReceiptService(result.Store, logger, cfg.MaxReceiptBytes)
	dashboard := services.NewDashboardService(expenses, taxonomy, logger)

	// Guarantee the default folder before anything reads the tree.
	if _, err := receipts.Folders(ctx); err != nil {
		logger.Error("Failed to load receipt folders", log.FieldError, err)
		cleanup()
		os.Exit(1)
	}

	if *exportFlag != "" {
		if err := exportFolder(ctx, receipts, logger, *exportFlag, *outFlag); err != nil {
			logger.Error("Export failed", log.FieldError, err, log.FieldFolderID, *exportFlag)
			cleanup()
			os.Exit(1)
		}
		cleanup()
		return
	}

	r, err := parseRange(*fromFlag, *toFlag)
	if err != nil {
		logger.Error("Invalid period", log.FieldError, err)
		cleanup()
		os.Exit(1)
	}

	summary, err := dashboard.Summary(ctx, r, *compareFlag)
	if err != nil {
		logger.Error("Failed to summarize period", log.FieldError, err)
		cleanup()
		os.Exit(1)
	}
	if err := report.WriteTable(os.Stdout, summary); err != nil {
		logger.Error("Failed to write report", log.FieldError, err)
		cleanup()
		os.Exit(1)
	}

	if *chartFlag != "" {
		title := fmt.Sprintf("Gastos %s .. %s", r.From.Key(), r.To.Key())
		content, err := report.CategoryChart(summary, title)
		if err != nil {
			logger.Error("Failed to render chart", log.FieldError, err)
			cleanup()
			os.Exit(1)
		}
		if err := os.WriteFile(*chartFlag, content, 0644); err != nil {
			logger.Error("Failed to write chart file", log.FieldError, err, "path", *chartFlag)
			cleanup()
			os.Exit(1)
		}
		logger.Info("Chart written", "path", *chartFlag)
	}

	if *watchFlag {
		watchSettings(settings, logger, cfg.SettingsPollInterval, cleanup)
		return
	}
	cleanup()
}

func exportFolder(ctx context.Context, receipts *services.ReceiptService, logger *log.Logger, folderID, outPath string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	if err := export.NewService(receipts, logger).ZipFolder(ctx, f, folderID); err != nil {
		f.Close()
		os.Remove(outPath)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", outPath, err)
	}
	logger.Info("Receipts exported", log.FieldFolderID, folderID, "path", outPath)
	return nil
}

// watchSettings keeps the process alive reporting living-status changes
// made by other processes sharing the store, until interrupted.
func watchSettings(settings *services.SettingsService, logger *log.Logger, interval time.Duration, cleanup func()) {
	changes := settings.Subscribe()
	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, cleanup)

	go settings.Watch(ctx, interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-changes:
				fmt.Printf("living status is now %s\n", s.LivingStatus)
			}
		}
	}()

	cli.WaitForShutdown(ctx, done)
}

// parseRange resolves the -from/-to flags, defaulting to the current
// month up to today.
func parseRange(from, to string) (core.Range, error) {
	now := time.Now().UTC()
	r := core.Range{
		From: core.Date{Time: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)},
		To:   core.Date{Time: now}.StartOfDay(),
	}

	var err error
	if from != "" {
		if r.From, err = parseDate(from); err != nil {
			return core.Range{}, err
		}
	}
	if to != "" {
		if r.To, err = parseDate(to); err != nil {
			return core.Range{}, err
		}
	}
	if r.To.Time.Before(r.From.Time) {
		return core.Range{}, fmt.Errorf("period end %s precedes start %s", r.To.Key(), r.From.Key())
	}
	return r, nil
}

func parseDate(value string) (core.Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return core.Date{Time: t}, nil
}

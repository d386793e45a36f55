// Package exportcmd implements the fictags subcommands.
package exportcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/fictags/internal/batch"
	"github.com/lehigh-university-libraries/fictags/internal/config"
	"github.com/lehigh-university-libraries/fictags/internal/metadata"
	"github.com/lehigh-university-libraries/fictags/internal/sheet"
)

func setupLogger(verbose bool, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return logger
}

func executeExport(ctx context.Context, cfg *config.Config, out, logOut io.Writer) error {
	logger := setupLogger(cfg.Verbose, logOut)

	slog.Info("Starting export", "roots", cfg.Roots, "output", cfg.Output, "csv", cfg.CSV, "parquet", cfg.Parquet)

	paths, err := batch.Discover(cfg.Roots...)
	if err != nil {
		return fmt.Errorf("failed to discover works: %w", err)
	}
	slog.Info("Works discovered", "count", len(paths))

	w, err := newWriter(cfg)
	if err != nil {
		return err
	}

	format, err := metadata.ParseFormat(cfg.DescriptionFormat)
	if err != nil {
		return err
	}
	driver := batch.NewDriver(logger, batch.WithDescriptionFormat(format))
	stats, err := driver.Run(ctx, paths, w)
	if err != nil {
		return errors.Join(fmt.Errorf("export stopped: %w", err), w.Save())
	}

	slog.Info("Saving output")
	if err := w.Save(); err != nil {
		return fmt.Errorf("failed to save output: %w", err)
	}

	printSummary(out, cfg, stats)
	return nil
}

func newWriter(cfg *config.Config) (sheet.Writer, error) {
	var writers []sheet.Writer
	if cfg.Output != "" {
		x, err := sheet.NewXLSX(cfg.Output, cfg.Sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to create workbook: %w", err)
		}
		writers = append(writers, x)
	}
	if cfg.CSV != "" {
		writers = append(writers, sheet.NewCSV(cfg.CSV))
	}
	if cfg.Parquet != "" {
		writers = append(writers, sheet.NewParquet(cfg.Parquet))
	}
	if len(writers) == 1 {
		return writers[0], nil
	}
	return sheet.Multi(writers...), nil
}

func printSummary(out io.Writer, cfg *config.Config, stats batch.Stats) {
	fmt.Fprintf(out, "Works exported: %d\n", stats.Works)
	fmt.Fprintf(out, "Works with errors: %d\n", stats.Failed)
	if stats.RowErrors > 0 {
		fmt.Fprintf(out, "Rows not written: %d\n", stats.RowErrors)
	}
	for _, path := range []string{cfg.Output, cfg.CSV, cfg.Parquet} {
		if path != "" {
			fmt.Fprintf(out, "Saved: %s\n", path)
		}
	}
}

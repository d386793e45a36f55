// Package batch runs the per-work pipeline over a list of EPUB files and
// feeds the resulting rows to a sheet writer.
package batch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/fictags/internal/epub"
	"github.com/lehigh-university-libraries/fictags/internal/metadata"
	"github.com/lehigh-university-libraries/fictags/internal/record"
	"github.com/lehigh-university-libraries/fictags/internal/sheet"
	"github.com/lehigh-university-libraries/fictags/internal/tags"
)

// Stats summarises a run.
type Stats struct {
	Works  int
	Failed int
	// RowErrors counts rows the writer rejected.
	RowErrors int
}

// Driver turns EPUB files into work records.
type Driver struct {
	logger *slog.Logger
	meta   *metadata.Extractor
}

// Option configures a Driver.
type Option func(*options)

type options struct {
	format metadata.Format
}

// WithDescriptionFormat selects how work descriptions are rendered.
func WithDescriptionFormat(f metadata.Format) Option {
	return func(o *options) { o.format = f }
}

// NewDriver creates a Driver. A nil logger uses slog.Default().
func NewDriver(logger *slog.Logger, opts ...Option) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	o := options{format: metadata.FormatText}
	for _, opt := range opts {
		opt(&o)
	}
	return &Driver{
		logger: logger,
		meta:   metadata.NewExtractorWithFormat(logger, o.format),
	}
}

// Result is the full outcome of one work, including the unknown labels
// that were skipped while building its tag record.
type Result struct {
	Record  record.FullWorkRecord
	Unknown []string
}

// Process runs the pipeline on one file. It never fails: every error ends
// up in the returned record.
func (d *Driver) Process(path string) record.FullWorkRecord {
	return d.Inspect(path).Record
}

// Inspect is Process plus the unknown labels of the work.
func (d *Driver) Inspect(path string) Result {
	logger := d.logger.With("path", path)
	res := Result{Record: record.FullWorkRecord{Meta: metadata.MetaInfo{Path: path}}}

	book, err := epub.Open(path)
	if err != nil {
		res.Record.Err = err
		return res
	}
	defer book.Close()

	meta, err := d.meta.Extract(book, path)
	res.Record.Meta = meta
	if err != nil {
		res.Record.Err = err
		return res
	}

	page, err := book.Page(0)
	if err != nil {
		res.Record.Err = fmt.Errorf("failed to read first content page: %w", err)
		return res
	}

	rec, unknown, err := tags.FromPage(page, logger)
	if err != nil {
		res.Record.Err = err
		return res
	}
	res.Record.Tags = &rec
	res.Unknown = unknown
	return res
}

// Run writes the header and then one row per path, in order. A failed work
// becomes an error row and the loop moves on. The caller saves w.
func (d *Driver) Run(ctx context.Context, paths []string, w sheet.Writer) (Stats, error) {
	var stats Stats

	if err := w.WriteHeader(record.Columns()); err != nil {
		return stats, fmt.Errorf("failed to write header: %w", err)
	}

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		d.logger.Debug("Processing work", "path", path, "index", i+1, "total", len(paths))

		rec := d.Process(path)
		stats.Works++
		if rec.Err != nil {
			stats.Failed++
			d.logger.Error("Failed to process work", "path", path, "error", rec.Err)
		}

		if err := w.WriteRow(record.Serialize(rec)); err != nil {
			stats.RowErrors++
			d.logger.Error("Failed to write row", "path", path, "error", err)
		}
	}

	d.logger.Info("Batch finished", "works", stats.Works, "failed", stats.Failed)
	return stats, nil
}

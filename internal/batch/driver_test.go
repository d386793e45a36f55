package batch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/lehigh-university-libraries/fictags/internal/epub/epubtest"
	"github.com/lehigh-university-libraries/fictags/internal/markup"
	"github.com/lehigh-university-libraries/fictags/internal/metadata"
	"github.com/lehigh-university-libraries/fictags/internal/record"
	"github.com/lehigh-university-libraries/fictags/internal/sheet"
	"github.com/lehigh-university-libraries/fictags/internal/tags"
)

const wellFormedTags = `
<dt class="rating tags">Rating:</dt>
<dd class="rating tags"><a class="tag" href="/tags/Teen">Teen</a></dd>
<dt class="fandom tags">Fandoms:</dt>
<dd class="fandom tags"><a class="tag" href="/tags/A">Show A</a>, <a class="tag" href="/tags/B">Show B</a></dd>
<dt class="freeform tags">Additional Tags:</dt>
<dd class="freeform tags"><a class="tag" href="/tags/F">Fluff</a></dd>
<dt class="stats">Stats:</dt>
<dd class="stats">Published: 2021-03-04 Words: 5120</dd>
`

func newTestDriver() (*Driver, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewDriver(slog.New(slog.NewTextHandler(&buf, nil))), &buf
}

func writeWork(t *testing.T, dir, name, title, page string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	epubtest.Write(t, path, epubtest.Fixture{
		Titles:   []string{title},
		Creators: []string{"Anon"},
		Pages:    []string{page},
	})
	return path
}

func TestProcessWellFormedWork(t *testing.T) {
	dir := t.TempDir()
	path := writeWork(t, dir, "a.epub", "Work A", epubtest.TagPage(wellFormedTags))

	d, _ := newTestDriver()
	rec := d.Process(path)
	if rec.Err != nil {
		t.Fatalf("Process failed: %v", rec.Err)
	}
	if rec.Meta.Path != path || rec.Meta.Title == nil || *rec.Meta.Title != "Work A" {
		t.Errorf("Unexpected meta: %+v", rec.Meta)
	}
	if rec.Tags.Rating == nil || *rec.Tags.Rating != "Teen" {
		t.Errorf("Expected rating Teen, got %v", rec.Tags.Rating)
	}
	if !reflect.DeepEqual(rec.Tags.Fandoms, []string{"Show A", "Show B"}) {
		t.Errorf("Unexpected fandoms: %q", rec.Tags.Fandoms)
	}
	if rec.Tags.Language != nil {
		t.Errorf("Expected no language, got %q", *rec.Tags.Language)
	}
}

func TestProcessDescriptionFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.epub")
	epubtest.Write(t, path, epubtest.Fixture{
		Titles:       []string{"Work A"},
		Descriptions: []string{"<p>A <em>great</em> story</p><p>Second part</p>"},
		Pages:        []string{epubtest.TagPage(wellFormedTags)},
	})

	tests := []struct {
		name     string
		opts     []Option
		expected string
	}{
		{"plain text by default", nil, "A great story\nSecond part"},
		{"markdown on request", []Option{WithDescriptionFormat(metadata.FormatMarkdown)}, "A *great* story\n\nSecond part"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDriver(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), tt.opts...)
			rec := d.Process(path)
			if rec.Err != nil {
				t.Fatalf("Process failed: %v", rec.Err)
			}
			if rec.Meta.Description == nil || *rec.Meta.Description != tt.expected {
				t.Errorf("Expected description %q, got %v", tt.expected, rec.Meta.Description)
			}
		})
	}
}

func TestProcessErrors(t *testing.T) {
	dir := t.TempDir()

	notZip := filepath.Join(dir, "broken.epub")
	if err := os.WriteFile(notZip, []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}

	noMeta := filepath.Join(dir, "nometa.epub")
	epubtest.Write(t, noMeta, epubtest.Fixture{NoMetadata: true, Pages: []string{epubtest.TagPage(wellFormedTags)}})

	tests := []struct {
		name      string
		path      string
		wantTitle bool
		check     func(error) bool
	}{
		{
			name: "no tag list",
			path: writeWork(t, dir, "b.epub", "Work B", `<html><body><p>No tags here</p></body></html>`),
			check: func(err error) bool {
				return errors.Is(err, markup.ErrNoTagList)
			},
			wantTitle: true,
		},
		{
			name: "duplicate rating",
			path: writeWork(t, dir, "c.epub", "Work C", epubtest.TagPage(`
<dt>Rating:</dt><dd>Teen</dd>
<dt>Rating:</dt><dd>Mature</dd>`)),
			check: func(err error) bool {
				var dup *tags.DuplicateTagError
				return errors.As(err, &dup)
			},
			wantTitle: true,
		},
		{
			name:  "not an archive",
			path:  notZip,
			check: func(err error) bool { return err != nil },
		},
		{
			name:  "missing metadata",
			path:  noMeta,
			check: func(err error) bool { return err != nil },
		},
		{
			name:  "missing file",
			path:  filepath.Join(dir, "absent.epub"),
			check: func(err error) bool { return err != nil },
		},
	}

	d, _ := newTestDriver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := d.Process(tt.path)
			if rec.Tags != nil {
				t.Errorf("Expected no tags, got %+v", rec.Tags)
			}
			if !tt.check(rec.Err) {
				t.Errorf("Unexpected error: %v", rec.Err)
			}
			if rec.Meta.Path != tt.path {
				t.Errorf("Expected path %q, got %q", tt.path, rec.Meta.Path)
			}
			if tt.wantTitle && rec.Meta.Title == nil {
				t.Error("Expected metadata to be kept alongside the error")
			}
		})
	}
}

func TestInspectReportsUnknownLabels(t *testing.T) {
	dir := t.TempDir()
	path := writeWork(t, dir, "a.epub", "Work A", epubtest.TagPage(`
<dt>Rating:</dt><dd>Teen</dd>
<dt>Collections:</dt><dd>Exchange 2021</dd>`))

	d, logs := newTestDriver()
	res := d.Inspect(path)
	if res.Record.Err != nil {
		t.Fatalf("Inspect failed: %v", res.Record.Err)
	}
	if !reflect.DeepEqual(res.Unknown, []string{"Collections:"}) {
		t.Errorf("Unexpected unknown labels: %q", res.Unknown)
	}
	if !bytes.Contains(logs.Bytes(), []byte("path="+path)) {
		t.Errorf("Expected per-work logs to carry the path, got %s", logs.String())
	}
}

// readSheet returns every row of the default worksheet.
func readSheet(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheet.DefaultSheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	return rows
}

// cell returns the value in column col of row, treating trimmed trailing
// cells as empty.
func cell(row []string, col string) string {
	for i, c := range record.Columns() {
		if c == col && i < len(row) {
			return row[i]
		}
	}
	return ""
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeWork(t, dir, "1.epub", "Work A", epubtest.TagPage(wellFormedTags)),
		writeWork(t, dir, "2.epub", "Work B", `<html><body><dl class="notes"><dt>Rating:</dt><dd>Teen</dd></dl></body></html>`),
		writeWork(t, dir, "3.epub", "Work C", epubtest.TagPage(`<dt>Language:</dt><dd>English</dd>`)),
	}

	out := filepath.Join(dir, "works.xlsx")
	w, err := sheet.NewXLSX(out, "")
	if err != nil {
		t.Fatalf("NewXLSX failed: %v", err)
	}

	d, _ := newTestDriver()
	stats, err := d.Run(context.Background(), paths, w)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := w.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if stats != (Stats{Works: 3, Failed: 1}) {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	rows := readSheet(t, out)
	if len(rows) != 4 {
		t.Fatalf("Expected header and 3 rows, got %d rows", len(rows))
	}
	if !reflect.DeepEqual(rows[0], record.Columns()) {
		t.Errorf("Unexpected header: %q", rows[0])
	}

	tests := []struct {
		name     string
		row      int
		col      string
		expected string
	}{
		{"first path", 1, "path_to_file", paths[0]},
		{"first rating", 1, "rating", "Teen"},
		{"first fandoms", 1, "fandoms", "Show A\nShow B"},
		{"first language", 1, "language", ""},
		{"first additional", 1, "additional_tags", "Fluff"},
		{"second title", 2, "title", "Work B"},
		{"second creators", 2, "creators", "Anon"},
		{"second error", 2, "rating", markup.ErrNoTagList.Error()},
		{"second fandoms", 2, "fandoms", ""},
		{"third title", 3, "title", "Work C"},
		{"third language", 3, "language", "English"},
		{"third rating", 3, "rating", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cell(rows[tt.row], tt.col); got != tt.expected {
				t.Errorf("Row %d column %s: expected %q, got %q", tt.row, tt.col, tt.expected, got)
			}
		})
	}
}

type rejectingWriter struct {
	header []string
	rows   int
}

func (r *rejectingWriter) WriteHeader(columns []string) error {
	r.header = columns
	return nil
}

func (r *rejectingWriter) WriteRow([]record.Cell) error {
	r.rows++
	return errors.New("row rejected")
}

func (r *rejectingWriter) Save() error { return nil }

func TestRunContinuesPastRowErrors(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeWork(t, dir, "1.epub", "Work A", epubtest.TagPage(wellFormedTags)),
		writeWork(t, dir, "2.epub", "Work B", epubtest.TagPage(wellFormedTags)),
	}

	w := &rejectingWriter{}
	d, _ := newTestDriver()
	stats, err := d.Run(context.Background(), paths, w)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if w.rows != 2 || stats.RowErrors != 2 {
		t.Errorf("Expected both rows attempted, got rows=%d stats=%+v", w.rows, stats)
	}
	if len(w.header) != len(record.Columns()) {
		t.Errorf("Expected header to be written once, got %q", w.header)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeWork(t, dir, "1.epub", "Work A", epubtest.TagPage(wellFormedTags))}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &rejectingWriter{}
	d, _ := newTestDriver()
	if _, err := d.Run(ctx, paths, w); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if w.rows != 0 {
		t.Errorf("Expected no rows after cancel, got %d", w.rows)
	}
}

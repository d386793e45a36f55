package sheet

import (
	"fmt"
	"os"
	"reflect"

	"github.com/parquet-go/parquet-go"

	"github.com/lehigh-university-libraries/fictags/internal/record"
)

// ParquetRow is the parquet schema of an exported row. Field names match the
// sheet columns; a failed work has its message in Error instead of in the
// first tag column.
type ParquetRow struct {
	Path            string `parquet:"path_to_file"`
	Title           string `parquet:"title"`
	Creators        string `parquet:"creators"`
	Publishers      string `parquet:"publishers"`
	Description     string `parquet:"description"`
	Rating          string `parquet:"rating"`
	ArchiveWarnings string `parquet:"archive_warnings"`
	Categories      string `parquet:"categories"`
	Fandoms         string `parquet:"fandoms"`
	Relationships   string `parquet:"relationships"`
	Characters      string `parquet:"characters"`
	AdditionalTags  string `parquet:"additional_tags"`
	Language        string `parquet:"language"`
	Series          string `parquet:"series"`
	Stats           string `parquet:"stats"`
	Error           string `parquet:"error"`
}

var parquetFields = func() map[string]int {
	t := reflect.TypeFor[ParquetRow]()
	fields := make(map[string]int, t.NumField())
	for i := range t.NumField() {
		fields[t.Field(i).Tag.Get("parquet")] = i
	}
	return fields
}()

// Parquet buffers rows and writes them as a parquet file on Save.
type Parquet struct {
	path string
	rows []ParquetRow
}

// NewParquet creates a parquet writer that will be saved to path.
func NewParquet(path string) *Parquet {
	return &Parquet{path: path}
}

// WriteHeader checks that every column has a field in ParquetRow.
func (p *Parquet) WriteHeader(columns []string) error {
	for _, col := range columns {
		if _, ok := parquetFields[col]; !ok {
			return fmt.Errorf("column %q has no parquet field", col)
		}
	}
	return nil
}

func (p *Parquet) WriteRow(cells []record.Cell) error {
	var row ParquetRow
	v := reflect.ValueOf(&row).Elem()
	for _, c := range cells {
		if c.Error {
			row.Error = c.Text
			continue
		}
		i, ok := parquetFields[c.Column]
		if !ok {
			return fmt.Errorf("column %q has no parquet field", c.Column)
		}
		v.Field(i).SetString(c.Text)
	}
	p.rows = append(p.rows, row)
	return nil
}

func (p *Parquet) Save() error {
	file, err := os.Create(p.path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}

	w := parquet.NewGenericWriter[ParquetRow](file)
	if _, err := w.Write(p.rows); err != nil {
		file.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		file.Close()
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close parquet file: %w", err)
	}
	return nil
}

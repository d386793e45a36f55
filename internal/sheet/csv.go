package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/fictags/internal/record"
)

// CSV writes rows as comma-separated values. Cells keep their embedded
// newlines; error cells are written like any other cell.
type CSV struct {
	path string
	buf  bytes.Buffer
	w    *csv.Writer
}

// NewCSV creates a CSV writer that will be saved to path.
func NewCSV(path string) *CSV {
	c := &CSV{path: path}
	c.w = csv.NewWriter(&c.buf)
	return c
}

func (c *CSV) WriteHeader(columns []string) error {
	return c.w.Write(columns)
}

func (c *CSV) WriteRow(cells []record.Cell) error {
	row := make([]string, len(cells))
	for i, cell := range cells {
		row[i] = cell.Text
	}
	return c.w.Write(row)
}

func (c *CSV) Save() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("failed to encode csv: %w", err)
	}
	if err := os.WriteFile(c.path, c.buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write csv file: %w", err)
	}
	return nil
}

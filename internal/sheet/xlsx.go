package sheet

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/lehigh-university-libraries/fictags/internal/record"
)

// DefaultSheet is the worksheet name used when none is configured.
const DefaultSheet = "Works"

const (
	minColumnWidth = 8
	maxColumnWidth = 80
)

// XLSX writes rows to a single-worksheet Excel workbook. The header row is
// bold, data cells wrap, error cells are filled red, and columns are sized
// to their content when the workbook is saved.
type XLSX struct {
	path   string
	sheet  string
	file   *excelize.File
	row    int
	widths []int
	logger *slog.Logger

	headerStyle int
	wrapStyle   int
	errorStyle  int
}

// NewXLSX creates a workbook that will be saved to path. Warnings go to
// slog.Default().
func NewXLSX(path, sheetName string) (*XLSX, error) {
	if sheetName == "" {
		sheetName = DefaultSheet
	}

	f := excelize.NewFile()
	x := &XLSX{path: path, sheet: sheetName, file: f, logger: slog.Default()}

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name worksheet: %w", err)
	}

	var err error
	if x.headerStyle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if x.wrapStyle, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create wrap style: %w", err)
	}
	if x.errorStyle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "9C0006"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC7CE"}},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create error style: %w", err)
	}

	return x, nil
}

// WriteHeader writes the bold header row and applies word wrap to every
// data column.
func (x *XLSX) WriteHeader(columns []string) error {
	if len(columns) == 0 {
		return fmt.Errorf("no columns")
	}
	x.widths = make([]int, len(columns))

	last, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}
	if err := x.file.SetColStyle(x.sheet, "A:"+last, x.wrapStyle); err != nil {
		return fmt.Errorf("failed to set column style: %w", err)
	}

	x.row = 1
	for i, col := range columns {
		if err := x.setCell(i, col); err != nil {
			return err
		}
	}
	return x.file.SetCellStyle(x.sheet, "A1", fmt.Sprintf("%s1", last), x.headerStyle)
}

// WriteRow appends one row below the previous one.
func (x *XLSX) WriteRow(cells []record.Cell) error {
	if x.row == 0 {
		return fmt.Errorf("header not written")
	}
	x.row++

	for i, c := range cells {
		if err := x.setCell(i, c.Text); err != nil {
			return err
		}
		if !c.Error {
			continue
		}
		name, err := excelize.CoordinatesToCellName(i+1, x.row)
		if err != nil {
			return err
		}
		if err := x.file.SetCellStyle(x.sheet, name, name, x.errorStyle); err != nil {
			return fmt.Errorf("failed to style error cell %s: %w", name, err)
		}
	}
	return nil
}

func (x *XLSX) setCell(col int, text string) error {
	name, err := excelize.CoordinatesToCellName(col+1, x.row)
	if err != nil {
		return err
	}
	if n := utf8.RuneCountInString(text); n > excelize.TotalCellChars {
		x.logger.Warn("Cell text exceeds the Excel limit and will be truncated",
			"cell", name, "chars", n, "limit", excelize.TotalCellChars)
	}
	if err := x.file.SetCellStr(x.sheet, name, text); err != nil {
		return fmt.Errorf("failed to write cell %s: %w", name, err)
	}
	if col < len(x.widths) {
		x.widths[col] = max(x.widths[col], textWidth(text))
	}
	return nil
}

// Save sizes the columns and writes the workbook in one call.
func (x *XLSX) Save() error {
	defer x.file.Close()

	for i, w := range x.widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := float64(min(max(w+2, minColumnWidth), maxColumnWidth))
		if err := x.file.SetColWidth(x.sheet, name, name, width); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", name, err)
		}
	}

	if err := x.file.SaveAs(x.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// textWidth is the length of the longest line of text in characters.
func textWidth(text string) int {
	width := 0
	for _, line := range strings.Split(text, "\n") {
		width = max(width, utf8.RuneCountInString(line))
	}
	return width
}

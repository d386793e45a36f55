// Package record flattens one work's metadata and tags into sheet cells.
package record

import (
	"errors"
	"reflect"
	"slices"
	"strings"

	"github.com/lehigh-university-libraries/fictags/internal/metadata"
	"github.com/lehigh-university-libraries/fictags/internal/tags"
)

// ListSeparator joins the entries of list-valued fields inside one cell.
const ListSeparator = "\n"

var errNoTags = errors.New("no tag record")

// FullWorkRecord is the outcome of processing one file. Exactly one of Tags
// and Err is set.
type FullWorkRecord struct {
	Meta metadata.MetaInfo
	Tags *tags.Record
	Err  error
}

// Cell is one column of a serialized row.
type Cell struct {
	Column string
	Text   string
	// Error marks a cell that reports a processing failure.
	Error bool
}

var (
	metaColumns = columnsOf(reflect.TypeFor[metadata.MetaInfo]())
	tagColumns  = columnsOf(reflect.TypeFor[tags.Record]())
)

// Columns returns the header row: the MetaInfo fields followed by the tag
// Record fields, in declaration order.
func Columns() []string {
	return slices.Concat(metaColumns, tagColumns)
}

// TagColumns returns the columns that come from the tag Record.
func TagColumns() []string {
	return slices.Clone(tagColumns)
}

// Serialize returns one cell per column of Columns. When the record carries
// an error, the first tag column holds the error text and the other tag
// columns are blank.
func Serialize(rec FullWorkRecord) []Cell {
	cells := cellsOf(reflect.ValueOf(rec.Meta))

	err := rec.Err
	if err == nil && rec.Tags == nil {
		err = errNoTags
	}
	if err != nil {
		for i, col := range tagColumns {
			c := Cell{Column: col}
			if i == 0 {
				c.Text = err.Error()
				c.Error = true
			}
			cells = append(cells, c)
		}
		return cells
	}

	return append(cells, cellsOf(reflect.ValueOf(*rec.Tags))...)
}

func columnsOf(t reflect.Type) []string {
	cols := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		cols = append(cols, columnName(t.Field(i)))
	}
	return cols
}

func columnName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return f.Name
	}
	return name
}

func cellsOf(v reflect.Value) []Cell {
	t := v.Type()
	cells := make([]Cell, 0, t.NumField())
	for i := range t.NumField() {
		cells = append(cells, Cell{
			Column: columnName(t.Field(i)),
			Text:   text(v.Field(i)),
		})
	}
	return cells
}

func text(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Pointer:
		if v.IsNil() {
			return ""
		}
		return text(v.Elem())
	case reflect.Slice:
		parts := make([]string, v.Len())
		for i := range v.Len() {
			parts[i] = text(v.Index(i))
		}
		return strings.Join(parts, ListSeparator)
	}
	return ""
}

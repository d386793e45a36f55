// Package sheet writes serialized work rows to output files.
package sheet

import (
	"errors"

	"github.com/lehigh-university-libraries/fictags/internal/record"
)

// Writer receives a header once, then one row per work, then Save. Nothing
// is guaranteed to reach disk before Save returns.
type Writer interface {
	WriteHeader(columns []string) error
	WriteRow(cells []record.Cell) error
	Save() error
}

// Multi fans every call out to all writers.
func Multi(writers ...Writer) Writer {
	return multi(writers)
}

type multi []Writer

func (m multi) WriteHeader(columns []string) error {
	var errs []error
	for _, w := range m {
		errs = append(errs, w.WriteHeader(columns))
	}
	return errors.Join(errs...)
}

func (m multi) WriteRow(cells []record.Cell) error {
	var errs []error
	for _, w := range m {
		errs = append(errs, w.WriteRow(cells))
	}
	return errors.Join(errs...)
}

func (m multi) Save() error {
	var errs []error
	for _, w := range m {
		errs = append(errs, w.Save())
	}
	return errors.Join(errs...)
}

// Package sink persists flattened endpoint row-sets.
//
// Every sink replaces its destination on each write: a table is dropped and
// recreated, a CSV file is rewritten, a collection is dropped and refilled.
// Re-running the job for the same season therefore produces the same state.
package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sternrassler/f1-etl/pkg/ergast"
	"github.com/spf13/cast"
)

// Table is the row-set of one endpoint, in fetch order.
type Table struct {
	// Name is the endpoint name (e.g. "driverStandings").
	Name string

	// Season the rows belong to. Ignored for global endpoints.
	Season string

	Scope   ergast.Scope
	Columns []string
	Rows    []ergast.Row
}

// TableName is the lower-cased endpoint name used for tables, collections, and files.
func (t Table) TableName() string {
	return strings.ToLower(t.Name)
}

// Values returns row i as cells in column order. Missing or null values are
// reported as invalid.
func (t Table) Values(i int) ([]string, []bool) {
	row := t.Rows[i]
	cells := make([]string, len(t.Columns))
	valid := make([]bool, len(t.Columns))
	for j, col := range t.Columns {
		cells[j], valid[j] = Cell(row[col])
	}
	return cells, valid
}

func (t Table) validate() error {
	if t.Name == "" {
		return fmt.Errorf("table name is required")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", t.Name)
	}
	return nil
}

// Cell renders a scalar as text. nil yields ("", false).
func Cell(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v), true
	}
	return s, true
}

// Sink writes a table to one destination.
type Sink interface {
	// Kind names the sink type for logs and metrics ("sql", "csv", "mongo").
	Kind() string

	// Write replaces the destination with t and returns a description of
	// where the rows went.
	Write(ctx context.Context, t Table) (string, error)

	Close() error
}

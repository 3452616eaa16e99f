package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sternrassler/f1-etl/pkg/ergast"
)

// CSVSink writes one CSV file per table.
type CSVSink struct {
	dir string
}

// NewCSVSink creates dir if needed and returns a sink writing into it.
func NewCSVSink(dir string) (*CSVSink, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create csv dir: %w", err)
	}
	return &CSVSink{dir: dir}, nil
}

// Kind implements Sink.
func (s *CSVSink) Kind() string { return "csv" }

// Dir returns the output directory.
func (s *CSVSink) Dir() string { return s.dir }

// FileName is {table}_{season}.csv for season and round scoped tables and
// {table}.csv for global ones.
func FileName(t Table) string {
	if t.Scope == ergast.ScopeGlobal || t.Season == "" {
		return t.TableName() + ".csv"
	}
	return fmt.Sprintf("%s_%s.csv", t.TableName(), t.Season)
}

// Path returns the file path t is written to.
func (s *CSVSink) Path(t Table) string {
	return filepath.Join(s.dir, FileName(t))
}

// Write renders the header and all rows, then renames the result over the
// previous file.
func (s *CSVSink) Write(ctx context.Context, t Table) (string, error) {
	if err := t.validate(); err != nil {
		return "", err
	}

	path := s.Path(t)
	tmp, err := os.CreateTemp(s.dir, "."+FileName(t)+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(t.Columns); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write header: %w", err)
	}
	for i := range t.Rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				tmp.Close()
				return "", err
			}
		}
		cells, _ := t.Values(i)
		if err := w.Write(cells); err != nil {
			tmp.Close()
			return "", fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("flush csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("replace %s: %w", path, err)
	}

	return path, nil
}

// Close implements Sink.
func (s *CSVSink) Close() error { return nil }

package sink

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/Sternrassler/f1-etl/pkg/ergast"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return records
}

func TestCSVSink_Write(t *testing.T) {
	dir := t.TempDir()
	s, err := NewCSVSink(dir)
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}

	dest, err := s.Write(context.Background(), sampleTable())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if want := filepath.Join(dir, "driverstandings_2023.csv"); dest != want {
		t.Errorf("destination = %q, want %q", dest, want)
	}

	records := readCSV(t, dest)
	if len(records) != 4 {
		t.Fatalf("records = %d, want header + 3", len(records))
	}

	header := records[0]
	wantHeader := []string{"season", "round", "position", "points", "driverId", "constructors"}
	for i := range wantHeader {
		if header[i] != wantHeader[i] {
			t.Errorf("header[%d] = %q, want %q", i, header[i], wantHeader[i])
		}
	}

	if records[1][3] != "575" {
		t.Errorf("points = %q, want 575", records[1][3])
	}
	if records[2][3] != "" {
		t.Errorf("null points = %q, want empty", records[2][3])
	}
	if records[2][5] != "red_bull,mclaren" {
		t.Errorf("constructors = %q", records[2][5])
	}
}

func TestCSVSink_ZeroRowsWritesHeader(t *testing.T) {
	s, err := NewCSVSink(t.TempDir())
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}

	flattener, ok := ergast.Lookup("sprint")
	if !ok {
		t.Fatal("sprint flattener not registered")
	}
	tbl := Table{
		Name:    "sprint",
		Season:  "2019",
		Scope:   ergast.ScopeSeason,
		Columns: flattener.Columns,
	}

	dest, err := s.Write(context.Background(), tbl)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	records := readCSV(t, dest)
	if len(records) != 1 {
		t.Fatalf("records = %d, want header only", len(records))
	}
	if len(records[0]) != len(tbl.Columns) {
		t.Errorf("header columns = %d, want %d", len(records[0]), len(tbl.Columns))
	}
}

func TestCSVSink_RewriteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	s, err := NewCSVSink(dir)
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}
	ctx := context.Background()

	dest, err := s.Write(ctx, sampleTable())
	if err != nil {
		t.Fatalf("first Write: %v", err)
	}
	first, _ := os.ReadFile(dest)

	if _, err := s.Write(ctx, sampleTable()); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	second, _ := os.ReadFile(dest)

	if !bytes.Equal(first, second) {
		t.Errorf("rewrite changed file:\n%s\n---\n%s", first, second)
	}

	// Only the target file remains; temp files are cleaned up.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir entries = %v, want only %s", names, filepath.Base(dest))
	}
}

func TestCSVSink_ReplacesShorterContent(t *testing.T) {
	s, err := NewCSVSink(t.TempDir())
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}
	ctx := context.Background()

	tbl := sampleTable()
	if _, err := s.Write(ctx, tbl); err != nil {
		t.Fatalf("Write: %v", err)
	}

	tbl.Rows = tbl.Rows[:1]
	dest, err := s.Write(ctx, tbl)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	if got := len(readCSV(t, dest)); got != 2 {
		t.Errorf("records = %d, want header + 1", got)
	}
}

func TestNewCSVSink_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "csv")
	s, err := NewCSVSink(dir)
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}
	if s.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", s.Dir(), dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("dir not created: %v", err)
	}
}

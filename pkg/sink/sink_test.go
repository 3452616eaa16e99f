package sink

import (
	"encoding/json"
	"testing"

	"github.com/Sternrassler/f1-etl/pkg/ergast"
)

func sampleTable() Table {
	return Table{
		Name:    "driverStandings",
		Season:  "2023",
		Scope:   ergast.ScopeSeason,
		Columns: []string{"season", "round", "position", "points", "driverId", "constructors"},
		Rows: []ergast.Row{
			{"season": "2023", "round": "22", "position": "1", "points": json.Number("575"), "driverId": "max_verstappen", "constructors": "red_bull"},
			{"season": "2023", "round": "22", "position": "2", "points": nil, "driverId": "perez", "constructors": "red_bull,mclaren"},
			{"season": "2023", "round": "22", "position": "3", "driverId": "hamilton", "constructors": ""},
		},
	}
}

func TestCell(t *testing.T) {
	tests := []struct {
		name      string
		in        any
		want      string
		wantValid bool
	}{
		{name: "nil", in: nil, want: "", wantValid: false},
		{name: "string", in: "monza", want: "monza", wantValid: true},
		{name: "empty string", in: "", want: "", wantValid: true},
		{name: "json number", in: json.Number("1.5"), want: "1.5", wantValid: true},
		{name: "bool", in: true, want: "true", wantValid: true},
		{name: "float", in: 44.0, want: "44", wantValid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, valid := Cell(tt.in)
			if got != tt.want || valid != tt.wantValid {
				t.Errorf("Cell(%v) = (%q, %v), want (%q, %v)", tt.in, got, valid, tt.want, tt.wantValid)
			}
		})
	}
}

func TestTable_Values(t *testing.T) {
	tbl := sampleTable()

	cells, valid := tbl.Values(1)
	if cells[3] != "" || valid[3] {
		t.Errorf("null points = (%q, %v), want (\"\", false)", cells[3], valid[3])
	}
	if cells[5] != "red_bull,mclaren" {
		t.Errorf("constructors = %q", cells[5])
	}

	// A column absent from the row map behaves like null.
	cells, valid = tbl.Values(2)
	if cells[3] != "" || valid[3] {
		t.Errorf("missing points = (%q, %v), want (\"\", false)", cells[3], valid[3])
	}
	if !valid[5] {
		t.Error("empty constructors string must stay valid")
	}
}

func TestTable_TableName(t *testing.T) {
	if got := sampleTable().TableName(); got != "driverstandings" {
		t.Errorf("TableName() = %q, want driverstandings", got)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name  string
		table Table
		want  string
	}{
		{name: "season scoped", table: Table{Name: "results", Season: "2023", Scope: ergast.ScopeSeason}, want: "results_2023.csv"},
		{name: "round scoped", table: Table{Name: "pitstops", Season: "2023", Scope: ergast.ScopeRound}, want: "pitstops_2023.csv"},
		{name: "mixed case", table: Table{Name: "constructorStandings", Season: "2021", Scope: ergast.ScopeSeason}, want: "constructorstandings_2021.csv"},
		{name: "global", table: Table{Name: "seasons", Season: "2023", Scope: ergast.ScopeGlobal}, want: "seasons.csv"},
		{name: "global status", table: Table{Name: "status", Scope: ergast.ScopeGlobal}, want: "status.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileName(tt.table); got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTable_Validate(t *testing.T) {
	if err := (Table{Columns: []string{"a"}}).validate(); err == nil {
		t.Error("expected error for missing name")
	}
	if err := (Table{Name: "x"}).validate(); err == nil {
		t.Error("expected error for missing columns")
	}
	if err := sampleTable().validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

package ergast

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func mustDecode(t *testing.T, body string) Page {
	t.Helper()
	p, err := Decode(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return p
}

func TestDecode(t *testing.T) {
	p := mustDecode(t, `{"MRData": {"total": "42", "limit": 30}}`)

	if got := p.Root().Path("MRData", "limit").Value(); got != json.Number("30") {
		t.Errorf("limit = %#v, want json.Number(30)", got)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"MRData": `},
		{"array", `[1, 2]`},
		{"string", `"hello"`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPage_Total(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{"string total", `{"MRData": {"total": "1234"}}`, 1234},
		{"numeric total", `{"MRData": {"total": 7}}`, 7},
		{"zero", `{"MRData": {"total": "0"}}`, 0},
		{"absent total", `{"MRData": {}}`, 0},
		{"absent envelope", `{}`, 0},
		{"garbage", `{"MRData": {"total": "many"}}`, 0},
		{"negative", `{"MRData": {"total": "-3"}}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustDecode(t, tt.body).Total(); got != tt.expected {
				t.Errorf("Total() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestPage_Require(t *testing.T) {
	p := mustDecode(t, `{"MRData": {"RaceTable": {"Races": []}}}`)

	if _, err := p.Require("MRData", "RaceTable", "Races"); err != nil {
		t.Errorf("Require() error = %v", err)
	}

	_, err := p.Require("MRData", "CircuitTable", "Circuits")
	if !errors.Is(err, ErrMalformedPage) {
		t.Fatalf("Require() error = %v, want ErrMalformedPage", err)
	}
	if !strings.Contains(err.Error(), "MRData.CircuitTable") {
		t.Errorf("error %q should name the missing key", err)
	}
}

func TestPage_RequireList_NotAList(t *testing.T) {
	p := mustDecode(t, `{"MRData": {"RaceTable": {"Races": {"round": "1"}}}}`)

	if _, err := p.RequireList("MRData", "RaceTable", "Races"); !errors.Is(err, ErrMalformedPage) {
		t.Errorf("RequireList() error = %v, want ErrMalformedPage", err)
	}
}

func TestNode_Path(t *testing.T) {
	p := mustDecode(t, `{"a": {"b": {"c": "leaf"}, "n": null, "s": "str"}}`)
	root := p.Root()

	tests := []struct {
		name     string
		keys     []string
		expected any
	}{
		{"full chain", []string{"a", "b", "c"}, "leaf"},
		{"missing link", []string{"a", "x", "c"}, nil},
		{"null link", []string{"a", "n", "c"}, nil},
		{"through scalar", []string{"a", "s", "c"}, nil},
		{"object is not a value", []string{"a", "b"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := root.Path(tt.keys...).Value(); got != tt.expected {
				t.Errorf("Path(%v).Value() = %#v, want %#v", tt.keys, got, tt.expected)
			}
		})
	}
}

func TestNode_List(t *testing.T) {
	p := mustDecode(t, `{"list": [1, "two", null], "obj": {}}`)

	list := p.Root().Get("list").List()
	if len(list) != 3 {
		t.Fatalf("len(List()) = %d, want 3", len(list))
	}
	if list[1].String() != "two" {
		t.Errorf("list[1] = %q, want two", list[1].String())
	}
	if list[2].Exists() {
		t.Error("null element should not exist")
	}
	if p.Root().Get("obj").List() != nil {
		t.Error("List() of an object should be nil")
	}
	if p.Root().Get("missing").List() != nil {
		t.Error("List() of a missing key should be nil")
	}
}

func TestNode_String(t *testing.T) {
	tests := []struct {
		node     Node
		expected string
	}{
		{NewNode("x"), "x"},
		{NewNode(json.Number("10")), "10"},
		{NewNode(1.5), "1.5"},
		{NewNode(true), "true"},
		{NewNode(nil), ""},
		{NewNode(map[string]any{}), ""},
	}

	for _, tt := range tests {
		if got := tt.node.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}

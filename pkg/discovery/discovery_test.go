package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Sternrassler/f1-etl/pkg/ergast"
)

func TestAll(t *testing.T) {
	all := All()
	if len(all) != 13 {
		t.Errorf("All() = %d endpoints, want 13", len(all))
	}
	if strings.Join(all, ",") != strings.Join(ergast.EndpointNames(), ",") {
		t.Errorf("All() = %v, want canonical order %v", all, ergast.EndpointNames())
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "results", want: "results"},
		{in: " results , laps,,results ", want: "results,laps"},
		{in: ",,", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := strings.Join(ParseList(tt.in), ","); got != tt.want {
				t.Errorf("ParseList(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromNames(t *testing.T) {
	got, err := FromNames([]string{"status", "laps", "drivers", "laps"})
	if err != nil {
		t.Fatalf("FromNames: %v", err)
	}
	if want := "drivers,laps,status"; strings.Join(got, ",") != want {
		t.Errorf("FromNames() = %v, want %s", got, want)
	}
}

func TestFromNames_Unknown(t *testing.T) {
	_, err := FromNames([]string{"drivers", "tyres", "Results"})
	if !errors.Is(err, ErrUnknownEndpoint) {
		t.Fatalf("err = %v, want ErrUnknownEndpoint", err)
	}
	for _, want := range []string{"tyres", "Results"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("err = %q, missing %q", err.Error(), want)
		}
	}
}

func writeDocs(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("# doc\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestFromDocsDir(t *testing.T) {
	// tyres has no path or flattener; the .txt and .bak files are not docs.
	dir := writeDocs(t,
		"results.md",
		"driverStandings.md",
		"pitstops.md",
		"tyres.md",
		"README.txt",
		"seasons.md.bak",
	)
	if err := os.Mkdir(filepath.Join(dir, "status.md"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := FromDocsDir(dir)
	if err != nil {
		t.Fatalf("FromDocsDir: %v", err)
	}
	if want := "results,pitstops,driverStandings"; strings.Join(got, ",") != want {
		t.Errorf("FromDocsDir() = %v, want %s", got, want)
	}
}

func TestFromDocsDir_Missing(t *testing.T) {
	if _, err := FromDocsDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing dir")
	}
}

func TestResolve(t *testing.T) {
	docs := writeDocs(t, "seasons.md", "circuits.md")

	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr bool
	}{
		{name: "names win over docs", opts: Options{Names: []string{"status"}, DocsDir: docs}, want: "status"},
		{name: "docs dir", opts: Options{DocsDir: docs}, want: "circuits,seasons"},
		{name: "blank names fall through", opts: Options{Names: []string{""}, DocsDir: docs}, want: "circuits,seasons"},
		{name: "all", opts: Options{}, want: strings.Join(ergast.EndpointNames(), ",")},
		{name: "unknown name", opts: Options{Names: []string{"tyres"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && strings.Join(got, ",") != tt.want {
				t.Errorf("Resolve() = %v, want %s", got, tt.want)
			}
		})
	}
}

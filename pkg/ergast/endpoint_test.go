package ergast

import "testing"

func TestEndpoints_AllSupported(t *testing.T) {
	for _, e := range Endpoints() {
		if !Supported(e.Name) {
			t.Errorf("endpoint %q has no flattener", e.Name)
		}
	}

	if len(Registered()) != len(Endpoints()) {
		t.Errorf("registered %d flatteners for %d endpoints", len(Registered()), len(Endpoints()))
	}
}

func TestSupported_Unknown(t *testing.T) {
	if Supported("fastestLaps") {
		t.Error("unknown endpoint should not be supported")
	}
}

func TestEndpoint_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		season   string
		round    string
		expected string
	}{
		{"circuits", "2025", "", "/2025/circuits/"},
		{"races", "2025", "", "/2025/"},
		{"laps", "2025", "7", "/2025/7/laps/"},
		{"pitstops", "2024", "12", "/2024/12/pitstops/"},
		{"driverStandings", "2025", "", "/2025/driverstandings/"},
		{"seasons", "2025", "", "/seasons/"},
		{"status", "2025", "", "/status/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := LookupEndpoint(tt.name)
			if !ok {
				t.Fatalf("LookupEndpoint(%q) not found", tt.name)
			}
			if got := e.Resolve(tt.season, tt.round); got != tt.expected {
				t.Errorf("Resolve() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestEndpoint_Scope(t *testing.T) {
	tests := []struct {
		name         string
		scope        Scope
		seasonScoped bool
		table        string
	}{
		{"results", ScopeSeason, true, "results"},
		{"laps", ScopeRound, true, "laps"},
		{"pitstops", ScopeRound, true, "pitstops"},
		{"constructorStandings", ScopeSeason, true, "constructorstandings"},
		{"seasons", ScopeGlobal, false, "seasons"},
		{"status", ScopeGlobal, false, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := LookupEndpoint(tt.name)
			if e.Scope != tt.scope {
				t.Errorf("Scope = %s, want %s", e.Scope, tt.scope)
			}
			if e.SeasonScoped() != tt.seasonScoped {
				t.Errorf("SeasonScoped() = %v, want %v", e.SeasonScoped(), tt.seasonScoped)
			}
			if e.Table() != tt.table {
				t.Errorf("Table() = %q, want %q", e.Table(), tt.table)
			}
		})
	}
}

func TestEndpointNames_Order(t *testing.T) {
	names := EndpointNames()
	if names[0] != "circuits" || names[len(names)-1] != "status" {
		t.Errorf("unexpected order: %v", names)
	}
}

package ergast

import "strings"

// Scope tells how an endpoint is addressed.
type Scope int

const (
	// ScopeSeason endpoints are fetched once per season.
	ScopeSeason Scope = iota

	// ScopeRound endpoints cannot be fetched per season and are fetched
	// once per (season, round).
	ScopeRound

	// ScopeGlobal endpoints do not depend on the season.
	ScopeGlobal
)

func (s Scope) String() string {
	switch s {
	case ScopeSeason:
		return "season"
	case ScopeRound:
		return "round"
	case ScopeGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// Endpoint describes one F1 resource.
type Endpoint struct {
	// Name is the endpoint identifier, e.g. "driverStandings".
	Name string

	// Path is the resource path template with {season} and {round} placeholders.
	Path string

	Scope Scope
}

// endpoints lists every supported endpoint in processing order.
var endpoints = []Endpoint{
	{Name: "circuits", Path: "/{season}/circuits/", Scope: ScopeSeason},
	{Name: "constructors", Path: "/{season}/constructors/", Scope: ScopeSeason},
	{Name: "drivers", Path: "/{season}/drivers/", Scope: ScopeSeason},
	{Name: "races", Path: "/{season}/", Scope: ScopeSeason},
	{Name: "qualifying", Path: "/{season}/qualifying/", Scope: ScopeSeason},
	{Name: "results", Path: "/{season}/results/", Scope: ScopeSeason},
	{Name: "sprint", Path: "/{season}/sprint/", Scope: ScopeSeason},
	{Name: "laps", Path: "/{season}/{round}/laps/", Scope: ScopeRound},
	{Name: "pitstops", Path: "/{season}/{round}/pitstops/", Scope: ScopeRound},
	{Name: "driverStandings", Path: "/{season}/driverstandings/", Scope: ScopeSeason},
	{Name: "constructorStandings", Path: "/{season}/constructorstandings/", Scope: ScopeSeason},
	{Name: "seasons", Path: "/seasons/", Scope: ScopeGlobal},
	{Name: "status", Path: "/status/", Scope: ScopeGlobal},
}

// Endpoints returns all endpoints in processing order.
func Endpoints() []Endpoint {
	return append([]Endpoint(nil), endpoints...)
}

// EndpointNames returns all endpoint names in processing order.
func EndpointNames() []string {
	names := make([]string, len(endpoints))
	for i, e := range endpoints {
		names[i] = e.Name
	}
	return names
}

// LookupEndpoint finds an endpoint by exact name.
func LookupEndpoint(name string) (Endpoint, bool) {
	for _, e := range endpoints {
		if e.Name == name {
			return e, true
		}
	}
	return Endpoint{}, false
}

// Supported reports whether name has both an endpoint path and a flattener.
func Supported(name string) bool {
	if _, ok := LookupEndpoint(name); !ok {
		return false
	}
	_, ok := Lookup(name)
	return ok
}

// Table returns the table name: the lower-cased endpoint name.
func (e Endpoint) Table() string {
	return strings.ToLower(e.Name)
}

// Resolve substitutes season and round into the path template.
func (e Endpoint) Resolve(season, round string) string {
	return strings.NewReplacer("{season}", season, "{round}", round).Replace(e.Path)
}

// SeasonScoped reports whether the endpoint's data belongs to one season.
func (e Endpoint) SeasonScoped() bool {
	return e.Scope == ScopeSeason || e.Scope == ScopeRound
}

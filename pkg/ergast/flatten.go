package ergast

import (
	"fmt"
	"sort"
)

// FlattenFunc turns one page into rows. It has no side effects.
type FlattenFunc func(Page) ([]Row, error)

// Flattener pairs a transform with the columns every produced row carries.
type Flattener struct {
	Columns []string
	Flatten FlattenFunc
}

var registry = map[string]Flattener{}

func register(name string, columns []string, fn FlattenFunc) {
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("ergast: flattener %q registered twice", name))
	}
	registry[name] = Flattener{Columns: columns, Flatten: fn}
}

// Lookup returns the flattener registered for an endpoint name.
func Lookup(name string) (Flattener, bool) {
	f, ok := registry[name]
	return f, ok
}

// Registered returns the names with a flattener, sorted.
func Registered() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Flatten applies the named flattener to every page and concatenates the
// rows in page order.
func Flatten(name string, pages []Page) ([]Row, error) {
	f, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("no flattener registered for %q", name)
	}

	rows := []Row{}
	for i, page := range pages {
		out, err := f.Flatten(page)
		if err != nil {
			return nil, fmt.Errorf("flatten %s page %d: %w", name, i, err)
		}
		rows = append(rows, out...)
	}
	return rows, nil
}

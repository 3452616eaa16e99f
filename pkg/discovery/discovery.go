// Package discovery resolves which endpoints a run processes: an explicit
// list, the markdown files of an endpoint documentation directory, or every
// supported endpoint.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Sternrassler/f1-etl/pkg/ergast"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// ErrUnknownEndpoint is returned when an explicitly requested endpoint has
// no path or no flattener.
var ErrUnknownEndpoint = errors.New("unknown endpoint")

// Options selects the endpoint source. Names take precedence over DocsDir;
// with neither set, all endpoints are selected.
type Options struct {
	Names   []string
	DocsDir string
}

// Resolve returns the endpoint names in canonical processing order.
func Resolve(opts Options) ([]string, error) {
	switch {
	case len(lo.Compact(opts.Names)) > 0:
		return FromNames(opts.Names)
	case opts.DocsDir != "":
		return FromDocsDir(opts.DocsDir)
	default:
		return All(), nil
	}
}

// All returns every supported endpoint.
func All() []string {
	return lo.Filter(ergast.EndpointNames(), func(name string, _ int) bool {
		return ergast.Supported(name)
	})
}

// ParseList splits a comma-separated endpoint list, dropping blanks.
func ParseList(s string) []string {
	parts := strings.Split(s, ",")
	parts = lo.Map(parts, func(p string, _ int) string { return strings.TrimSpace(p) })
	return lo.Uniq(lo.Compact(parts))
}

// FromNames validates names and returns them in canonical order. Any name
// without both a path and a flattener fails with ErrUnknownEndpoint.
func FromNames(names []string) ([]string, error) {
	names = lo.Compact(names)

	unknown := lo.Reject(names, func(name string, _ int) bool { return ergast.Supported(name) })
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s (supported: %s)",
			ErrUnknownEndpoint, strings.Join(lo.Uniq(unknown), ", "), strings.Join(All(), ", "))
	}

	return canonical(names), nil
}

// FromDocsDir returns the endpoints named by *.md files in dir. Files that
// match no supported endpoint are skipped with a warning.
func FromDocsDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read docs dir: %w", err)
	}

	logger := log.With().Str("component", "discovery").Str("docs_dir", dir).Logger()

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".md")
		if !ergast.Supported(name) {
			logger.Warn().Str("endpoint", name).Msg("Skipping documented endpoint without path or flattener")
			continue
		}
		names = append(names, name)
	}

	return canonical(names), nil
}

// canonical orders names as ergast.EndpointNames does and drops duplicates.
func canonical(names []string) []string {
	return lo.Filter(ergast.EndpointNames(), func(name string, _ int) bool {
		return lo.Contains(names, name)
	})
}

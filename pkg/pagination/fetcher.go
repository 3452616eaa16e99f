package pagination

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Sternrassler/f1-etl/pkg/client"
	"github.com/Sternrassler/f1-etl/pkg/ergast"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 100

// PageGetter fetches one page. *client.Client implements it.
type PageGetter interface {
	GetPage(ctx context.Context, path string, query url.Values) (ergast.Page, error)
}

// Pacer waits before a non-first page. *ratelimit.Throttle implements it.
type Pacer interface {
	BetweenPages(ctx context.Context, path string, offset int) error
}

// Fetcher retrieves every page of a resource in order.
type Fetcher struct {
	getter PageGetter
	pacer  Pacer
	logger zerolog.Logger
}

// NewFetcher creates a fetcher from a page getter and a pacer.
func NewFetcher(getter PageGetter, pacer Pacer) *Fetcher {
	return &Fetcher{
		getter: getter,
		pacer:  pacer,
		logger: log.With().Str("component", "pagination").Logger(),
	}
}

// NewClientFetcher creates a fetcher paced by the client's own throttle.
func NewClientFetcher(c *client.Client) *Fetcher {
	return NewFetcher(c, c.Throttle())
}

// FetchAll returns all pages of path in fetch order. A total of 0 yields
// exactly one page. The total is taken from the first page only.
func (f *Fetcher) FetchAll(ctx context.Context, path string, pageSize int) ([]ergast.Page, error) {
	if pageSize < 1 {
		return nil, fmt.Errorf("page size must be >= 1 (got %d)", pageSize)
	}

	start := time.Now()

	first, err := f.getter.GetPage(ctx, path, pageQuery(pageSize, 0))
	if err != nil {
		return nil, fmt.Errorf("fetch %s offset 0: %w", path, err)
	}

	total := first.Total()
	pages := make([]ergast.Page, 0, pageCount(total, pageSize))
	pages = append(pages, first)

	f.logger.Debug().
		Str("path", path).
		Int("total", total).
		Int("page_size", pageSize).
		Msg("Starting paginated fetch")

	for offset := pageSize; offset < total; offset += pageSize {
		if err := f.pacer.BetweenPages(ctx, path, offset); err != nil {
			return nil, fmt.Errorf("fetch %s offset %d: %w", path, offset, err)
		}

		page, err := f.getter.GetPage(ctx, path, pageQuery(pageSize, offset))
		if err != nil {
			return nil, fmt.Errorf("fetch %s offset %d: %w", path, offset, err)
		}
		pages = append(pages, page)
	}

	f.logger.Debug().
		Str("path", path).
		Int("pages", len(pages)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return pages, nil
}

// pageCount is ceil(total/pageSize), at least 1.
func pageCount(total, pageSize int) int {
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

func pageQuery(limit, offset int) url.Values {
	return url.Values{
		"limit":  []string{strconv.Itoa(limit)},
		"offset": []string{strconv.Itoa(offset)},
	}
}

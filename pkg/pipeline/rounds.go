package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Sternrassler/f1-etl/pkg/ergast"
	"github.com/samber/lo"
)

// CalendarPageSize is the page size for the season calendar. A season has
// far fewer races, so the calendar is a single page in practice.
const CalendarPageSize = 1000

// PageFetcher retrieves all pages of a resource. *pagination.Fetcher implements it.
type PageFetcher interface {
	FetchAll(ctx context.Context, path string, pageSize int) ([]ergast.Page, error)
}

type round struct {
	id string
	n  int
}

// RoundsForSeason returns the distinct rounds of a season's calendar sorted
// by integer value, so "10" follows "9". Fetch errors are returned unchanged.
func RoundsForSeason(ctx context.Context, fetcher PageFetcher, season string) ([]string, error) {
	pages, err := fetcher.FetchAll(ctx, "/"+season+"/", CalendarPageSize)
	if err != nil {
		return nil, err
	}

	var rounds []round
	for i, page := range pages {
		races, err := page.RequireList("MRData", "RaceTable", "Races")
		if err != nil {
			return nil, fmt.Errorf("calendar %s page %d: %w", season, i, err)
		}
		for _, race := range races {
			id := strings.TrimSpace(race.Get("round").String())
			n, err := strconv.Atoi(id)
			if err != nil {
				return nil, fmt.Errorf("calendar %s page %d: round %q is not an integer", season, i, race.Get("round").String())
			}
			rounds = append(rounds, round{id: id, n: n})
		}
	}

	rounds = lo.UniqBy(rounds, func(r round) int { return r.n })
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].n < rounds[j].n })

	return lo.Map(rounds, func(r round, _ int) string { return r.id }), nil
}

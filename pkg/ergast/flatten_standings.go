package ergast

import (
	"strings"

	"github.com/samber/lo"
)

func init() {
	register("driverStandings", []string{
		"season", "round", "position", "positionText", "points", "wins",
		"driverId", "constructors",
	}, flattenDriverStandings)

	register("constructorStandings", []string{
		"season", "round", "position", "positionText", "points", "wins",
		"constructorId",
	}, flattenConstructorStandings)
}

// standingsLists returns the StandingsLists of a page. Each list carries the
// season and round every entry in it belongs to.
func standingsLists(p Page) ([]Node, error) {
	table, err := p.Require("MRData", "StandingsTable")
	if err != nil {
		return nil, err
	}
	return table.Get("StandingsLists").List(), nil
}

func standingRow(list, entry Node) Row {
	return Row{
		"season":       list.Get("season").Value(),
		"round":        list.Get("round").Value(),
		"position":     entry.Get("position").Value(),
		"positionText": entry.Get("positionText").Value(),
		"points":       entry.Get("points").Value(),
		"wins":         entry.Get("wins").Value(),
	}
}

// constructorIDs joins the non-empty constructor ids of a driver standing.
func constructorIDs(entry Node) string {
	ids := lo.FilterMap(entry.Get("Constructors").List(), func(c Node, _ int) (string, bool) {
		id := c.Get("constructorId").String()
		return id, id != ""
	})
	return strings.Join(ids, ",")
}

func flattenDriverStandings(p Page) ([]Row, error) {
	lists, err := standingsLists(p)
	if err != nil {
		return nil, err
	}

	rows := []Row{}
	for _, sl := range lists {
		for _, d := range sl.Get("DriverStandings").List() {
			row := standingRow(sl, d)
			row["driverId"] = d.Path("Driver", "driverId").Value()
			row["constructors"] = constructorIDs(d)
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func flattenConstructorStandings(p Page) ([]Row, error) {
	lists, err := standingsLists(p)
	if err != nil {
		return nil, err
	}

	rows := []Row{}
	for _, sl := range lists {
		for _, c := range sl.Get("ConstructorStandings").List() {
			row := standingRow(sl, c)
			row["constructorId"] = c.Path("Constructor", "constructorId").Value()
			rows = append(rows, row)
		}
	}
	return rows, nil
}

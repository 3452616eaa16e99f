package ergast

func init() {
	register("races", []string{
		"season", "round", "raceName", "date", "time", "url",
		"circuitId", "circuitName", "locality", "country",
	}, flattenRaces)

	register("qualifying", []string{
		"season", "round", "raceName", "driverId", "constructorId",
		"number", "position", "Q1", "Q2", "Q3",
	}, flattenQualifying)

	register("results", append(append([]string{}, resultColumns...),
		"fastestLapRank", "fastestLapTime", "fastestLapSpeed",
	), flattenResults)

	register("sprint", resultColumns, flattenSprint)

	register("laps", []string{
		"season", "round", "raceName", "lap", "driverId", "position", "time",
	}, flattenLaps)

	register("pitstops", []string{
		"season", "round", "raceName", "driverId", "stop", "lap",
		"time", "duration", "milliseconds",
	}, flattenPitStops)
}

// resultColumns are shared by race results and sprint results.
var resultColumns = []string{
	"season", "round", "raceName", "driverId", "constructorId", "grid",
	"position", "positionText", "points", "status", "laps", "time", "milliseconds",
}

func races(p Page) ([]Node, error) {
	return p.RequireList("MRData", "RaceTable", "Races")
}

// raceRow starts a row with the race context columns.
func raceRow(race Node) Row {
	return Row{
		"season":   race.Get("season").Value(),
		"round":    race.Get("round").Value(),
		"raceName": race.Get("raceName").Value(),
	}
}

func flattenRaces(p Page) ([]Row, error) {
	list, err := races(p)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(list))
	for _, r := range list {
		c := r.Get("Circuit")
		row := raceRow(r)
		row["date"] = r.Get("date").Value()
		row["time"] = r.Get("time").Value()
		row["url"] = r.Get("url").Value()
		row["circuitId"] = c.Get("circuitId").Value()
		row["circuitName"] = c.Get("circuitName").Value()
		row["locality"] = c.Path("Location", "locality").Value()
		row["country"] = c.Path("Location", "country").Value()
		rows = append(rows, row)
	}
	return rows, nil
}

func flattenQualifying(p Page) ([]Row, error) {
	list, err := races(p)
	if err != nil {
		return nil, err
	}

	rows := []Row{}
	for _, race := range list {
		for _, q := range race.Get("QualifyingResults").List() {
			row := raceRow(race)
			row["driverId"] = q.Path("Driver", "driverId").Value()
			row["constructorId"] = q.Path("Constructor", "constructorId").Value()
			row["number"] = q.Get("number").Value()
			row["position"] = q.Get("position").Value()
			row["Q1"] = q.Get("Q1").Value()
			row["Q2"] = q.Get("Q2").Value()
			row["Q3"] = q.Get("Q3").Value()
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// resultRow projects the columns shared by race and sprint results.
func resultRow(race, res Node) Row {
	row := raceRow(race)
	row["driverId"] = res.Path("Driver", "driverId").Value()
	row["constructorId"] = res.Path("Constructor", "constructorId").Value()
	row["grid"] = res.Get("grid").Value()
	row["position"] = res.Get("position").Value()
	row["positionText"] = res.Get("positionText").Value()
	row["points"] = res.Get("points").Value()
	row["status"] = res.Get("status").Value()
	row["laps"] = res.Get("laps").Value()
	row["time"] = res.Path("Time", "time").Value()
	row["milliseconds"] = res.Path("Time", "millis").Value()
	return row
}

func flattenResults(p Page) ([]Row, error) {
	list, err := races(p)
	if err != nil {
		return nil, err
	}

	rows := []Row{}
	for _, race := range list {
		for _, res := range race.Get("Results").List() {
			row := resultRow(race, res)
			fl := res.Get("FastestLap")
			row["fastestLapRank"] = fl.Get("rank").Value()
			row["fastestLapTime"] = fl.Path("Time", "time").Value()
			row["fastestLapSpeed"] = fl.Path("AverageSpeed", "speed").Value()
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func flattenSprint(p Page) ([]Row, error) {
	list, err := races(p)
	if err != nil {
		return nil, err
	}

	rows := []Row{}
	for _, race := range list {
		for _, res := range race.Get("SprintResults").List() {
			rows = append(rows, resultRow(race, res))
		}
	}
	return rows, nil
}

// flattenLaps emits one row per race, lap and timing entry.
func flattenLaps(p Page) ([]Row, error) {
	list, err := races(p)
	if err != nil {
		return nil, err
	}

	rows := []Row{}
	for _, race := range list {
		for _, lap := range race.Get("Laps").List() {
			number := lap.Get("number").Value()
			for _, t := range lap.Get("Timings").List() {
				row := raceRow(race)
				row["lap"] = number
				row["driverId"] = t.Get("driverId").Value()
				row["position"] = t.Get("position").Value()
				row["time"] = t.Get("time").Value()
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}

func flattenPitStops(p Page) ([]Row, error) {
	list, err := races(p)
	if err != nil {
		return nil, err
	}

	rows := []Row{}
	for _, race := range list {
		for _, s := range race.Get("PitStops").List() {
			row := raceRow(race)
			row["driverId"] = s.Get("driverId").Value()
			row["stop"] = s.Get("stop").Value()
			row["lap"] = s.Get("lap").Value()
			row["time"] = s.Get("time").Value()
			row["duration"] = s.Get("duration").Value()
			row["milliseconds"] = s.Get("milliseconds").Value()
			rows = append(rows, row)
		}
	}
	return rows, nil
}

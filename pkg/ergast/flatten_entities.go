package ergast

func init() {
	register("circuits", []string{
		"circuitId", "circuitName", "url", "lat", "long", "locality", "country",
	}, flattenCircuits)

	register("constructors", []string{
		"constructorId", "name", "nationality", "url",
	}, flattenConstructors)

	register("drivers", []string{
		"driverId", "permanentNumber", "code", "givenName", "familyName",
		"dateOfBirth", "nationality", "url",
	}, flattenDrivers)

	register("seasons", []string{"season", "url"}, flattenSeasons)

	register("status", []string{"statusId", "status"}, flattenStatus)
}

func flattenCircuits(p Page) ([]Row, error) {
	circuits, err := p.RequireList("MRData", "CircuitTable", "Circuits")
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(circuits))
	for _, c := range circuits {
		loc := c.Get("Location")
		rows = append(rows, Row{
			"circuitId":   c.Get("circuitId").Value(),
			"circuitName": c.Get("circuitName").Value(),
			"url":         c.Get("url").Value(),
			"lat":         loc.Get("lat").Value(),
			"long":        loc.Get("long").Value(),
			"locality":    loc.Get("locality").Value(),
			"country":     loc.Get("country").Value(),
		})
	}
	return rows, nil
}

func flattenConstructors(p Page) ([]Row, error) {
	constructors, err := p.RequireList("MRData", "ConstructorTable", "Constructors")
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(constructors))
	for _, c := range constructors {
		rows = append(rows, Row{
			"constructorId": c.Get("constructorId").Value(),
			"name":          c.Get("name").Value(),
			"nationality":   c.Get("nationality").Value(),
			"url":           c.Get("url").Value(),
		})
	}
	return rows, nil
}

func flattenDrivers(p Page) ([]Row, error) {
	drivers, err := p.RequireList("MRData", "DriverTable", "Drivers")
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(drivers))
	for _, d := range drivers {
		rows = append(rows, Row{
			"driverId":        d.Get("driverId").Value(),
			"permanentNumber": d.Get("permanentNumber").Value(),
			"code":            d.Get("code").Value(),
			"givenName":       d.Get("givenName").Value(),
			"familyName":      d.Get("familyName").Value(),
			"dateOfBirth":     d.Get("dateOfBirth").Value(),
			"nationality":     d.Get("nationality").Value(),
			"url":             d.Get("url").Value(),
		})
	}
	return rows, nil
}

func flattenSeasons(p Page) ([]Row, error) {
	seasons, err := p.RequireList("MRData", "SeasonTable", "Seasons")
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(seasons))
	for _, s := range seasons {
		rows = append(rows, Row{
			"season": s.Get("season").Value(),
			"url":    s.Get("url").Value(),
		})
	}
	return rows, nil
}

func flattenStatus(p Page) ([]Row, error) {
	statuses, err := p.RequireList("MRData", "StatusTable", "Status")
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, Row{
			"statusId": s.Get("statusId").Value(),
			"status":   s.Get("status").Value(),
		})
	}
	return rows, nil
}

package planner

// BuildNodes converts selector rows into route nodes (spec §4.4).
// mileage = fraction * totalMiles; price is cast from the selector's
// decimal column to float64 — lossy and deliberate, since exact
// arithmetic is reintroduced at aggregation time in package optimizer.
// Selector order (non-decreasing fraction) is preserved.
func BuildNodes(rows []SelectorRow, totalMiles float64) []RouteNode {
	nodes := make([]RouteNode, 0, len(rows))
	for _, row := range rows {
		nodes = append(nodes, RouteNode{
			Mileage:   row.Fraction * totalMiles,
			Price:     row.RetailPrice,
			Lat:       row.Location.Lat,
			Lon:       row.Location.Lon,
			Name:      row.Name,
			Address:   row.Address,
			StationID: row.StationID,
		})
	}
	return nodes
}

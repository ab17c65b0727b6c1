// Package planner holds the pure, request-scoped route-planning types
// and the CPU-only stages of the pipeline: building route nodes from
// selector rows and collapsing them into a pre-filtered candidate list
// (spec §4.4, §4.5). The DAG solve itself lives in package optimizer.
package planner

// Coord is a WGS84 geographic point in degrees.
type Coord struct {
	Lat float64
	Lon float64
}

// RouteGeometry is a polyline and its total length, as returned by the router.
type RouteGeometry struct {
	Polyline   []Coord
	TotalMiles float64
}

// SelectorRow is one row returned by the station selector: a station row
// annotated with its fractional position along the route polyline.
type SelectorRow struct {
	StationID   int
	Name        string
	Address     string
	RetailPrice float64
	Location    Coord
	Fraction    float64
}

// RouteNode is a request-scoped node fed to the optimizer. The two
// synthetic nodes (Start, Finish) carry Price 0 and StationID 0; real
// stations carry their OPIS id and identity fields.
type RouteNode struct {
	Mileage   float64
	Price     float64
	Lat       float64
	Lon       float64
	Name      string
	Address   string
	StationID int
}

// Stop is one refuel event emitted by the optimizer, carrying the
// gallons purchased and the cost at that stop's price.
type Stop struct {
	Mileage float64
	Lat     float64
	Lon     float64
	Name    string
	Address string
	Price   float64
	Gallons float64
	Cost    float64
}

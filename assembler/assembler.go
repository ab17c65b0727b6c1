// Package assembler builds the final PlanResult response: the route as
// a GeoJSON Feature, the chosen stops, and aggregate totals (spec §4.7).
package assembler

import (
	"github.com/paulmach/go.geojson"
	"github.com/shopspring/decimal"

	"fuelroute/planner"
)

// PlanResult is the assembled response (spec §3).
type PlanResult struct {
	RouteGeoJSON  *geojson.Feature `json:"route_geojson"`
	Stops         []planner.Stop   `json:"stops"`
	TotalFuelCost decimal.Decimal  `json:"total_fuel_cost"`
	TotalGallons  decimal.Decimal  `json:"total_gallons"`
	TotalMiles    float64          `json:"total_miles"`
	MPGUsed       int              `json:"mpg_used"`
}

// Assemble builds the route GeoJSON Feature and aggregates it with the
// optimizer's chosen stops and totals (spec §4.7).
func Assemble(geometry planner.RouteGeometry, stops []planner.Stop, totalFuelCost, totalGallons decimal.Decimal, mpgUsed int) *PlanResult {
	coords := make([][]float64, 0, len(geometry.Polyline))
	for _, c := range geometry.Polyline {
		coords = append(coords, []float64{c.Lon, c.Lat})
	}

	feature := geojson.NewLineStringFeature(coords)
	feature.Properties = map[string]interface{}{}

	if stops == nil {
		stops = []planner.Stop{}
	}

	return &PlanResult{
		RouteGeoJSON:  feature,
		Stops:         stops,
		TotalFuelCost: totalFuelCost,
		TotalGallons:  totalGallons,
		TotalMiles:    geometry.TotalMiles,
		MPGUsed:       mpgUsed,
	}
}

// Package optimizer solves the minimum fuel-cost refuel problem over a
// mileage-ordered node sequence as an O(V+E) dynamic-programming
// shortest path over the DAG induced by the vehicle's range (spec §4.6).
package optimizer

import (
	"math"

	"github.com/shopspring/decimal"

	"fuelroute/apperr"
	"fuelroute/planner"
)

// Result is the optimizer's output: the chosen stops in mileage order
// plus totals computed in exact decimal arithmetic (spec §4.6, §9).
type Result struct {
	Stops         []planner.Stop
	TotalFuelCost decimal.Decimal
	TotalGallons  decimal.Decimal
}

// Optimize runs the DP described in spec §4.6 over nodes, which must
// already be the full sequence [Start, prefiltered..., Finish] sorted
// strictly by mileage (see planner.BuildSequence). It returns
// apperr.Infeasible if no Start->Finish path exists under
// planner.VehicleRangeMiles.
func Optimize(nodes []planner.RouteNode) (*Result, error) {
	n := len(nodes)
	if n < 2 {
		return nil, apperr.Internal(nil, "optimize: node sequence must contain at least Start and Finish")
	}

	minCost := make([]float64, n)
	parent := make([]int, n)
	for i := range minCost {
		minCost[i] = math.Inf(1)
		parent[i] = -1
	}
	minCost[0] = 0

	for i := 0; i < n; i++ {
		if math.IsInf(minCost[i], 1) {
			continue
		}
		for j := i + 1; j < n; j++ {
			delta := nodes[j].Mileage - nodes[i].Mileage
			if delta > planner.VehicleRangeMiles {
				break // remaining j are strictly farther (nodes sorted by mileage)
			}

			gallons := delta / planner.VehicleMPG
			cost := gallons * nodes[i].Price

			candidate := minCost[i] + cost
			if candidate < minCost[j] {
				minCost[j] = candidate
				parent[j] = i
			}
		}
	}

	last := n - 1
	if math.IsInf(minCost[last], 1) {
		return nil, apperr.Infeasible("no feasible refuel path within %d-mile range", int(planner.VehicleRangeMiles))
	}

	path := reconstructPath(parent, last)

	stops := make([]planner.Stop, 0, len(path)-1)
	totalGallons := decimal.Zero
	totalCost := decimal.Zero

	for k := 0; k < len(path)-1; k++ {
		i, j := path[k], path[k+1]
		from, to := nodes[i], nodes[j]

		gallons := (to.Mileage - from.Mileage) / planner.VehicleMPG
		cost := gallons * from.Price

		gallonsDec := decimal.NewFromFloat(gallons).Round(6)
		costDec := decimal.NewFromFloat(cost).Round(6)

		// The Start->first_real_stop leg still burns fuel and must count
		// toward the totals (spec §3); it just produces no emitted Stop,
		// since Start isn't a refuel event (spec §4.6).
		if i != 0 {
			stops = append(stops, planner.Stop{
				Mileage: from.Mileage,
				Lat:     from.Lat,
				Lon:     from.Lon,
				Name:    from.Name,
				Address: from.Address,
				Price:   from.Price,
				Gallons: gallons,
				Cost:    cost,
			})
		}

		totalGallons = totalGallons.Add(gallonsDec)
		totalCost = totalCost.Add(costDec)
	}

	return &Result{
		Stops:         stops,
		TotalFuelCost: totalCost.Round(3),
		TotalGallons:  totalGallons.Round(3),
	}, nil
}

// reconstructPath walks parent[] backwards from last to index 0 and
// reverses it, yielding the ordered path [Start, s1, s2, ..., Finish].
func reconstructPath(parent []int, last int) []int {
	rev := []int{last}
	for cur := last; parent[cur] != -1; {
		cur = parent[cur]
		rev = append(rev, cur)
	}

	path := make([]int, len(rev))
	for i, v := range rev {
		path[len(rev)-1-i] = v
	}
	return path
}

package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelroute/apperr"
	"fuelroute/planner"
)

func seq(totalMiles float64, nodes ...planner.RouteNode) []planner.RouteNode {
	return planner.BuildSequence(nodes, totalMiles)
}

func TestOptimizeTrivialInRangeNoStations(t *testing.T) {
	result, err := Optimize(seq(300))

	require.NoError(t, err)
	assert.Empty(t, result.Stops)
	assert.True(t, result.TotalFuelCost.IsZero())
	assert.Equal(t, "30", result.TotalGallons.String())
}

func TestOptimizeSingleOptimalStop(t *testing.T) {
	result, err := Optimize(seq(800, planner.RouteNode{Mileage: 400, Price: 3.00}))

	require.NoError(t, err)
	require.Len(t, result.Stops, 1)
	assert.Equal(t, 400.0, result.Stops[0].Mileage)
	assert.Equal(t, 40.0, result.Stops[0].Gallons)
	assert.Equal(t, "120", result.TotalFuelCost.String())
}

func TestOptimizeGreedyTrap(t *testing.T) {
	result, err := Optimize(seq(900,
		planner.RouteNode{Mileage: 100, Price: 4.00},
		planner.RouteNode{Mileage: 450, Price: 2.00},
		planner.RouteNode{Mileage: 800, Price: 3.00},
	))

	// Start->450 rides the free departure tank; 450->Finish (450 miles) is
	// within range, so the $2.00 station alone fuels the rest of the trip.
	require.NoError(t, err)
	require.Len(t, result.Stops, 1)
	assert.Equal(t, 450.0, result.Stops[0].Mileage)
	assert.Equal(t, 45.0, result.Stops[0].Gallons)
	assert.Equal(t, 90.0, result.Stops[0].Cost)
	assert.Equal(t, "90", result.TotalGallons.String())
	assert.Equal(t, "90", result.TotalFuelCost.String())
}

func TestOptimizeInfeasibleGap(t *testing.T) {
	_, err := Optimize(seq(1100,
		planner.RouteNode{Mileage: 200, Price: 3.0},
		planner.RouteNode{Mileage: 900, Price: 3.0},
	))

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInfeasible))
}

func TestOptimizeExactlyAtRangeEdgeIsFeasible(t *testing.T) {
	// Start(0) -> Finish(500) directly: delta exactly 500, edge present.
	result, err := Optimize(seq(500))
	require.NoError(t, err)
	assert.Empty(t, result.Stops)
}

func TestOptimizeJustOverRangeIsInfeasibleWhenOnlyConnection(t *testing.T) {
	_, err := Optimize(seq(500.0001))

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInfeasible))
}

func TestOptimizeDeterministic(t *testing.T) {
	nodes := seq(900,
		planner.RouteNode{Mileage: 100, Price: 4.00},
		planner.RouteNode{Mileage: 450, Price: 2.00},
		planner.RouteNode{Mileage: 800, Price: 3.00},
	)

	first, err := Optimize(nodes)
	require.NoError(t, err)
	second, err := Optimize(nodes)
	require.NoError(t, err)

	assert.Equal(t, first.Stops, second.Stops)
	assert.True(t, first.TotalFuelCost.Equal(second.TotalFuelCost))
}

func TestOptimizeStationAtMileageZero(t *testing.T) {
	result, err := Optimize(seq(400, planner.RouteNode{Mileage: 0, Price: 3.0}))

	require.NoError(t, err)
	// A station at mileage 0 collides with Start; DP still terminates without crash.
	assert.NotNil(t, result)
}

func TestOptimizeTotalGallonsCoversFullDistance(t *testing.T) {
	totalMiles := 900.0
	result, err := Optimize(seq(totalMiles,
		planner.RouteNode{Mileage: 100, Price: 4.00},
		planner.RouteNode{Mileage: 450, Price: 2.00},
		planner.RouteNode{Mileage: 800, Price: 3.00},
	))
	require.NoError(t, err)

	coveredByStops := 0.0
	for _, s := range result.Stops {
		coveredByStops += s.Gallons * planner.VehicleMPG
	}
	// Start->first_real_stop leg (0->450) is covered by the departure tank,
	// not an emitted stop; remaining stops cover the rest of the distance.
	assert.InDelta(t, totalMiles-450, coveredByStops, 1e-9)
}

func TestOptimizeStopsOrderedByMileageAscendingAndBelowTotal(t *testing.T) {
	totalMiles := 900.0
	result, err := Optimize(seq(totalMiles,
		planner.RouteNode{Mileage: 100, Price: 4.00},
		planner.RouteNode{Mileage: 450, Price: 2.00},
		planner.RouteNode{Mileage: 800, Price: 3.00},
	))
	require.NoError(t, err)

	for i, s := range result.Stops {
		assert.Less(t, s.Mileage, totalMiles)
		if i > 0 {
			assert.Greater(t, s.Mileage, result.Stops[i-1].Mileage)
		}
	}
}

func TestOptimizeNoConsecutivePairExceedsRange(t *testing.T) {
	totalMiles := 900.0
	result, err := Optimize(seq(totalMiles,
		planner.RouteNode{Mileage: 100, Price: 4.00},
		planner.RouteNode{Mileage: 450, Price: 2.00},
		planner.RouteNode{Mileage: 800, Price: 3.00},
	))
	require.NoError(t, err)

	mileages := []float64{0}
	for _, s := range result.Stops {
		mileages = append(mileages, s.Mileage)
	}
	mileages = append(mileages, totalMiles)

	for i := 1; i < len(mileages); i++ {
		assert.LessOrEqual(t, mileages[i]-mileages[i-1], planner.VehicleRangeMiles)
	}
}

// Package orchestrator runs the full planning pipeline in the strict
// stage order required by spec §5: geocode -> route -> select -> build
// -> prefilter -> optimize -> assemble.
package orchestrator

import (
	"context"

	"fuelroute/assembler"
	"fuelroute/geocoder"
	"fuelroute/optimizer"
	"fuelroute/planner"
	"fuelroute/routeprovider"
)

// GeocoderClient resolves a query string to a coordinate; satisfied by
// *geocoder.Geocoder.
type GeocoderClient interface {
	Geocode(ctx context.Context, query string) (planner.Coord, error)
}

// RouteClient obtains a route geometry between two coordinates;
// satisfied by *routeprovider.Router.
type RouteClient interface {
	Route(ctx context.Context, start, end planner.Coord) (planner.RouteGeometry, error)
}

// StationSelector selects candidate fuel stations along a polyline;
// satisfied by *stationstore.Store.
type StationSelector interface {
	StationsOnRoute(polyline []planner.Coord) ([]planner.SelectorRow, error)
}

// Planner runs one planning request end to end. Each stage's
// suspension points are the geocoder call, the router call, and the
// spatial query (spec §5); the pre-filter and optimizer are pure CPU
// and never suspend.
type Planner struct {
	Geocoder GeocoderClient
	Router   RouteClient
	Stations StationSelector
}

// New constructs a Planner from its three upstream collaborators, all
// of which are process-wide singletons the caller constructs once.
func New(g GeocoderClient, r RouteClient, s StationSelector) *Planner {
	return &Planner{Geocoder: g, Router: r, Stations: s}
}

// Plan resolves start/end to coordinates, obtains a route, selects and
// filters fuel stations along it, solves the minimum-cost refuel
// problem, and assembles the final response.
func (p *Planner) Plan(ctx context.Context, start, end string) (*assembler.PlanResult, error) {
	startCoord, err := p.Geocoder.Geocode(ctx, start)
	if err != nil {
		return nil, err
	}

	endCoord, err := p.Geocoder.Geocode(ctx, end)
	if err != nil {
		return nil, err
	}

	geometry, err := p.Router.Route(ctx, startCoord, endCoord)
	if err != nil {
		return nil, err
	}

	selectorRows, err := p.Stations.StationsOnRoute(geometry.Polyline)
	if err != nil {
		return nil, err
	}

	nodes := planner.BuildNodes(selectorRows, geometry.TotalMiles)
	filtered := planner.Prefilter(nodes)
	sequence := planner.BuildSequence(filtered, geometry.TotalMiles)

	result, err := optimizer.Optimize(sequence)
	if err != nil {
		return nil, err
	}

	return assembler.Assemble(geometry, result.Stops, result.TotalFuelCost, result.TotalGallons, int(planner.VehicleMPG)), nil
}

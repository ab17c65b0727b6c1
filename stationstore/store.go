// Package stationstore implements the station selector: one spatial
// query returning candidate fuel stations within a buffer of the route
// polyline, each annotated with its fractional position along that
// polyline (spec §4.3).
package stationstore

import (
	"database/sql"
	"fmt"
	"strings"

	"fuelroute/apperr"
	"fuelroute/planner"
)

// Store queries the spatial store for stations on a route. It holds a
// *sql.DB connection pool, configured the way database.Initialize sets
// one up for the rest of the service.
type Store struct {
	db *sql.DB
}

// New wraps an existing *sql.DB connection pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// StationsOnRoute issues the single spatial query described in spec
// §4.3: stations within StationBufferDegrees of the polyline, via a
// dwithin-style predicate so the GiST index is used directly, each
// annotated with its ST_LineLocatePoint-equivalent fractional position.
// Results are ordered ascending by fraction. The selector never computes
// mileage — that is planner.BuildNodes's responsibility.
func (s *Store) StationsOnRoute(polyline []planner.Coord) ([]planner.SelectorRow, error) {
	if len(polyline) < 2 {
		return nil, apperr.Internal(nil, "stations on route: polyline must have at least 2 points")
	}

	routeWKT := lineStringWKT(polyline)

	query := `
		SELECT
			f.opis_id,
			f.name,
			f.address,
			f.retail_price,
			ST_X(f.location) AS longitude,
			ST_Y(f.location) AS latitude,
			ST_LineLocatePoint(ST_GeomFromText($1, 4326), f.location) AS fraction
		FROM fuel_stations f
		WHERE ST_DWithin(
			f.location,
			ST_GeomFromText($1, 4326),
			$2
		)
		ORDER BY fraction ASC
	`

	rows, err := s.db.Query(query, routeWKT, planner.StationBufferDegrees)
	if err != nil {
		return nil, apperr.Internal(err, "stations on route: query failed")
	}
	defer rows.Close()

	results := make([]planner.SelectorRow, 0)
	for rows.Next() {
		var row planner.SelectorRow
		if err := rows.Scan(&row.StationID, &row.Name, &row.Address, &row.RetailPrice,
			&row.Location.Lon, &row.Location.Lat, &row.Fraction); err != nil {
			return nil, apperr.Internal(err, "stations on route: scan failed")
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err, "stations on route: row iteration failed")
	}

	return results, nil
}

// lineStringWKT renders a polyline as a WKT LINESTRING, matching the
// coordinate-order convention (lon, lat) used by PostGIS WKT.
func lineStringWKT(points []planner.Coord) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		parts = append(parts, fmt.Sprintf("%.6f %.6f", p.Lon, p.Lat))
	}
	return "LINESTRING(" + strings.Join(parts, ",") + ")"
}

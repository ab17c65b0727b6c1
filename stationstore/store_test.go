package stationstore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"fuelroute/database"
	"fuelroute/planner"
)

// StoreTestSuite exercises StationsOnRoute against a real PostGIS
// instance, matching the teacher's SpatialTestSuite pattern. It is
// skipped when TEST_DATABASE_URL is not set, since the spatial
// predicate relies on PostGIS functions no mock can stand in for.
type StoreTestSuite struct {
	suite.Suite
	store *Store
}

func (s *StoreTestSuite) SetupSuite() {
	testDBURL := os.Getenv("TEST_DATABASE_URL")
	if testDBURL == "" {
		s.T().Skip("TEST_DATABASE_URL not set; skipping PostGIS-backed selector tests")
	}

	db, err := database.Initialize(testDBURL)
	s.Require().NoError(err)
	s.Require().NoError(database.CreateTables(db))

	s.store = New(db)
}

func (s *StoreTestSuite) SetupTest() {
	_, err := s.store.db.Exec("DELETE FROM fuel_stations")
	s.Require().NoError(err)
}

func (s *StoreTestSuite) TestStationsOnRouteOrderedByFraction() {
	_, err := s.store.db.Exec(`
		INSERT INTO fuel_stations (opis_id, name, address, city, state, retail_price, location) VALUES
		(1, 'Near Midpoint', '1 Mid St', 'Amarillo', 'TX', 3.10, ST_SetSRID(ST_MakePoint(-101.8, 35.2), 4326)),
		(2, 'Near Start', '2 Start St', 'Los Angeles', 'CA', 3.50, ST_SetSRID(ST_MakePoint(-118.2, 33.9), 4326))
	`)
	s.Require().NoError(err)

	polyline := []planner.Coord{
		{Lat: 33.94, Lon: -118.41},
		{Lat: 35.2, Lon: -101.8},
		{Lat: 40.78, Lon: -73.97},
	}

	rows, err := s.store.StationsOnRoute(polyline)
	require.NoError(s.T(), err)
	require.Len(s.T(), rows, 2)

	s.Less(rows[0].Fraction, rows[1].Fraction)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

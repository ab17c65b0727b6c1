package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelroute/apperr"
	"fuelroute/orchestrator"
	"fuelroute/planner"
)

type stubGeocoder struct {
	coords map[string]planner.Coord
}

func (s *stubGeocoder) Geocode(ctx context.Context, query string) (planner.Coord, error) {
	c, ok := s.coords[query]
	if !ok {
		return planner.Coord{}, apperr.ResolutionError("could not resolve location %q", query)
	}
	return c, nil
}

type stubRouter struct{}

func (s *stubRouter) Route(ctx context.Context, start, end planner.Coord) (planner.RouteGeometry, error) {
	return planner.RouteGeometry{
		Polyline:   []planner.Coord{start, end},
		TotalMiles: 400,
	}, nil
}

type stubStations struct{}

func (s *stubStations) StationsOnRoute(polyline []planner.Coord) ([]planner.SelectorRow, error) {
	return []planner.SelectorRow{
		{StationID: 1, Name: "Only Stop", RetailPrice: 3.0, Fraction: 0.5},
	}, nil
}

func newTestApp() *fiber.App {
	geo := &stubGeocoder{coords: map[string]planner.Coord{
		"Los Angeles, CA": {Lat: 33.94, Lon: -118.41},
		"New York, NY":    {Lat: 40.78, Lon: -73.97},
	}}
	p := orchestrator.New(geo, &stubRouter{}, &stubStations{})
	h := NewRouteHandler(p)

	app := fiber.New()
	app.Get("/api/route/", h.PlanRoute)
	app.Post("/api/route/", h.PlanRoute)
	return app
}

func TestPlanRouteGetSuccess(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/route/?start=Los+Angeles%2C+CA&end=New+York%2C+NY", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, 400.0, decoded["total_miles"])
}

func TestPlanRoutePostSuccess(t *testing.T) {
	app := newTestApp()

	payload, _ := json.Marshal(map[string]string{"start": "Los Angeles, CA", "end": "New York, NY"})
	req := httptest.NewRequest(http.MethodPost, "/api/route/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPlanRouteMissingFieldsReturns400(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/route/?start=Los+Angeles%2C+CA", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Contains(t, decoded["detail"], "required")
}

func TestPlanRouteUnresolvableLocationReturns400(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/route/?start=Nowhere&end=New+York%2C+NY", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Contains(t, decoded["detail"], "Nowhere")
}

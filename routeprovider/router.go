// Package routeprovider obtains a polyline and total distance between
// two coordinates from an external routing provider, with an
// in-process fingerprint cache (spec §4.2).
package routeprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/paulmach/go.geojson"
	"golang.org/x/sync/singleflight"

	"fuelroute/apperr"
	"fuelroute/planner"
)

// Router calls the external routing provider and caches results by
// rounded-coordinate fingerprint. It is safe for concurrent use and is
// meant to be constructed once per process (spec §4.2, §5).
type Router struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cache   *routeCache
	group   singleflight.Group

	metricsMu sync.Mutex
	hits      int64
	misses    int64
}

// NewRouter constructs a process-wide Router singleton. client should be
// a shared *http.Client with keep-alive connection reuse; callers
// typically pass the result of NewHTTPClient.
func NewRouter(baseURL, apiKey string, client *http.Client, cacheTTL time.Duration) *Router {
	return &Router{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
		cache:   newRouteCache(cacheTTL),
	}
}

// NewHTTPClient builds the process-wide singleton HTTP client used for
// outbound router calls: keep-alive transport, hard request timeout
// (spec §4.2, §5).
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

type orsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

// Route obtains a RouteGeometry between start and end, served from
// cache when the fingerprint is present and unexpired (spec §4.2).
// Stage order within a request is strict: a cache hit returns with no
// network call.
func (r *Router) Route(ctx context.Context, start, end planner.Coord) (planner.RouteGeometry, error) {
	key := fingerprint(start, end)

	if geometry, ok := r.cache.get(key); ok {
		r.recordHit()
		return geometry, nil
	}
	r.recordMiss()

	result, err, _ := r.group.Do(key, func() (interface{}, error) {
		if geometry, ok := r.cache.get(key); ok {
			return geometry, nil
		}
		geometry, err := r.fetch(ctx, start, end)
		if err != nil {
			return planner.RouteGeometry{}, err
		}
		r.cache.set(key, geometry)
		return geometry, nil
	})
	if err != nil {
		return planner.RouteGeometry{}, err
	}

	return result.(planner.RouteGeometry), nil
}

// fetch performs the actual upstream call. The routing provider consumes
// (lon, lat) order, the opposite of our Coord field order — this is a
// documented interface contract, not a bug (spec §9).
func (r *Router) fetch(ctx context.Context, start, end planner.Coord) (planner.RouteGeometry, error) {
	body, err := json.Marshal(orsRequest{
		Coordinates: [][2]float64{
			{start.Lon, start.Lat},
			{end.Lon, end.Lat},
		},
	})
	if err != nil {
		return planner.RouteGeometry{}, apperr.Internal(err, "route: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, bytes.NewReader(body))
	if err != nil {
		return planner.RouteGeometry{}, apperr.Internal(err, "route: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return planner.RouteGeometry{}, apperr.UpstreamError(err, "route: request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return planner.RouteGeometry{}, apperr.UpstreamError(err, "route: read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return planner.RouteGeometry{}, apperr.UpstreamError(nil, "route: upstream returned status %d", resp.StatusCode)
	}

	return parseFeatureCollection(raw)
}

func parseFeatureCollection(raw []byte) (planner.RouteGeometry, error) {
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return planner.RouteGeometry{}, apperr.UpstreamError(err, "route: malformed response")
	}

	if len(fc.Features) == 0 || fc.Features[0].Geometry == nil || !fc.Features[0].Geometry.IsLineString() {
		return planner.RouteGeometry{}, apperr.UpstreamError(nil, "route: response missing LineString geometry")
	}

	line := fc.Features[0].Geometry.LineString
	if len(line) < 2 {
		return planner.RouteGeometry{}, apperr.UpstreamError(nil, "route: polyline has fewer than 2 points")
	}

	polyline := make([]planner.Coord, 0, len(line))
	for _, pt := range line {
		if len(pt) < 2 {
			continue
		}
		polyline = append(polyline, planner.Coord{Lon: pt[0], Lat: pt[1]})
	}

	distanceMeters, err := extractSummaryDistance(fc.Features[0].Properties)
	if err != nil {
		return planner.RouteGeometry{}, err
	}

	return planner.RouteGeometry{
		Polyline:   polyline,
		TotalMiles: distanceMeters * planner.MetersToMiles,
	}, nil
}

func extractSummaryDistance(properties map[string]interface{}) (float64, error) {
	summary, ok := properties["summary"].(map[string]interface{})
	if !ok {
		return 0, apperr.UpstreamError(nil, "route: response missing summary")
	}
	distance, ok := summary["distance"].(float64)
	if !ok {
		return 0, apperr.UpstreamError(nil, "route: summary.distance missing or not numeric")
	}
	if distance <= 0 {
		return 0, apperr.UpstreamError(nil, "route: non-positive distance %v", distance)
	}
	return distance, nil
}

func (r *Router) recordHit() {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	r.hits++
}

func (r *Router) recordMiss() {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	r.misses++
}

// CacheStats reports hit/miss counts for the process-wide cache,
// mirroring the teacher's PerformanceMetrics cache accounting.
func (r *Router) CacheStats() (hits, misses int64) {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()
	return r.hits, r.misses
}

// Package geocoder resolves a free-form location string to a
// coordinate, either by parsing a literal decimal pair or by calling an
// external forward-geocoding service (spec §4.1).
package geocoder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fuelroute/apperr"
	"fuelroute/planner"
)

// decimalPairPattern matches "-?ddd.ddd , -?ddd.ddd" with optional
// whitespace around the comma, optional fractional part, optional signs
// (spec §4.1 step 1).
var decimalPairPattern = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*$`)

// Geocoder resolves query strings to coordinates. It wraps a
// process-wide HTTP client singleton with a reusable connection pool
// (spec §4.1).
type Geocoder struct {
	baseURL   string
	userAgent string
	contact   string
	client    *http.Client
}

// New constructs a Geocoder. client should be a shared *http.Client with
// keep-alive transport; see NewHTTPClient.
func New(baseURL, userAgent, contact string, client *http.Client) *Geocoder {
	return &Geocoder{
		baseURL:   baseURL,
		userAgent: userAgent,
		contact:   contact,
		client:    client,
	}
}

// NewHTTPClient builds the process-wide singleton HTTP client used for
// outbound geocoder calls, with a reusable keep-alive connection pool to
// amortise TLS setup (spec §4.1).
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// Geocode resolves query to a Coord (spec §4.1):
//  1. if query parses as an in-bounds decimal pair, return it without
//     calling the upstream provider.
//  2. otherwise call the external forward-geocoder.
//  3. otherwise fail with apperr.ResolutionError.
//
// Transport errors and timeouts from the upstream provider are
// swallowed and treated as "no result", per spec policy.
func (g *Geocoder) Geocode(ctx context.Context, query string) (planner.Coord, error) {
	if coord, ok, err := parseDecimalPair(query); ok {
		if err != nil {
			return planner.Coord{}, err
		}
		return coord, nil
	}

	coord, found := g.lookupUpstream(ctx, query)
	if !found {
		return planner.Coord{}, apperr.ResolutionError("could not resolve location %q", query)
	}
	return coord, nil
}

// parseDecimalPair attempts the fast path. ok reports whether query
// matched the literal pattern at all; when ok is true and err is
// non-nil, the pair matched but failed bounds validation.
func parseDecimalPair(query string) (planner.Coord, bool, error) {
	m := decimalPairPattern.FindStringSubmatch(query)
	if m == nil {
		return planner.Coord{}, false, nil
	}

	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return planner.Coord{}, true, apperr.InputInvalid("malformed latitude in %q", query)
	}
	lon, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return planner.Coord{}, true, apperr.InputInvalid("malformed longitude in %q", query)
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return planner.Coord{}, true, apperr.InputInvalid("coordinate out of bounds in %q", query)
	}

	return planner.Coord{Lat: lat, Lon: lon}, true, nil
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// lookupUpstream calls the external forward-geocoder. Any transport
// failure, non-2xx response, malformed body, or empty result is
// reported as found=false: the caller converts that to
// apperr.ResolutionError (spec §4.1 policy: upstream failures are
// locally recovered here, never surfaced as UpstreamError).
func (g *Geocoder) lookupUpstream(ctx context.Context, query string) (planner.Coord, bool) {
	u, err := url.Parse(g.baseURL)
	if err != nil {
		return planner.Coord{}, false
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return planner.Coord{}, false
	}
	req.Header.Set("User-Agent", g.userAgent)
	if g.contact != "" {
		req.Header.Set("From", g.contact)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return planner.Coord{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return planner.Coord{}, false
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return planner.Coord{}, false
	}
	if len(results) == 0 {
		return planner.Coord{}, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(results[0].Lat), 64)
	if err != nil {
		return planner.Coord{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(results[0].Lon), 64)
	if err != nil {
		return planner.Coord{}, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return planner.Coord{}, false
	}

	return planner.Coord{Lat: lat, Lon: lon}, true
}

package routeprovider

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"fuelroute/planner"
)

// fingerprint computes the cache key for a start/end coordinate pair
// (spec §4.2): an MD5 hash of "lon1,lat1|lon2,lat2" with each
// coordinate rounded to exactly 6 decimal places. Two requests whose
// coordinates differ below that resolution collide by design (spec §9
// open question) — no attempt is made to widen it.
func fingerprint(start, end planner.Coord) string {
	key := fmt.Sprintf("%.6f,%.6f|%.6f,%.6f", start.Lon, start.Lat, end.Lon, end.Lat)
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// cacheEntry pairs a cached geometry with its expiry time.
type cacheEntry struct {
	geometry planner.RouteGeometry
	expires  time.Time
}

// routeCache is a process-local fingerprint -> RouteGeometry cache with
// TTL expiry (spec §4.2). Read-through with single-writer-per-fingerprint
// semantics: concurrent misses on the same fingerprint are tolerated as
// duplicate upstream calls, last writer wins (spec §5). The singleflight
// group in router.go additionally collapses those duplicate calls as a
// strict improvement, not a requirement.
type routeCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

func newRouteCache(ttl time.Duration) *routeCache {
	return &routeCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

func (c *routeCache) get(key string) (planner.RouteGeometry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expires) {
		return planner.RouteGeometry{}, false
	}
	return entry.geometry, true
}

func (c *routeCache) set(key string, geometry planner.RouteGeometry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		geometry: geometry,
		expires:  time.Now().Add(c.ttl),
	}
}

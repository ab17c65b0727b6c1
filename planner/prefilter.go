package planner

import (
	"math"
	"sort"
)

// Prefilter collapses nodes into fixed-width mileage buckets, retaining
// the cheapest station per bucket (spec §4.5). Ties are broken by lower
// mileage, which — given BuildNodes preserves selector order — means the
// first node encountered in a tie wins. Output is sorted by bucket id,
// strictly increasing.
func Prefilter(nodes []RouteNode) []RouteNode {
	type bucketEntry struct {
		id   int
		node RouteNode
	}

	best := make(map[int]bucketEntry)
	order := make([]int, 0)

	for _, node := range nodes {
		id := int(math.Floor(node.Mileage / PrefilterSegmentMiles))

		entry, exists := best[id]
		if !exists {
			best[id] = bucketEntry{id: id, node: node}
			order = append(order, id)
			continue
		}

		if node.Price < entry.node.Price {
			best[id] = bucketEntry{id: id, node: node}
		}
	}

	// order holds first-seen bucket ids, not necessarily increasing;
	// sort so the result is strictly increasing by bucket (== by mileage).
	sort.Ints(order)

	out := make([]RouteNode, 0, len(order))
	for _, id := range order {
		out = append(out, best[id].node)
	}
	return out
}

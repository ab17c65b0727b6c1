package planner

// BuildSequence assembles the optimizer's input: a synthetic Start node
// at mileage 0, the pre-filtered stations in between, and a synthetic
// Finish node at totalMiles (spec §3 invariants). nodes must already be
// sorted strictly by mileage, as Prefilter's output is.
func BuildSequence(nodes []RouteNode, totalMiles float64) []RouteNode {
	seq := make([]RouteNode, 0, len(nodes)+2)
	seq = append(seq, RouteNode{Mileage: 0, Price: 0})
	seq = append(seq, nodes...)
	seq = append(seq, RouteNode{Mileage: totalMiles, Price: 0})
	return seq
}

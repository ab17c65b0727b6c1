package planner

// Constants from the authoritative table (spec §6). No runtime config
// overrides these — they are the problem's physical parameters, not
// deployment knobs.
const (
	// VehicleRangeMiles is the maximum distance the tank covers between fills.
	VehicleRangeMiles = 500.0
	// VehicleMPG is the vehicle's fuel economy in miles per gallon.
	VehicleMPG = 10.0
	// StationBufferMiles is the search buffer around the polyline.
	StationBufferMiles = 10.0
	// DegreesPerMile converts a mile buffer to a degree buffer at the equator.
	DegreesPerMile = 1.0 / 69.0
	// PrefilterSegmentMiles is the bucket width used to collapse clustered stations.
	PrefilterSegmentMiles = 50.0
	// MetersToMiles converts the router's metre distances to miles.
	MetersToMiles = 0.000621371
	// StationBufferDegrees is the pre-computed degree-space search buffer (§4.3).
	StationBufferDegrees = StationBufferMiles * DegreesPerMile
)

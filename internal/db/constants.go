package db

// SQL query fragments used across multiple functions
const (
	// sqlOlderThanClause selects rows outside a datetime window
	sqlOlderThanClause = "WHERE timestamp < datetime('now', ?)"

	sqlTimestampLayout = "2006-01-02 15:04:05"
)

// Reverse geocoding limits
const (
	// MaxGeocodeDistanceKm is the farthest a place may be from the device
	// position to be reported as its city.
	MaxGeocodeDistanceKm = 50.0

	earthRadiusKm = 6371.0
	kmPerDegree   = 111.32
)

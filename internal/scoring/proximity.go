package scoring

import "github.com/uxmariia/DOG-TRACKING-228/internal/geo"

// DefaultProximityRadiusM is how close the dog must get to a placed object
// before it counts as found. Strictly less-than comparison.
const DefaultProximityRadiusM = 5.0

// DetectNewlyFound returns the ids of placed markers within radiusM of the
// live position that are not already in foundIDs. Side-effect free: the
// caller commits results against the authoritative found set, which keeps
// detection idempotent across ticks.
func DetectNewlyFound(pos geo.Point, placed []ObjectMarker, foundIDs map[string]bool, radiusM float64) []string {
	var newly []string
	for _, obj := range placed {
		if foundIDs[obj.ID] {
			continue
		}
		if geo.Haversine(pos.Lat, pos.Lng, obj.Lat, obj.Lng) < radiusM {
			newly = append(newly, obj.ID)
		}
	}
	return newly
}

package scoring

// Marker types.
const (
	MarkerPlaced = "placed"
	MarkerFound  = "found"
)

// ObjectMarker is an object placed along the reference trail, or the record
// of the dog finding one. A found marker reuses the id of the placed marker
// it refers to; manual finds get a fresh id.
type ObjectMarker struct {
	ID        string  `json:"id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Type      string  `json:"type"`
	Timestamp int64   `json:"timestamp"`
}

// Deviation aggregates per-point distances from the dog path to the
// reference trail.
type Deviation struct {
	AverageM float64 `json:"average_deviation_m"`
	MaxM     float64 `json:"max_deviation_m"`
}

// TrackStats is the immutable summary of a finished session pair. Computed
// once at track creation, never recomputed when the trail is edited later.
type TrackStats struct {
	TrailDistanceM    float64 `json:"trail_distance_m"`
	DogDistanceM      float64 `json:"dog_distance_m"`
	DurationSec       int64   `json:"duration_sec"`
	AverageSpeedMps   float64 `json:"average_speed_mps"`
	AverageDeviationM float64 `json:"average_deviation_m"`
	MaxDeviationM     float64 `json:"max_deviation_m"`
	ObjectsFound      int     `json:"objects_found"`
	ObjectsTotal      int     `json:"objects_total"`
}

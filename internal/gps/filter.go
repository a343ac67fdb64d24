package gps

import "github.com/uxmariia/DOG-TRACKING-228/internal/geo"

// FilterConfig holds the sample acceptance thresholds.
type FilterConfig struct {
	MinAccuracyM float64 // reject fixes reporting worse accuracy than this
	MinDistanceM float64 // reject fixes closer than this to the last accepted one
}

// DefaultFilterConfig matches the field-tested thresholds: accuracy worse
// than 20m is noise, movement under 4m is drift.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{MinAccuracyM: 20, MinDistanceM: 4}
}

// ShouldAccept decides whether a new fix becomes a trail point. Rules apply
// in order: the accuracy gate first, even for the very first fix of a
// sequence; then the first fix is accepted unconditionally; then the
// minimum-displacement gate. Pure function of its arguments.
func ShouldAccept(newFix Fix, last *Fix, cfg FilterConfig) bool {
	if newFix.Accuracy != nil && *newFix.Accuracy > cfg.MinAccuracyM {
		return false
	}

	if last == nil {
		return true
	}

	dist := geo.Haversine(last.Lat, last.Lng, newFix.Lat, newFix.Lng)
	return dist >= cfg.MinDistanceM
}

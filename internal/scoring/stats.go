package scoring

import "github.com/uxmariia/DOG-TRACKING-228/internal/geo"

// ComputeStats derives the final statistics for a finished session pair.
// Pure function of its inputs. Duration and speed come from the dog path;
// objects are split into placed totals and found counts.
func ComputeStats(trail, dogPath []geo.Point, objects []ObjectMarker) TrackStats {
	dev := ScoreDeviation(trail, dogPath)

	stats := TrackStats{
		TrailDistanceM:    geo.PathLength(trail),
		DogDistanceM:      geo.PathLength(dogPath),
		AverageDeviationM: dev.AverageM,
		MaxDeviationM:     dev.MaxM,
	}

	for _, obj := range objects {
		switch obj.Type {
		case MarkerFound:
			stats.ObjectsFound++
		case MarkerPlaced:
			stats.ObjectsTotal++
		}
	}

	if len(dogPath) > 1 {
		stats.DurationSec = (dogPath[len(dogPath)-1].Timestamp - dogPath[0].Timestamp) / 1000
	}
	if stats.DurationSec > 0 {
		stats.AverageSpeedMps = stats.DogDistanceM / float64(stats.DurationSec)
	}
	return stats
}

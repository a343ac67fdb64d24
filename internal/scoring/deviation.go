package scoring

import (
	"math"

	"github.com/uxmariia/DOG-TRACKING-228/internal/geo"
)

// ScoreDeviation computes, for every dog-path point, the minimum distance to
// any reference-trail point, and aggregates into average and max. Trail
// points are densely sampled, so point-to-point nearest neighbor stands in
// for point-to-segment. Returns zeros when either sequence is empty; that is
// a defined result, not an error. Brute force O(n*m), fine at session sizes.
func ScoreDeviation(reference, dogPath []geo.Point) Deviation {
	if len(reference) == 0 || len(dogPath) == 0 {
		return Deviation{}
	}

	sum := 0.0
	maxDev := 0.0
	for _, p := range dogPath {
		minDist := math.Inf(1)
		for _, r := range reference {
			if d := geo.Distance(p, r); d < minDist {
				minDist = d
			}
		}
		sum += minDist
		if minDist > maxDev {
			maxDev = minDist
		}
	}

	return Deviation{
		AverageM: sum / float64(len(dogPath)),
		MaxM:     maxDev,
	}
}

// AccuracyPercent derives the presentation score from average deviation in
// meters. Degrades linearly, floors at zero; a perfect run scores 100.
func AccuracyPercent(averageDeviationM float64) float64 {
	return math.Max(0, 100-averageDeviationM)
}

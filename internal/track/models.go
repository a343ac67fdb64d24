package track

import (
	"time"

	"github.com/uxmariia/DOG-TRACKING-228/internal/geo"
	"github.com/uxmariia/DOG-TRACKING-228/internal/scoring"
)

// Track is a finished training session: the reference trail, the dog path,
// the object markers and the derived statistics.
type Track struct {
	ID           string                 `json:"id"`
	OwnerID      string                 `json:"owner_id"`
	DogID        string                 `json:"dog_id"`
	Date         time.Time              `json:"date"`
	TrailPoints  []geo.Point            `json:"trail_points"`
	DogPoints    []geo.Point            `json:"dog_points"`
	Objects      []scoring.ObjectMarker `json:"objects"`
	Stats        scoring.TrackStats     `json:"stats"`
	ImportedFrom string                 `json:"imported_from,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// SharedTrack is the snapshot published under a share code.
type SharedTrack struct {
	Track
	SharedBy  string `json:"shared_by"`
	SharedAt  int64  `json:"shared_at"`
	ShareCode string `json:"share_code"`
}

package live

import (
	"github.com/uxmariia/DOG-TRACKING-228/internal/geo"
	"github.com/uxmariia/DOG-TRACKING-228/internal/scoring"
)

// Session is the observer-facing record of an in-progress recording, stored
// in Redis under live:<id> and mirrored over the stream hub on every update.
type Session struct {
	ID        string                 `json:"id"`
	Mode      string                 `json:"mode"`
	Points    []geo.Point            `json:"points"`
	Objects   []scoring.ObjectMarker `json:"objects"`
	Active    bool                   `json:"active"`
	StartedAt int64                  `json:"started_at"`
	UpdatedAt int64                  `json:"updated_at"`
}

// StartRequest opens a recording session. Trail and Objects seed the
// reference data for tracking mode; Resume restores a crash snapshot before
// recording begins.
type StartRequest struct {
	Mode    string                 `json:"mode"`
	Trail   []geo.Point            `json:"trail,omitempty"`
	Objects []scoring.ObjectMarker `json:"objects,omitempty"`
	Resume  bool                   `json:"resume,omitempty"`
}

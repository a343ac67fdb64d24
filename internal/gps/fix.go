package gps

import "github.com/uxmariia/DOG-TRACKING-228/internal/geo"

// Fix is one raw sample from a positioning source. Optional fields carry nil
// when the platform did not report them.
type Fix struct {
	Lat       float64  `json:"lat"`
	Lng       float64  `json:"lng"`
	Timestamp int64    `json:"timestamp"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Altitude  *float64 `json:"altitude,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	Heading   *float64 `json:"heading,omitempty"`
}

// Point reduces the fix to the retained trail point form.
func (f Fix) Point() geo.Point {
	return geo.Point{Lat: f.Lat, Lng: f.Lng, Timestamp: f.Timestamp}
}

package track

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/uxmariia/DOG-TRACKING-228/internal/geo"
)

const gpxCreator = "DogTracker"

type gpxFile struct {
	XMLName  xml.Name    `xml:"gpx"`
	Version  string      `xml:"version,attr"`
	Creator  string      `xml:"creator,attr"`
	Metadata gpxMetadata `xml:"metadata"`
	Tracks   []gpxTrk    `xml:"trk"`
	Points   []gpxWpt    `xml:"wpt"`
}

type gpxMetadata struct {
	Name string `xml:"name"`
	Time string `xml:"time"`
}

type gpxTrk struct {
	Name    string   `xml:"name"`
	Segment gpxTrkSeg `xml:"trkseg"`
}

type gpxTrkSeg struct {
	Points []gpxTrkPt `xml:"trkpt"`
}

type gpxTrkPt struct {
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
	Time string  `xml:"time"`
}

type gpxWpt struct {
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
	Name string  `xml:"name"`
	Time string  `xml:"time"`
}

// ExportGPX renders a track as GPX 1.1: one trk for the reference trail, one
// for the dog path, and a wpt per object marker.
func ExportGPX(tr Track) ([]byte, error) {
	doc := gpxFile{
		Version: "1.1",
		Creator: gpxCreator,
		Metadata: gpxMetadata{
			Name: "Dog Track - " + tr.DogID,
			Time: tr.Date.UTC().Format(time.RFC3339),
		},
		Tracks: []gpxTrk{
			{Name: "Trail", Segment: gpxTrkSeg{Points: trkPoints(tr.TrailPoints)}},
			{Name: "Dog Path", Segment: gpxTrkSeg{Points: trkPoints(tr.DogPoints)}},
		},
	}

	for i, obj := range tr.Objects {
		doc.Points = append(doc.Points, gpxWpt{
			Lat:  obj.Lat,
			Lon:  obj.Lng,
			Name: fmt.Sprintf("Object %d (%s)", i+1, obj.Type),
			Time: epochToRFC3339(obj.Timestamp),
		})
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func trkPoints(points []geo.Point) []gpxTrkPt {
	out := make([]gpxTrkPt, 0, len(points))
	for _, p := range points {
		out = append(out, gpxTrkPt{Lat: p.Lat, Lon: p.Lng, Time: epochToRFC3339(p.Timestamp)})
	}
	return out
}

func epochToRFC3339(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

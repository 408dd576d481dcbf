package feature

import (
	"fmt"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

// GeoPoint is a WGS84 location. MinVisibleZoom is not a spatial coordinate, it's carried along so that the spatial
// index can filter by location and zoom level within the same query.
type GeoPoint struct {
	Lon            float64
	Lat            float64
	MinVisibleZoom int
}

func (p GeoPoint) Point() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// NodePair holds the OSM node IDs of both ends of a segment.
type NodePair struct {
	From osm.NodeID
	To   osm.NodeID
}

// Segment is one directed edge of the road network between two consecutive nodes of a way.
type Segment struct {
	From           GeoPoint
	To             GeoPoint
	Nodes          NodePair
	MinVisibleZoom int
}

func NewSegment(from orb.Point, to orb.Point, nodes NodePair, minVisibleZoom int) Segment {
	return Segment{
		From:           GeoPoint{Lon: from.Lon(), Lat: from.Lat(), MinVisibleZoom: minVisibleZoom},
		To:             GeoPoint{Lon: to.Lon(), Lat: to.Lat(), MinVisibleZoom: minVisibleZoom},
		Nodes:          nodes,
		MinVisibleZoom: minVisibleZoom,
	}
}

func (s Segment) LineString() orb.LineString {
	return orb.LineString{s.From.Point(), s.To.Point()}
}

// Bound returns the lon/lat bounding box of the segment.
func (s Segment) Bound() orb.Bound {
	return s.LineString().Bound()
}

// Midpoint is the lon/lat center of the bounding box.
func (s Segment) Midpoint() orb.Point {
	return s.Bound().Center()
}

func (s Segment) String() string {
	return fmt.Sprintf("%d->%d (%f,%f)->(%f,%f) z>=%d", s.Nodes.From, s.Nodes.To, s.From.Lon, s.From.Lat, s.To.Lon, s.To.Lat, s.MinVisibleZoom)
}

package osm

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/osm"
	"math"
	"roadtiles/feature"
)

const (
	// Segments with an end this close to the prime meridian are checked for broken longitudes.
	meridianThreshold = 0.001
	// maxMeridianSegmentLength in meters. Longer segments near the meridian are considered broken data.
	maxMeridianSegmentLength = 5000.0
)

var highwayMinZoom = map[string]int{
	"motorway":       4,
	"trunk":          4,
	"primary":        10,
	"primary_link":   10,
	"motorway_link":  10,
	"trunk_link":     10,
	"secondary":      12,
	"secondary_link": 12,
	"tertiary":       14,
	"tertiary_link":  14,
	"residential":    15,
	"living_street":  15,
	"service":        16,
	"unclassified":   16,
}

// GetMinZoom returns the lowest zoom level on which a road of the given highway type is shown. The boolean is false
// for highway types that are no roads of interest.
func GetMinZoom(highway string) (int, bool) {
	minZoom, ok := highwayMinZoom[highway]
	return minZoom, ok
}

type direction int

const (
	directionNone direction = iota
	directionForward
	directionReverse
)

func getDirection(tags osm.Tags) direction {
	if !tags.HasTag("oneway") {
		return directionForward
	}

	switch tags.Find("oneway") {
	case "yes", "no":
		return directionForward
	case "-1":
		return directionReverse
	}
	return directionNone
}

// RoadExtractor turns highways into segments between each two consecutive nodes. Nodes must be read before ways,
// which is the case for sorted OSM files.
type RoadExtractor struct {
	nodes    map[osm.NodeID]orb.Point
	Segments []feature.Segment

	skippedWays     int
	skippedSegments int
}

func NewRoadExtractor() *RoadExtractor {
	return &RoadExtractor{}
}

func (e *RoadExtractor) Name() string {
	return "RoadExtractor"
}

func (e *RoadExtractor) Init() error {
	e.nodes = map[osm.NodeID]orb.Point{}
	e.Segments = nil
	e.skippedWays = 0
	e.skippedSegments = 0
	return nil
}

func (e *RoadExtractor) HandleNode(node *osm.Node) error {
	e.nodes[node.ID] = node.Point()
	return nil
}

func (e *RoadExtractor) HandleWay(way *osm.Way) error {
	minZoom, ok := GetMinZoom(way.Tags.Find("highway"))
	if !ok || len(way.Nodes) < 2 {
		return nil
	}

	dir := getDirection(way.Tags)
	if dir == directionNone {
		sigolo.Tracef("Skip way %d with oneway=%s", way.ID, way.Tags.Find("oneway"))
		e.skippedWays++
		return nil
	}

	for i := 0; i < len(way.Nodes)-1; i++ {
		a := way.Nodes[i].ID
		b := way.Nodes[i+1].ID

		if a == b {
			e.skippedSegments++
			continue
		}

		aLocation, aExists := e.nodes[a]
		bLocation, bExists := e.nodes[b]
		if !aExists || !bExists {
			sigolo.Tracef("Skip segment %d->%d of way %d with unknown node location", a, b, way.ID)
			e.skippedSegments++
			continue
		}

		if isBrokenMeridianSegment(aLocation, bLocation) {
			sigolo.Warnf("Bad geometry (>%.0fm) found between nodes %d and %d", maxMeridianSegmentLength, a, b)
			e.skippedSegments++
			continue
		}

		if dir == directionReverse {
			a, b = b, a
			aLocation, bLocation = bLocation, aLocation
		}

		e.Segments = append(e.Segments, feature.NewSegment(aLocation, bLocation, feature.NodePair{From: a, To: b}, minZoom))
	}

	return nil
}

func isBrokenMeridianSegment(a orb.Point, b orb.Point) bool {
	if math.Abs(a.Lon()) >= meridianThreshold && math.Abs(b.Lon()) >= meridianThreshold {
		return false
	}
	return geo.Distance(a, b) > maxMeridianSegmentLength
}

func (e *RoadExtractor) HandleRelation(relation *osm.Relation) error {
	return nil
}

func (e *RoadExtractor) Done() error {
	sigolo.Infof("Extracted %d road segments from %d nodes, skipped %d ways and %d segments", len(e.Segments), len(e.nodes), e.skippedWays, e.skippedSegments)
	// Node locations are only needed while reading ways.
	e.nodes = nil
	return nil
}

package tile

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/project"
	"math"
	"roadtiles/feature"
)

// MaxMercatorLatitude is the latitude at which the Web Mercator world becomes square. Latitudes beyond it are clamped
// before projecting, the poles themselves would be projected to infinity.
const MaxMercatorLatitude = 85.0511287798066

var clipBound = orb.Bound{
	Min: orb.Point{-BUFFER, -BUFFER},
	Max: orb.Point{EXTENT + BUFFER, EXTENT + BUFFER},
}

// Projector converts geographic segments into the local coordinate space of one tile. It holds no mutable state and
// can be shared, but it's cheap enough to create one per request.
type Projector struct {
	Tile maptile.Tile

	// Bound of the tile in Web Mercator meters.
	mercatorBound orb.Bound
	width         float64
	height        float64
}

func NewProjector(t maptile.Tile) *Projector {
	lonLatBound := t.Bound()
	mercatorBound := orb.Bound{
		Min: ToMercator(lonLatBound.Min),
		Max: ToMercator(lonLatBound.Max),
	}

	return &Projector{
		Tile:          t,
		mercatorBound: mercatorBound,
		width:         mercatorBound.Max.X() - mercatorBound.Min.X(),
		height:        mercatorBound.Max.Y() - mercatorBound.Min.Y(),
	}
}

// ToMercator projects the lon/lat point into Web Mercator meters. The latitude is clamped to the Mercator range.
func ToMercator(p orb.Point) orb.Point {
	lat := math.Max(-MaxMercatorLatitude, math.Min(MaxMercatorLatitude, p.Lat()))
	return project.Point(orb.Point{p.Lon(), lat}, project.WGS84.ToMercator)
}

// Project converts the segment into a clipped tile line. The result has two points or none, when the segment doesn't
// touch the buffered tile area.
func (p *Projector) Project(segment feature.Segment) Line {
	unclipped := orb.LineString{
		p.toTilePoint(segment.From.Point()),
		p.toTilePoint(segment.To.Point()),
	}

	clipped := clip.LineString(clipBound, unclipped)

	// Very short lines might be clipped to a single point or not at all.
	if len(clipped) == 0 || len(clipped[0]) < 2 {
		return Line{}
	}

	first := clipped[0][0]
	last := clipped[0][len(clipped[0])-1]
	return Line{toCoordinate(first), toCoordinate(last)}
}

// toTilePoint converts the lon/lat point into the local tile space. The result is rounded but still a float, since
// the clipping happens on this representation.
func (p *Projector) toTilePoint(point orb.Point) orb.Point {
	mercator := ToMercator(point)

	x := math.Round((mercator.X() - p.mercatorBound.Min.X()) * EXTENT / p.width)
	// Tile coordinates have their origin in the upper left corner.
	y := math.Round((p.mercatorBound.Max.Y() - mercator.Y()) * EXTENT / p.height)

	return orb.Point{x, y}
}

func toCoordinate(point orb.Point) Coordinate {
	return Coordinate{
		X: int32(math.Round(point.X())),
		Y: int32(math.Round(point.Y())),
	}
}

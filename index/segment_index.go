package index

import (
	"github.com/paulmach/orb"
	"roadtiles/feature"
)

// Box is an axis aligned box in the three dimensions longitude, latitude and zoom level. Both corners are inclusive.
type Box struct {
	Min [3]float64
	Max [3]float64
}

// NewTileQueryBox returns the box selecting all segments within the lon/lat bound that are visible on zoom level z.
// The zoom dimension ranges from 0 to z, so every segment with a min-visible-zoom of at most z matches.
func NewTileQueryBox(bound orb.Bound, z int) Box {
	return Box{
		Min: [3]float64{bound.Min.Lon(), bound.Min.Lat(), 0},
		Max: [3]float64{bound.Max.Lon(), bound.Max.Lat(), float64(z)},
	}
}

// SegmentBox returns the degenerated box (in the zoom dimension) covering the segment.
func SegmentBox(segment feature.Segment) Box {
	bound := segment.Bound()
	zoom := float64(segment.MinVisibleZoom)
	return Box{
		Min: [3]float64{bound.Min.Lon(), bound.Min.Lat(), zoom},
		Max: [3]float64{bound.Max.Lon(), bound.Max.Lat(), zoom},
	}
}

func (b Box) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.Min[0], b.Min[1]},
		Max: orb.Point{b.Max[0], b.Max[1]},
	}
}

func (b Box) Intersects(other Box) bool {
	for d := 0; d < 3; d++ {
		if b.Max[d] < other.Min[d] || other.Max[d] < b.Min[d] {
			return false
		}
	}
	return true
}

// SegmentIndex is the read-only spatial index the tile assembly queries. Implementations must be safe for concurrent
// reads once built.
type SegmentIndex interface {
	// Intersects returns all segments whose box intersects the given box. The result is in a stable order.
	Intersects(box Box) []feature.Segment
	Len() int
}

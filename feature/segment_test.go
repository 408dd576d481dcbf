package feature

import (
	"github.com/paulmach/orb"
	"roadtiles/util"
	"testing"
)

func TestNewSegment(t *testing.T) {
	// Act
	segment := NewSegment(orb.Point{9.9, 53.5}, orb.Point{10.1, 53.4}, NodePair{From: 1, To: 2}, 12)

	// Assert
	util.AssertEqual(t, GeoPoint{Lon: 9.9, Lat: 53.5, MinVisibleZoom: 12}, segment.From)
	util.AssertEqual(t, GeoPoint{Lon: 10.1, Lat: 53.4, MinVisibleZoom: 12}, segment.To)
	util.AssertEqual(t, 12, segment.MinVisibleZoom)
	util.AssertEqual(t, orb.LineString{{9.9, 53.5}, {10.1, 53.4}}, segment.LineString())
}

func TestSegment_Bound(t *testing.T) {
	// Arrange
	segment := NewSegment(orb.Point{10.1, 53.4}, orb.Point{9.9, 53.5}, NodePair{}, 4)

	// Act
	bound := segment.Bound()

	// Assert
	util.AssertEqual(t, orb.Point{9.9, 53.4}, bound.Min)
	util.AssertEqual(t, orb.Point{10.1, 53.5}, bound.Max)
	util.AssertApprox(t, 10.0, segment.Midpoint().Lon(), 0.000001)
	util.AssertApprox(t, 53.45, segment.Midpoint().Lat(), 0.000001)
}

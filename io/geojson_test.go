package io

import (
	"bytes"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"os"
	"path/filepath"
	"roadtiles/feature"
	"roadtiles/util"
	"testing"
)

func TestToFeatureCollection(t *testing.T) {
	// Arrange
	segment := feature.NewSegment(orb.Point{9.99, 53.55}, orb.Point{10.0, 53.56}, feature.NodePair{From: 12, To: 34}, 10)

	// Act
	featureCollection := ToFeatureCollection([]feature.Segment{segment})

	// Assert
	util.AssertEqual(t, 1, len(featureCollection.Features))
	f := featureCollection.Features[0]
	util.AssertEqual(t, orb.LineString{{9.99, 53.55}, {10.0, 53.56}}, f.Geometry)
	util.AssertEqual(t, int64(12), f.Properties["from"])
	util.AssertEqual(t, int64(34), f.Properties["to"])
	util.AssertEqual(t, 10, f.Properties["min_zoom"])
}

func TestWriteSegmentsAsGeoJson(t *testing.T) {
	// Arrange
	segments := []feature.Segment{
		feature.NewSegment(orb.Point{9.99, 53.55}, orb.Point{10.0, 53.56}, feature.NodePair{From: 12, To: 34}, 10),
		feature.NewSegment(orb.Point{10.0, 53.56}, orb.Point{10.01, 53.57}, feature.NodePair{From: 34, To: 56}, 15),
	}
	buffer := &bytes.Buffer{}

	// Act
	err := WriteSegmentsAsGeoJson(segments, buffer)

	// Assert
	util.AssertNil(t, err)

	featureCollection, err := geojson.UnmarshalFeatureCollection(buffer.Bytes())
	util.AssertNil(t, err)
	util.AssertEqual(t, 2, len(featureCollection.Features))
	util.AssertEqual(t, 34.0, featureCollection.Features[0].Properties.MustFloat64("to"))
	util.AssertEqual(t, 15.0, featureCollection.Features[1].Properties.MustFloat64("min_zoom"))
	util.AssertEqual(t, orb.LineString{{10.0, 53.56}, {10.01, 53.57}}, featureCollection.Features[1].Geometry)
}

func TestWriteSegmentsAsGeoJsonFile(t *testing.T) {
	// Arrange
	filename := filepath.Join(t.TempDir(), "segments.geojson")

	// Act
	err := WriteSegmentsAsGeoJsonFile(nil, filename)

	// Assert
	util.AssertNil(t, err)
	data, err := os.ReadFile(filename)
	util.AssertNil(t, err)
	util.AssertMatch(t, `"type":"FeatureCollection"`, string(data))
}

package main

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
	"os"
	"path/filepath"
	"roadtiles/feature"
	"roadtiles/index"
	"roadtiles/tile"
	"roadtiles/util"
	"testing"
)

func newTestIndex(t *testing.T, tl maptile.Tile) *index.GridIndex {
	bound := tl.Bound()
	segments := []feature.Segment{
		feature.NewSegment(bound.Min, bound.Center(), feature.NodePair{From: 1, To: 2}, 10),
	}
	gridIndex, err := index.NewGridIndex(segments, index.DefaultCellSize, index.DefaultCellSize)
	util.AssertNil(t, err)
	return gridIndex
}

func TestWriteTile_mvt(t *testing.T) {
	// Arrange
	tl := maptile.At(orb.Point{9.9923, 53.5507}, 14)
	output := filepath.Join(t.TempDir(), "tile.mvt")

	// Act
	err := writeTile(newTestIndex(t, tl), tl, output)

	// Assert
	util.AssertNil(t, err)

	data, err := os.ReadFile(output)
	util.AssertNil(t, err)
	layer, err := tile.Decode(data)
	util.AssertNil(t, err)
	util.AssertEqual(t, 1, len(layer.Features))
	util.AssertEqual(t, tile.Coordinate{X: 0, Y: 4096}, layer.Features[0].Geometry.Front())

	util.AssertNil(t, inspectTile(output))
}

func TestWriteTile_geojson(t *testing.T) {
	// Arrange
	tl := maptile.At(orb.Point{9.9923, 53.5507}, 14)
	output := filepath.Join(t.TempDir(), "tile.geojson")

	// Act
	err := writeTile(newTestIndex(t, tl), tl, output)

	// Assert
	util.AssertNil(t, err)

	data, err := os.ReadFile(output)
	util.AssertNil(t, err)
	featureCollection, err := geojson.UnmarshalFeatureCollection(data)
	util.AssertNil(t, err)
	util.AssertEqual(t, 1, len(featureCollection.Features))
}

func TestWriteTile_invalidTile(t *testing.T) {
	// Arrange
	tl := maptile.At(orb.Point{9.9923, 53.5507}, 14)
	output := filepath.Join(t.TempDir(), "tile.mvt")

	// Act
	err := writeTile(newTestIndex(t, tl), maptile.New(2, 2, 1), output)

	// Assert
	util.AssertNotNil(t, err)
	_, statErr := os.Stat(output)
	util.AssertTrue(t, os.IsNotExist(statErr))
}

func TestInspectTile_invalidFile(t *testing.T) {
	// Arrange
	filename := filepath.Join(t.TempDir(), "broken.mvt")
	util.AssertNil(t, os.WriteFile(filename, []byte{0x1a, 0xff}, 0644))

	// Act
	err := inspectTile(filename)

	// Assert
	util.AssertNotNil(t, err)
}

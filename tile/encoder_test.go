package tile

import (
	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/pkg/errors"
	"roadtiles/util"
	"testing"
)

func TestZigZag(t *testing.T) {
	values := map[int32]uint32{
		0:           0,
		-1:          1,
		1:           2,
		-2:          3,
		2:           4,
		2147483647:  4294967294,
		-2147483648: 4294967295,
	}

	for signed, unsigned := range values {
		util.AssertEqual(t, unsigned, ZigZag(signed))
		util.AssertEqual(t, signed, UnZigZag(unsigned))
	}
}

func TestCommand(t *testing.T) {
	util.AssertEqual(t, uint32(9), Command(CommandMoveTo, 1))
	util.AssertEqual(t, uint32(26), Command(CommandLineTo, 3))
	util.AssertEqual(t, uint32(15), Command(CommandClosePath, 1))
}

func TestEncodeGeometry(t *testing.T) {
	// Arrange
	line := Line{{2, 2}, {2, 10}, {10, 10}}

	// Act
	geometry, err := EncodeGeometry(line)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, []uint32{9, 4, 4, 18, 0, 16, 16, 0}, geometry)
}

func TestEncodeGeometry_negativeCoordinates(t *testing.T) {
	// Arrange
	line := Line{{-3, 5}, {-128, -128}}

	// Act
	geometry, err := EncodeGeometry(line)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, []uint32{9, 5, 10, 10, 249, 265}, geometry)
}

func TestEncodeGeometry_tooFewPoints(t *testing.T) {
	for _, line := range []Line{nil, {}, {{1, 1}}} {
		// Act
		geometry, err := EncodeGeometry(line)

		// Assert
		util.AssertNil(t, geometry)
		util.AssertTrue(t, errors.Is(err, ErrTooFewPoints))
	}
}

func TestEncodeDecodeGeometry_roundTrip(t *testing.T) {
	lines := []Line{
		NewLine(0, 0, 1, 1),
		NewLine(4224, -128, -128, 4224),
		{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}, {7, 7}},
		{{100, 100}, {100, 100}, {99, 101}},
		{{-5, -5}, {4096, 0}, {4096, 4096}, {0, 4096}, {-5, -5}},
	}

	for _, line := range lines {
		// Act
		geometry, err := EncodeGeometry(line)
		util.AssertNil(t, err)
		decoded, err := DecodeGeometry(geometry)

		// Assert
		util.AssertNil(t, err)
		if diff := cmp.Diff(line, decoded); diff != "" {
			t.Errorf("DecodeGeometry(EncodeGeometry(%v)) mismatch (-want+got):\n%v", line, diff)
		}
	}
}

func TestDecodeGeometry_invalidCommands(t *testing.T) {
	invalidGeometries := [][]uint32{
		{18, 0, 16},                  // LineTo without MoveTo
		{17, 4, 4, 6, 6},             // MoveTo with count 2
		{9, 4},                       // Missing coordinate
		{9, 4, 4, 15},                // ClosePath
		{9, 4, 4, 10, 0, 0, 9, 2, 2}, // Second MoveTo
	}

	for _, geometry := range invalidGeometries {
		// Act
		line, err := DecodeGeometry(geometry)

		// Assert
		util.AssertNil(t, line)
		util.AssertNotNil(t, err)
	}
}

func TestEncode_wireFormat(t *testing.T) {
	// Act
	data := Encode([]Line{{{2, 2}, {2, 10}, {10, 10}}})

	// Assert
	expected := []byte{
		0x1a, 0x1b,                                                 // Layer, 27 bytes
		0x78, 0x02,                                                 // Version 2
		0x0a, 0x04, 'g', 'e', 'o', 'm',                             // Name
		0x28, 0x80, 0x20,                                           // Extent 4096
		0x12, 0x0e,                                                 // Feature, 14 bytes
		0x18, 0x02,                                                 // Type LINESTRING
		0x08, 0x01,                                                 // ID 1
		0x22, 0x08, 0x09, 0x04, 0x04, 0x12, 0x00, 0x10, 0x10, 0x00, // Geometry
	}
	util.AssertEqual(t, expected, data)
}

func TestEncode_emptyLayer(t *testing.T) {
	// Act
	data := Encode(nil)

	// Assert
	layer, err := Decode(data)
	util.AssertNil(t, err)
	util.AssertEqual(t, &Layer{Version: VERSION, Name: LAYER_NAME, Extent: EXTENT}, layer)
}

func TestEncode_skipsDegenerateLines(t *testing.T) {
	// Arrange
	lines := []Line{
		{{1, 1}},
		NewLine(1, 1, 2, 2),
		{},
		NewLine(5, 5, 6, 6),
	}

	// Act
	data := Encode(lines)

	// Assert
	layer, err := Decode(data)
	util.AssertNil(t, err)
	util.AssertEqual(t, []Feature{
		{ID: 1, Type: GeometryTypeLineString, Geometry: NewLine(1, 1, 2, 2)},
		{ID: 2, Type: GeometryTypeLineString, Geometry: NewLine(5, 5, 6, 6)},
	}, layer.Features)
}

func TestLayerEncoder_AddLine(t *testing.T) {
	// Arrange
	encoder := NewLayerEncoder()

	// Act
	err1 := encoder.AddLine(NewLine(0, 0, 10, 10))
	err2 := encoder.AddLine(Line{{3, 3}})
	err3 := encoder.AddLine(Line{{0, 0}, {10, 10}, {20, 0}})

	// Assert
	util.AssertNil(t, err1)
	util.AssertTrue(t, errors.Is(err2, ErrTooFewPoints))
	util.AssertNil(t, err3)
	util.AssertEqual(t, 2, encoder.FeatureCount())
}

func TestEncode_decodableByOrb(t *testing.T) {
	// Arrange
	lines := []Line{
		{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}, {6, 6}},
		{{7, 7}, {4, 4}, {5, 5}},
		NewLine(-128, 4224, 4224, -128),
	}

	// Act
	data := Encode(lines)

	// Assert
	layers, err := mvt.Unmarshal(data)
	util.AssertNil(t, err)
	util.AssertEqual(t, 1, len(layers))

	layer := layers[0]
	util.AssertEqual(t, LAYER_NAME, layer.Name)
	util.AssertEqual(t, uint32(VERSION), layer.Version)
	util.AssertEqual(t, uint32(EXTENT), layer.Extent)
	util.AssertEqual(t, len(lines), len(layer.Features))

	for i, line := range lines {
		expected := orb.LineString{}
		for _, c := range line {
			expected = append(expected, orb.Point{float64(c.X), float64(c.Y)})
		}
		if diff := cmp.Diff(expected, layer.Features[i].Geometry); diff != "" {
			t.Errorf("Geometry of feature %d mismatch (-want+got):\n%v", i, diff)
		}
	}
}

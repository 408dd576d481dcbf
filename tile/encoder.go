package tile

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers and enum values of the vector tile protobuf schema (version 2.1).
const (
	tileLayersTag = 3

	layerNameTag     = 1
	layerFeaturesTag = 2
	layerExtentTag   = 5
	layerVersionTag  = 15

	featureIdTag       = 1
	featureTypeTag     = 3
	featureGeometryTag = 4

	GeometryTypeLineString = 2
)

// Drawing commands. A command integer holds the command ID in the lowest three bits and the repeat count above.
const (
	CommandMoveTo    = 1
	CommandLineTo    = 2
	CommandClosePath = 7
)

var ErrTooFewPoints = errors.New("Line needs at least two points to be encoded")

// Command packs the command ID and its repeat count into one command integer.
func Command(id uint32, count uint32) uint32 {
	return (count << 3) | (id & 0x7)
}

// ZigZag maps signed integers to unsigned ones so that small absolute values stay small: 0, -1, 1, -2, ... become 0,
// 1, 2, 3, ...
func ZigZag(v int32) uint32 {
	return uint32(protowire.EncodeZigZag(int64(v)))
}

func UnZigZag(v uint32) int32 {
	return int32(protowire.DecodeZigZag(uint64(v)))
}

// EncodeGeometry turns the line into a command stream: one MoveTo, one LineTo with N-1 repetitions and the zigzag
// encoded coordinate deltas. The cursor starts at 0,0 for every line.
func EncodeGeometry(line Line) ([]uint32, error) {
	if len(line) < 2 {
		return nil, ErrTooFewPoints
	}

	geometry := make([]uint32, 0, 2+len(line)*2)
	var cursorX, cursorY int32

	geometry = append(geometry, Command(CommandMoveTo, 1))
	geometry = append(geometry, ZigZag(line[0].X-cursorX), ZigZag(line[0].Y-cursorY))
	cursorX, cursorY = line[0].X, line[0].Y

	geometry = append(geometry, Command(CommandLineTo, uint32(len(line)-1)))
	for _, point := range line[1:] {
		geometry = append(geometry, ZigZag(point.X-cursorX), ZigZag(point.Y-cursorY))
		cursorX, cursorY = point.X, point.Y
	}

	return geometry, nil
}

// LayerEncoder collects line features of one layer and writes them as complete tile. Feature IDs start at 1 and
// increase with every added line.
type LayerEncoder struct {
	name     string
	extent   uint64
	features []byte
	nextId   uint64
}

func NewLayerEncoder() *LayerEncoder {
	return &LayerEncoder{
		name:   LAYER_NAME,
		extent: EXTENT,
		nextId: 1,
	}
}

// AddLine encodes the line as new feature. Lines with less than two points are rejected with ErrTooFewPoints and
// don't use up a feature ID.
func (e *LayerEncoder) AddLine(line Line) error {
	geometry, err := EncodeGeometry(line)
	if err != nil {
		return err
	}

	var packedGeometry []byte
	for _, value := range geometry {
		packedGeometry = protowire.AppendVarint(packedGeometry, uint64(value))
	}

	var feature []byte
	feature = protowire.AppendTag(feature, featureTypeTag, protowire.VarintType)
	feature = protowire.AppendVarint(feature, GeometryTypeLineString)
	feature = protowire.AppendTag(feature, featureIdTag, protowire.VarintType)
	feature = protowire.AppendVarint(feature, e.nextId)
	feature = protowire.AppendTag(feature, featureGeometryTag, protowire.BytesType)
	feature = protowire.AppendBytes(feature, packedGeometry)

	e.features = protowire.AppendTag(e.features, layerFeaturesTag, protowire.BytesType)
	e.features = protowire.AppendBytes(e.features, feature)
	e.nextId++

	return nil
}

// FeatureCount returns the number of features added so far.
func (e *LayerEncoder) FeatureCount() int {
	return int(e.nextId - 1)
}

// Bytes returns the tile containing this layer.
func (e *LayerEncoder) Bytes() []byte {
	var layer []byte
	layer = protowire.AppendTag(layer, layerVersionTag, protowire.VarintType)
	layer = protowire.AppendVarint(layer, VERSION)
	layer = protowire.AppendTag(layer, layerNameTag, protowire.BytesType)
	layer = protowire.AppendString(layer, e.name)
	layer = protowire.AppendTag(layer, layerExtentTag, protowire.VarintType)
	layer = protowire.AppendVarint(layer, e.extent)
	layer = append(layer, e.features...)

	var tile []byte
	tile = protowire.AppendTag(tile, tileLayersTag, protowire.BytesType)
	tile = protowire.AppendBytes(tile, layer)
	return tile
}

// Encode writes all lines into one layer and returns the tile. Degenerate lines are skipped.
func Encode(lines []Line) []byte {
	encoder := NewLayerEncoder()
	for _, line := range lines {
		// The only possible error is a too short line, which just doesn't end up in the tile.
		_ = encoder.AddLine(line)
	}
	return encoder.Bytes()
}

package tile

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Layer is the decoded form of a single-layer tile as written by the LayerEncoder.
type Layer struct {
	Version  uint32
	Name     string
	Extent   uint32
	Features []Feature
}

type Feature struct {
	ID       uint64
	Type     uint32
	Geometry Line
}

// Decode reads a tile containing exactly one layer of line features. Unknown fields are skipped.
func Decode(data []byte) (*Layer, error) {
	var layer *Layer

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errors.Wrap(protowire.ParseError(n), "Unable to read tile field")
		}
		data = data[n:]

		if num != tileLayersTag || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, errors.Wrapf(protowire.ParseError(n), "Unable to skip tile field %d", num)
			}
			data = data[n:]
			continue
		}

		layerData, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return nil, errors.Wrap(protowire.ParseError(n), "Unable to read layer")
		}
		data = data[n:]

		if layer != nil {
			return nil, errors.New("Tile contains more than one layer")
		}

		var err error
		layer, err = decodeLayer(layerData)
		if err != nil {
			return nil, err
		}
	}

	if layer == nil {
		return nil, errors.New("Tile contains no layer")
	}

	return layer, nil
}

func decodeLayer(data []byte) (*Layer, error) {
	layer := &Layer{}

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errors.Wrap(protowire.ParseError(n), "Unable to read layer field")
		}
		data = data[n:]

		switch {
		case num == layerVersionTag && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, errors.Wrap(protowire.ParseError(n), "Unable to read layer version")
			}
			layer.Version = uint32(v)
			data = data[n:]
		case num == layerNameTag && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return nil, errors.Wrap(protowire.ParseError(n), "Unable to read layer name")
			}
			layer.Name = v
			data = data[n:]
		case num == layerExtentTag && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, errors.Wrap(protowire.ParseError(n), "Unable to read layer extent")
			}
			layer.Extent = uint32(v)
			data = data[n:]
		case num == layerFeaturesTag && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, errors.Wrap(protowire.ParseError(n), "Unable to read feature")
			}
			data = data[n:]

			feature, err := decodeFeature(v)
			if err != nil {
				return nil, errors.Wrapf(err, "Unable to decode feature %d", len(layer.Features)+1)
			}
			layer.Features = append(layer.Features, *feature)
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, errors.Wrapf(protowire.ParseError(n), "Unable to skip layer field %d", num)
			}
			data = data[n:]
		}
	}

	return layer, nil
}

func decodeFeature(data []byte) (*Feature, error) {
	feature := &Feature{}

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errors.Wrap(protowire.ParseError(n), "Unable to read feature field")
		}
		data = data[n:]

		switch {
		case num == featureIdTag && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, errors.Wrap(protowire.ParseError(n), "Unable to read feature ID")
			}
			feature.ID = v
			data = data[n:]
		case num == featureTypeTag && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, errors.Wrap(protowire.ParseError(n), "Unable to read feature type")
			}
			feature.Type = uint32(v)
			data = data[n:]
		case num == featureGeometryTag && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, errors.Wrap(protowire.ParseError(n), "Unable to read feature geometry")
			}
			data = data[n:]

			var geometry []uint32
			for len(packed) > 0 {
				v, n := protowire.ConsumeVarint(packed)
				if n < 0 {
					return nil, errors.Wrap(protowire.ParseError(n), "Unable to read geometry command")
				}
				geometry = append(geometry, uint32(v))
				packed = packed[n:]
			}

			line, err := DecodeGeometry(geometry)
			if err != nil {
				return nil, err
			}
			feature.Geometry = line
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, errors.Wrapf(protowire.ParseError(n), "Unable to skip feature field %d", num)
			}
			data = data[n:]
		}
	}

	return feature, nil
}

// DecodeGeometry reverses EncodeGeometry. Only single line strings (one MoveTo followed by LineTo commands) are
// supported.
func DecodeGeometry(geometry []uint32) (Line, error) {
	var line Line
	var cursorX, cursorY int32

	for i := 0; i < len(geometry); {
		id := geometry[i] & 0x7
		count := int(geometry[i] >> 3)
		i++

		switch id {
		case CommandMoveTo:
			if len(line) > 0 {
				return nil, errors.New("Multi line strings are not supported")
			}
			if count != 1 {
				return nil, errors.Errorf("MoveTo command with count %d, expected 1", count)
			}
		case CommandLineTo:
			if len(line) == 0 {
				return nil, errors.New("LineTo command without preceding MoveTo")
			}
		default:
			return nil, errors.Errorf("Unsupported command %d at position %d", id, i-1)
		}

		if i+count*2 > len(geometry) {
			return nil, errors.Errorf("Command at position %d expects %d coordinates but geometry ends before", i-1, count)
		}

		for c := 0; c < count; c++ {
			cursorX += UnZigZag(geometry[i])
			cursorY += UnZigZag(geometry[i+1])
			line = append(line, Coordinate{cursorX, cursorY})
			i += 2
		}
	}

	return line, nil
}

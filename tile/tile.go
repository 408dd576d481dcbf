package tile

import (
	"fmt"
	"strings"
)

const (
	// EXTENT is the nominal size of the local tile coordinate space.
	EXTENT = 4096
	// BUFFER is the number of units geometry may overhang each tile edge.
	BUFFER = 128

	VERSION    = 2
	LAYER_NAME = "geom"

	// ContentType is the media type of an encoded tile.
	ContentType = "application/vnd.mapbox-vector-tile"
)

// Coordinate is a point in the local integer space of one tile. Valid coordinates lie within
// [-BUFFER, EXTENT+BUFFER] on both axes. It's comparable and used directly as map key.
type Coordinate struct {
	X int32
	Y int32
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// Line is a polyline in local tile coordinates. Lines with less than two points are degenerate.
type Line []Coordinate

func NewLine(x1, y1, x2, y2 int32) Line {
	return Line{{x1, y1}, {x2, y2}}
}

func (l Line) Front() Coordinate { return l[0] }

func (l Line) Back() Coordinate { return l[len(l)-1] }

// IsDegenerate is true for lines with less than two points. They are never merged or encoded.
func (l Line) IsDegenerate() bool {
	return len(l) < 2
}

func (l Line) String() string {
	parts := make([]string, len(l))
	for i, c := range l {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

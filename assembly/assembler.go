package assembly

import (
	"fmt"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb/maptile"
	"github.com/pkg/errors"
	"roadtiles/feature"
	"roadtiles/index"
	"roadtiles/merge"
	"roadtiles/tile"
	"time"
)

const MaxZoom = 22

type InvalidTileError struct {
	X, Y, Z uint32
}

func (e *InvalidTileError) Error() string {
	return fmt.Sprintf("Invalid tile %d/%d/%d: zoom must be at most %d and x, y less than 2^zoom", e.X, e.Y, e.Z, MaxZoom)
}

// Stats counts what happened to the candidate segments of one tile.
type Stats struct {
	Candidates int // Segments returned by the index
	Degenerate int // Segments with less than two points left after projection and clipping
	Rejected   int // Segments the merge graph refused
	Merged     int
	Features   int
}

type Result struct {
	Data  []byte
	Stats Stats
}

// Assembler creates tiles from the segments of a read-only index. It holds no request state and can be used by
// several goroutines at once.
type Assembler struct {
	index index.SegmentIndex
}

func NewAssembler(idx index.SegmentIndex) *Assembler {
	return &Assembler{
		index: idx,
	}
}

func ValidateTile(t maptile.Tile) error {
	if t.Z > MaxZoom || uint64(t.X) >= 1<<uint64(t.Z) || uint64(t.Y) >= 1<<uint64(t.Z) {
		return &InvalidTileError{X: t.X, Y: t.Y, Z: uint32(t.Z)}
	}
	return nil
}

// Candidates returns the segments of the index that are visible within the given tile.
func (a *Assembler) Candidates(t maptile.Tile) ([]feature.Segment, error) {
	err := ValidateTile(t)
	if err != nil {
		return nil, err
	}

	box := index.NewTileQueryBox(t.Bound(), int(t.Z))
	return a.index.Intersects(box), nil
}

// Assemble projects all candidate segments into the tile, merges them into as few lines as possible and encodes
// them as vector tile.
func (a *Assembler) Assemble(t maptile.Tile) (*Result, error) {
	startTime := time.Now()

	segments, err := a.Candidates(t)
	if err != nil {
		return nil, err
	}

	stats := Stats{Candidates: len(segments)}
	projector := tile.NewProjector(t)
	graph := merge.NewGraph()

	for _, segment := range segments {
		line := projector.Project(segment)
		if line.IsDegenerate() {
			stats.Degenerate++
			continue
		}

		err = graph.Merge(line)
		if err != nil {
			var invalidInputError *merge.InvalidInputError
			if errors.As(err, &invalidInputError) {
				sigolo.Debugf("Skip segment %s in tile %d/%d/%d: %s", segment.String(), t.X, t.Y, t.Z, err.Error())
				stats.Rejected++
				continue
			}

			graph.Print()
			return nil, errors.Wrapf(err, "Unable to merge segment %s in tile %d/%d/%d", segment.String(), t.X, t.Y, t.Z)
		}
		stats.Merged++
	}

	lines, err := graph.Lines()
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to read merged lines of tile %d/%d/%d", t.X, t.Y, t.Z)
	}

	encoder := tile.NewLayerEncoder()
	for _, line := range lines {
		err = encoder.AddLine(line)
		if err != nil {
			sigolo.Debugf("Skip line %s in tile %d/%d/%d: %s", line.String(), t.X, t.Y, t.Z, err.Error())
		}
	}
	stats.Features = encoder.FeatureCount()

	data := encoder.Bytes()

	sigolo.Tracef("Assembled tile %d/%d/%d with stats %+v in %s", t.X, t.Y, t.Z, stats, time.Since(startTime))

	return &Result{
		Data:  data,
		Stats: stats,
	}, nil
}

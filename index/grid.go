package index

import (
	"github.com/google/hilbert"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"roadtiles/common"
	"roadtiles/feature"
	"sort"
	"time"
)

const DefaultCellSize = 0.05

// hilbertOrder is the number of curve cells per axis used to sort segments. Must be a power of two.
const hilbertOrder = 1 << 16

// GridIndex holds all segments in memory. Each segment is registered in every grid cell its bounding box touches.
type GridIndex struct {
	CellWidth  float64
	CellHeight float64

	segments []feature.Segment
	boxes    []Box
	cells    map[common.CellIndex][]int
	extent   common.CellExtent
}

func NewGridIndex(segments []feature.Segment, cellWidth float64, cellHeight float64) (*GridIndex, error) {
	if cellWidth <= 0 || cellHeight <= 0 {
		return nil, errors.Errorf("Invalid cell size %fx%f, must be positive", cellWidth, cellHeight)
	}

	sigolo.Debugf("Start building grid index for %d segments", len(segments))
	startTime := time.Now()

	sorted, err := sortByHilbertCurve(segments)
	if err != nil {
		return nil, err
	}

	g := &GridIndex{
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
		segments:   sorted,
		boxes:      make([]Box, len(sorted)),
		cells:      map[common.CellIndex][]int{},
	}

	for i, segment := range sorted {
		g.boxes[i] = SegmentBox(segment)

		segmentExtent := common.GetCellExtentForBound(segment.Bound(), cellWidth, cellHeight)
		if i == 0 {
			g.extent = segmentExtent
		} else {
			g.extent = g.extent.Expand(segmentExtent.LowerLeftCell()).Expand(segmentExtent.UpperRightCell())
		}

		for _, cell := range segmentExtent.GetCellIndices() {
			g.cells[cell] = append(g.cells[cell], i)
		}
	}

	sigolo.Debugf("Built grid index with %d segments in %d cells in %s", len(sorted), len(g.cells), time.Since(startTime))

	return g, nil
}

func sortByHilbertCurve(segments []feature.Segment) ([]feature.Segment, error) {
	h, err := hilbert.NewHilbert(hilbertOrder)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to create hilbert curve")
	}

	keys := make([]int, len(segments))
	for i, segment := range segments {
		x, y := hilbertCell(segment.Midpoint())
		keys[i], err = h.MapInverse(x, y)
		if err != nil {
			return nil, errors.Wrapf(err, "Unable to determine hilbert value of segment %s", segment.String())
		}
	}

	order := make([]int, len(segments))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return keys[order[i]] < keys[order[j]]
	})

	sorted := make([]feature.Segment, len(segments))
	for i, o := range order {
		sorted[i] = segments[o]
	}
	return sorted, nil
}

func hilbertCell(p orb.Point) (int, int) {
	x := int((p.Lon() + 180) / 360 * hilbertOrder)
	y := int((p.Lat() + 90) / 180 * hilbertOrder)
	return clampCell(x), clampCell(y)
}

func clampCell(v int) int {
	if v < 0 {
		return 0
	}
	if v >= hilbertOrder {
		return hilbertOrder - 1
	}
	return v
}

func (g *GridIndex) Len() int {
	return len(g.segments)
}

// Extent is the range of cells containing at least one segment.
func (g *GridIndex) Extent() common.CellExtent {
	return g.extent
}

func (g *GridIndex) CellCount() int {
	return len(g.cells)
}

func (g *GridIndex) Intersects(box Box) []feature.Segment {
	if len(g.segments) == 0 {
		return nil
	}

	queryExtent, ok := common.GetCellExtentForBound(box.Bound(), g.CellWidth, g.CellHeight).Intersect(g.extent)
	if !ok {
		return nil
	}

	var candidates []int
	if queryExtent.CellCount() > len(g.cells) {
		// Large boxes (low zoom levels) touch more cells than there are filled ones.
		for cell, indices := range g.cells {
			if queryExtent.Contains(cell) {
				candidates = append(candidates, indices...)
			}
		}
	} else {
		for _, cell := range queryExtent.GetCellIndices() {
			candidates = append(candidates, g.cells[cell]...)
		}
	}

	sort.Ints(candidates)

	var result []feature.Segment
	for i, candidate := range candidates {
		if i > 0 && candidates[i-1] == candidate {
			continue
		}
		if g.boxes[candidate].Intersects(box) {
			result = append(result, g.segments[candidate])
		}
	}

	sigolo.Tracef("Grid index query %v found %d candidates and %d segments", box, len(candidates), len(result))

	return result
}

package merge

import (
	"github.com/hauke96/sigolo/v2"
	"roadtiles/tile"
	"sort"
	"strings"
)

// Handle addresses a line in the graph. Handles stay valid for the whole lifetime of a graph.
type Handle int

// Graph joins two-point lines into maximal polylines while they arrive one by one. Lines are never removed from the
// arena: when a line gets absorbed by another one, its slot is marked as orphaned and isn't referenced by any index
// anymore.
//
// A graph belongs to a single tile request and must not be shared between goroutines.
type Graph struct {
	lines    []*polyline
	orphaned []bool
	starts   coordinateIndex // Lines by their current first coordinate
	ends     coordinateIndex // Lines by their current last coordinate

	reachable int
	err       error
}

func NewGraph() *Graph {
	return &Graph{
		starts: coordinateIndex{},
		ends:   coordinateIndex{},
	}
}

// Merge adds the two-point line to the graph. It is joined to existing lines where possible:
//
//  1. A line ends at the new line's front and another line starts at its back: the second line is appended to the
//     first one. This is skipped when both are the same line, since only open polylines are built here.
//  2. A line ends at the new line's front: the back is appended to it.
//  3. A line starts at the new line's back: the front is prepended to it.
//  4. Otherwise the line is added as new line.
//
// Zero-length lines are dropped in case 2 and 3. An InvalidInputError is returned for lines without exactly two
// points and leaves the graph unchanged. An IndexCorruptionError makes the graph unusable, all further calls return
// it again.
func (g *Graph) Merge(line tile.Line) error {
	if g.err != nil {
		return g.err
	}

	if len(line) != 2 {
		return &InvalidInputError{Length: len(line)}
	}

	front := line.Front()
	back := line.Back()

	endMatch, hasEndMatch := g.ends.last(front)
	if hasEndMatch {
		err := g.checkHandle(endMatch)
		if err != nil {
			return err
		}
		if g.lines[endMatch].back() != front {
			return g.fail(corruption("line %d is registered to end at %s but ends at %s", endMatch, front, g.lines[endMatch].back()))
		}
	}

	startMatch, hasStartMatch := g.starts.last(back)
	if hasStartMatch {
		err := g.checkHandle(startMatch)
		if err != nil {
			return err
		}
		if g.lines[startMatch].front() != back {
			return g.fail(corruption("line %d is registered to start at %s but starts at %s", startMatch, back, g.lines[startMatch].front()))
		}
	}

	if hasEndMatch && hasStartMatch && endMatch != startMatch {
		return g.join(endMatch, startMatch, front, back)
	}

	// We also end up here when joining would have closed a line on itself.
	if hasEndMatch {
		g.appendTo(endMatch, front, back)
		return nil
	}

	if hasStartMatch {
		g.prependTo(startMatch, front, back)
		return nil
	}

	g.insert(line)
	return nil
}

// join appends the line starting at the back of the bridge to the line ending at its front. The bridge itself only
// connects both lines and is not stored.
func (g *Graph) join(first Handle, second Handle, front tile.Coordinate, back tile.Coordinate) error {
	firstLine := g.lines[first]
	secondLine := g.lines[second]
	secondEnd := secondLine.back()

	// A zero-length bridge means both lines share the coordinate, which must not appear twice.
	skip := 0
	if front == back {
		skip = 1
	}
	firstLine.appendPolyline(secondLine, skip)

	g.ends.pop(front)
	g.starts.pop(back)

	// The end of the second line now belongs to the first line.
	if !g.ends.remove(secondEnd, second) {
		return g.fail(corruption("line %d is not registered at its end %s", second, secondEnd))
	}
	g.ends.push(firstLine.back(), first)

	g.orphaned[second] = true
	g.reachable--

	return nil
}

func (g *Graph) appendTo(h Handle, front tile.Coordinate, back tile.Coordinate) {
	if front == back {
		return
	}

	g.ends.pop(front)
	g.lines[h].pushBack(back)
	g.ends.push(back, h)
}

func (g *Graph) prependTo(h Handle, front tile.Coordinate, back tile.Coordinate) {
	if front == back {
		return
	}

	g.starts.pop(back)
	g.lines[h].pushFront(front)
	g.starts.push(front, h)
}

func (g *Graph) insert(line tile.Line) {
	h := Handle(len(g.lines))
	g.lines = append(g.lines, newPolyline(line))
	g.orphaned = append(g.orphaned, false)
	g.reachable++

	g.starts.push(line.Front(), h)
	g.ends.push(line.Back(), h)
}

func (g *Graph) checkHandle(h Handle) error {
	if h < 0 || int(h) >= len(g.lines) {
		return g.fail(corruption("handle %d out of range, graph has %d lines", h, len(g.lines)))
	}
	if g.orphaned[h] {
		return g.fail(corruption("handle %d refers to an absorbed line", h))
	}
	return nil
}

func (g *Graph) fail(err *IndexCorruptionError) error {
	g.err = err
	return err
}

// Len returns the number of polylines currently reachable through the indices.
func (g *Graph) Len() int {
	return g.reachable
}

// Lines returns all maximal polylines ordered by their handle. Each line is checked against both indices, an
// IndexCorruptionError is returned on any inconsistency.
func (g *Graph) Lines() ([]tile.Line, error) {
	if g.err != nil {
		return nil, g.err
	}

	var handles []Handle
	for coordinate, bucket := range g.starts {
		for _, h := range bucket {
			err := g.checkHandle(h)
			if err != nil {
				return nil, err
			}

			line := g.lines[h]
			if line.front() != coordinate {
				return nil, g.fail(corruption("line %d is registered to start at %s but starts at %s", h, coordinate, line.front()))
			}
			if !g.ends.contains(line.back(), h) {
				return nil, g.fail(corruption("line %d is not registered at its end %s", h, line.back()))
			}

			handles = append(handles, h)
		}
	}

	if len(handles) != g.reachable {
		return nil, g.fail(corruption("start index holds %d lines but %d are reachable", len(handles), g.reachable))
	}

	sort.Slice(handles, func(i, j int) bool {
		return handles[i] < handles[j]
	})

	lines := make([]tile.Line, len(handles))
	for i, h := range handles {
		lines[i] = g.lines[h].toLine()
	}

	return lines, nil
}

// Print writes the indices and their lines to the trace log.
func (g *Graph) Print() {
	if !sigolo.ShouldLogTrace() {
		return
	}

	builder := &strings.Builder{}
	printIndex(builder, g, "starting", g.starts)
	printIndex(builder, g, "ending", g.ends)
	sigolo.Tracef("Merge graph:\n%s", builder.String())
}

func printIndex(builder *strings.Builder, g *Graph, kind string, index coordinateIndex) {
	for coordinate, bucket := range index {
		builder.WriteString("  Lines " + kind + " at " + coordinate.String() + "\n")
		for _, h := range bucket {
			if h < 0 || int(h) >= len(g.lines) {
				builder.WriteString("    <invalid handle>\n")
				continue
			}
			builder.WriteString("    " + g.lines[h].toLine().String() + "\n")
		}
	}
}

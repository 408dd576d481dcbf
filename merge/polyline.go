package merge

import "roadtiles/tile"

// polyline is a double-ended point list. The head holds prepended points in reverse order, the tail holds the rest,
// so appending and prepending are both amortized O(1).
type polyline struct {
	head []tile.Coordinate
	tail []tile.Coordinate
}

func newPolyline(line tile.Line) *polyline {
	tail := make([]tile.Coordinate, len(line))
	copy(tail, line)
	return &polyline{tail: tail}
}

func (p *polyline) len() int {
	return len(p.head) + len(p.tail)
}

func (p *polyline) front() tile.Coordinate {
	if len(p.head) > 0 {
		return p.head[len(p.head)-1]
	}
	return p.tail[0]
}

func (p *polyline) back() tile.Coordinate {
	if len(p.tail) > 0 {
		return p.tail[len(p.tail)-1]
	}
	return p.head[0]
}

func (p *polyline) pushBack(c tile.Coordinate) {
	p.tail = append(p.tail, c)
}

func (p *polyline) pushFront(c tile.Coordinate) {
	p.head = append(p.head, c)
}

// appendPolyline adds all points of the other polyline, skipping the first n of them.
func (p *polyline) appendPolyline(other *polyline, skip int) {
	for i := len(other.head) - 1; i >= 0; i-- {
		if skip > 0 {
			skip--
			continue
		}
		p.tail = append(p.tail, other.head[i])
	}
	for _, c := range other.tail {
		if skip > 0 {
			skip--
			continue
		}
		p.tail = append(p.tail, c)
	}
}

func (p *polyline) toLine() tile.Line {
	line := make(tile.Line, 0, p.len())
	for i := len(p.head) - 1; i >= 0; i-- {
		line = append(line, p.head[i])
	}
	return append(line, p.tail...)
}

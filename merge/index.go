package merge

import "roadtiles/tile"

// coordinateIndex maps a coordinate to the lines starting (or ending) there. Each bucket is used as stack, the most
// recently added line is the last entry.
type coordinateIndex map[tile.Coordinate][]Handle

func (i coordinateIndex) last(c tile.Coordinate) (Handle, bool) {
	bucket, ok := i[c]
	if !ok || len(bucket) == 0 {
		return 0, false
	}
	return bucket[len(bucket)-1], true
}

func (i coordinateIndex) push(c tile.Coordinate, h Handle) {
	i[c] = append(i[c], h)
}

// pop removes the most recent entry of the bucket. Empty buckets are removed entirely.
func (i coordinateIndex) pop(c tile.Coordinate) {
	bucket := i[c]
	if len(bucket) <= 1 {
		delete(i, c)
		return
	}
	i[c] = bucket[:len(bucket)-1]
}

// remove deletes the most recent occurrence of the handle from the bucket. It returns false when the handle is not in
// the bucket.
func (i coordinateIndex) remove(c tile.Coordinate, h Handle) bool {
	bucket := i[c]
	for j := len(bucket) - 1; j >= 0; j-- {
		if bucket[j] != h {
			continue
		}

		if len(bucket) == 1 {
			delete(i, c)
		} else {
			i[c] = append(bucket[:j], bucket[j+1:]...)
		}
		return true
	}
	return false
}

func (i coordinateIndex) contains(c tile.Coordinate, h Handle) bool {
	for _, other := range i[c] {
		if other == h {
			return true
		}
	}
	return false
}

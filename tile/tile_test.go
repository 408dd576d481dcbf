package tile

import (
	"roadtiles/util"
	"testing"
)

func TestLine_FrontAndBack(t *testing.T) {
	// Arrange
	line := Line{{1, 2}, {3, 4}, {5, 6}}

	// Act & Assert
	util.AssertEqual(t, Coordinate{1, 2}, line.Front())
	util.AssertEqual(t, Coordinate{5, 6}, line.Back())
	util.AssertEqual(t, "1,2 3,4 5,6", line.String())
}

func TestLine_IsDegenerate(t *testing.T) {
	util.AssertTrue(t, Line{}.IsDegenerate())
	util.AssertTrue(t, Line{{1, 1}}.IsDegenerate())
	util.AssertFalse(t, NewLine(1, 1, 1, 1).IsDegenerate())
	util.AssertFalse(t, NewLine(1, 1, 2, 2).IsDegenerate())
}

package importing

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"roadtiles/index"
	"roadtiles/osm"
	"time"
)

// Import reads all roads from the given OSM file and builds the in-memory segment index from them.
func Import(inputFile string, cellSize float64) (*index.GridIndex, error) {
	if !osm.IsSupportedFile(inputFile) {
		return nil, errors.Errorf("Input file %s must be an .osm or .pbf file", inputFile)
	}

	sigolo.Infof("Start import of file %s", inputFile)
	importStartTime := time.Now()

	roadExtractor := osm.NewRoadExtractor()
	err := osm.NewOsmReader().Read(inputFile, roadExtractor)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to read roads from %s", inputFile)
	}

	gridIndex, err := index.NewGridIndex(roadExtractor.Segments, cellSize, cellSize)
	if err != nil {
		return nil, err
	}

	sigolo.Infof("Finished import of %d segments in %s", gridIndex.Len(), time.Since(importStartTime))

	return gridIndex, nil
}

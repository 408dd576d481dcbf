package io

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"io"
	"os"
	"roadtiles/feature"
	"time"
)

func WriteSegmentsAsGeoJsonFile(segments []feature.Segment, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "Unable to create GeoJSON file %s", filename)
	}

	defer func() {
		err = file.Close()
		sigolo.FatalCheck(errors.Wrapf(err, "Unable to close file handle for GeoJSON file %s", file.Name()))
	}()

	return WriteSegmentsAsGeoJson(segments, file)
}

// ToFeatureCollection turns every segment into a line feature. The properties contain the node IDs and the min
// visible zoom level of the segment.
func ToFeatureCollection(segments []feature.Segment) *geojson.FeatureCollection {
	featureCollection := geojson.NewFeatureCollection()
	for _, segment := range segments {
		f := geojson.NewFeature(segment.LineString())

		f.Properties["from"] = int64(segment.Nodes.From)
		f.Properties["to"] = int64(segment.Nodes.To)
		f.Properties["min_zoom"] = segment.MinVisibleZoom

		featureCollection.Features = append(featureCollection.Features, f)
	}
	return featureCollection
}

func WriteSegmentsAsGeoJson(segments []feature.Segment, writer io.Writer) error {
	sigolo.Debugf("Write %d segments to GeoJSON", len(segments))
	writeStartTime := time.Now()

	geojsonBytes, err := ToFeatureCollection(segments).MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "Unable to marshal segments to GeoJSON")
	}

	_, err = writer.Write(geojsonBytes)
	if err != nil {
		return errors.Wrap(err, "Unable to write GeoJSON")
	}

	sigolo.Debugf("Finished writing GeoJSON in %s", time.Since(writeStartTime))

	return nil
}

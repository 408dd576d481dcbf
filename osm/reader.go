package osm

import (
	"context"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
	"os"
	"strings"
	"time"
)

type OsmDataHandler interface {
	Name() string
	Init() error
	HandleNode(node *osm.Node) error
	HandleWay(way *osm.Way) error
	HandleRelation(relation *osm.Relation) error
	Done() error
}

type OsmReader struct {
	firstWayHasBeenProcessed      bool
	firstRelationHasBeenProcessed bool
}

func NewOsmReader() *OsmReader {
	return &OsmReader{}
}

// IsSupportedFile is true for OSM-XML (.osm) and protobuf (.pbf, .osm.pbf) files.
func IsSupportedFile(filename string) bool {
	return strings.HasSuffix(filename, ".osm") || strings.HasSuffix(filename, ".pbf")
}

func (r *OsmReader) Read(filename string, handlers ...OsmDataHandler) error {
	if !IsSupportedFile(filename) {
		return errors.Errorf("Input file %s must be an .osm or .pbf file", filename)
	}

	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "Unable to open OSM input file %s", filename)
	}
	defer f.Close()

	var scanner osm.Scanner
	if strings.HasSuffix(filename, ".osm") {
		scanner = osmxml.New(context.Background(), f)
	} else {
		scanner = osmpbf.New(context.Background(), f, 1)
	}

	return r.read(scanner, filename, handlers...)
}

func (r *OsmReader) read(scanner osm.Scanner, filename string, handlers ...OsmDataHandler) error {
	sigolo.Infof("Start processing OSM data file %s", filename)
	importStartTime := time.Now()

	for _, handler := range handlers {
		err := handler.Init()
		if err != nil {
			return errors.Wrapf(err, "Initializing OSM data handler '%s' failed", handler.Name())
		}
	}

	var err error

	sigolo.Debug("Start processing nodes (1/3)")
	for scanner.Scan() {
		switch osmObj := scanner.Object().(type) {
		case *osm.Node:
			for _, handler := range handlers {
				err = handler.HandleNode(osmObj)
				if err != nil {
					return errors.Wrapf(err, "Handling node %d using handler '%s' failed", osmObj.ID, handler.Name())
				}
			}
		case *osm.Way:
			if !r.firstWayHasBeenProcessed {
				sigolo.Debug("Start processing ways (2/3)")
				r.firstWayHasBeenProcessed = true
			}

			for _, handler := range handlers {
				err = handler.HandleWay(osmObj)
				if err != nil {
					return errors.Wrapf(err, "Handling way %d using handler '%s' failed", osmObj.ID, handler.Name())
				}
			}
		case *osm.Relation:
			if !r.firstRelationHasBeenProcessed {
				sigolo.Debug("Start processing relations (3/3)")
				r.firstRelationHasBeenProcessed = true
			}

			for _, handler := range handlers {
				err = handler.HandleRelation(osmObj)
				if err != nil {
					return errors.Wrapf(err, "Handling relation %d using handler '%s' failed", osmObj.ID, handler.Name())
				}
			}
		}
	}

	err = scanner.Err()
	if err != nil {
		return errors.Wrapf(err, "Unable to read OSM data from %s", filename)
	}

	for _, handler := range handlers {
		err = handler.Done()
		if err != nil {
			return errors.Wrapf(err, "Calling done function on handler '%s' failed", handler.Name())
		}
	}

	err = scanner.Close()
	if err != nil {
		return errors.Wrapf(err, "Unable to close OSM scanner")
	}

	sigolo.Infof("Done processing OSM data in %s", time.Since(importStartTime))

	return nil
}

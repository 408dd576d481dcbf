package main

import (
	"fmt"
	"github.com/alecthomas/kong"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb/maptile"
	"github.com/pkg/errors"
	"os"
	"roadtiles/assembly"
	"roadtiles/importing"
	"roadtiles/index"
	ownIo "roadtiles/io"
	"roadtiles/tile"
	"roadtiles/web"
	"strings"
)

const VERSION = "v0.1.0"

var cli struct {
	Logging string      `help:"Logging verbosity." enum:"info,debug,trace" short:"l" default:"info" env:"ROADTILES_LOGGING"`
	Version VersionFlag `help:"Print version information and quit" name:"version" short:"v"`
	Serve   struct {
		Input    string  `help:"The input file. Either .osm or .osm.pbf." placeholder:"<input-file>" arg:"" type:"existingfile" env:"ROADTILES_INPUT"`
		Port     string  `help:"The port this server should listen on." short:"p" default:"8080" env:"ROADTILES_PORT"`
		TlsCert  string  `help:"The certificate file for TLS connections." placeholder:"<cert-file>" env:"ROADTILES_TLS_CERT"`
		TlsKey   string  `help:"The private key file for TLS connections." placeholder:"<key-file>" env:"ROADTILES_TLS_KEY"`
		CellSize float64 `help:"Width and height in degree of the cells of the in-memory segment index." default:"0.05" env:"ROADTILES_CELL_SIZE"`
	} `cmd:"" help:"Imports the roads of the given OSM file and serves vector tiles of them."`
	Tile struct {
		Input    string  `help:"The input file. Either .osm or .osm.pbf." placeholder:"<input-file>" arg:"" type:"existingfile"`
		X        uint32  `help:"The x coordinate of the tile." arg:""`
		Y        uint32  `help:"The y coordinate of the tile." arg:""`
		Z        uint32  `help:"The zoom level of the tile." arg:""`
		Output   string  `help:"The output file. The raw segments are written as GeoJSON when it ends with .geojson." short:"o" default:"tile.mvt"`
		CellSize float64 `help:"Width and height in degree of the cells of the in-memory segment index." default:"0.05" env:"ROADTILES_CELL_SIZE"`
	} `cmd:"" help:"Creates a single tile from the given OSM file."`
	Inspect struct {
		File string `help:"The vector tile file to inspect." placeholder:"<tile-file>" arg:"" type:"existingfile"`
	} `cmd:"" help:"Prints the content of a vector tile created by this tool."`
}

type VersionFlag string

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(vars["version"])
	app.Exit(0)
	return nil
}

func main() {
	ctx := kong.Parse(
		&cli,
		kong.Name("roadtiles"),
		kong.Description("Serves vector tiles with the road network of an OSM file."),
		kong.Configuration(kong.JSON, "roadtiles.json", "~/.config/roadtiles.json"),
		kong.Vars{
			"version": VERSION,
		},
	)

	if strings.ToLower(cli.Logging) == "debug" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_DEBUG)
	} else if strings.ToLower(cli.Logging) == "trace" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	} else if strings.ToLower(cli.Logging) == "info" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_INFO)
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
	} else {
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
		sigolo.Fatalf("Unknown logging level '%s'", cli.Logging)
	}

	switch ctx.Command() {
	case "serve <input>":
		if (cli.Serve.TlsCert == "") != (cli.Serve.TlsKey == "") {
			sigolo.Fatalf("Either both or none of the TLS certificate and key file must be given")
		}

		segmentIndex, err := importing.Import(cli.Serve.Input, cli.Serve.CellSize)
		sigolo.FatalCheck(err)

		if cli.Serve.TlsCert != "" {
			err = web.StartServerTls(cli.Serve.Port, cli.Serve.TlsCert, cli.Serve.TlsKey, segmentIndex)
		} else {
			err = web.StartServer(cli.Serve.Port, segmentIndex)
		}
		sigolo.FatalCheck(err)
	case "tile <input> <x> <y> <z>":
		segmentIndex, err := importing.Import(cli.Tile.Input, cli.Tile.CellSize)
		sigolo.FatalCheck(err)

		t := maptile.New(cli.Tile.X, cli.Tile.Y, maptile.Zoom(cli.Tile.Z))
		err = writeTile(segmentIndex, t, cli.Tile.Output)
		sigolo.FatalCheck(err)
	case "inspect <file>":
		err := inspectTile(cli.Inspect.File)
		sigolo.FatalCheck(err)
	default:
		sigolo.Errorf("Unknown command '%s'", ctx.Command())
	}
}

func writeTile(segmentIndex index.SegmentIndex, t maptile.Tile, output string) error {
	assembler := assembly.NewAssembler(segmentIndex)

	if strings.HasSuffix(output, ".geojson") {
		segments, err := assembler.Candidates(t)
		if err != nil {
			return err
		}
		return ownIo.WriteSegmentsAsGeoJsonFile(segments, output)
	}

	result, err := assembler.Assemble(t)
	if err != nil {
		return err
	}

	err = os.WriteFile(output, result.Data, 0644)
	if err != nil {
		return errors.Wrapf(err, "Unable to write tile to %s", output)
	}

	sigolo.Infof("Wrote tile %d/%d/%d with %d features (%d bytes) to %s", t.X, t.Y, t.Z, result.Stats.Features, len(result.Data), output)
	sigolo.Debugf("Tile stats: %+v", result.Stats)
	return nil
}

func inspectTile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "Unable to read tile file %s", filename)
	}

	layer, err := tile.Decode(data)
	if err != nil {
		return errors.Wrapf(err, "Unable to decode tile file %s", filename)
	}

	fmt.Printf("Layer '%s' (version %d, extent %d) with %d features\n", layer.Name, layer.Version, layer.Extent, len(layer.Features))
	for _, f := range layer.Features {
		fmt.Printf("%d: %s\n", f.ID, f.Geometry.String())
	}

	return nil
}

package web

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/gorilla/mux"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb/maptile"
	"github.com/pkg/errors"
	"net/http"
	"os"
	"os/signal"
	"roadtiles/assembly"
	"roadtiles/index"
	ownIo "roadtiles/io"
	"roadtiles/metrics"
	"roadtiles/tile"
	"strconv"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func NewErrorResponse(message string, err error) ErrorResponse {
	response := ErrorResponse{
		Error: message,
	}
	if err != nil {
		response.Details = err.Error()
	}
	return response
}

func StartServer(port string, segmentIndex index.SegmentIndex) error {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: initRouter(segmentIndex),
	}
	sigolo.Infof("Start server without TLS support on port %s", port)
	return runUntilSignal(server, server.ListenAndServe)
}

func StartServerTls(port string, certFile string, keyFile string, segmentIndex index.SegmentIndex) error {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: initRouter(segmentIndex),
	}
	sigolo.Infof("Start server with TLS support on port %s", port)
	return runUntilSignal(server, func() error {
		return server.ListenAndServeTLS(certFile, keyFile)
	})
}

// runUntilSignal serves until SIGINT or SIGTERM arrives and then waits for running requests to finish.
func runUntilSignal(server *http.Server, listen func() error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- listen()
	}()

	select {
	case err := <-listenErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "Server stopped unexpectedly")
	case <-ctx.Done():
	}

	sigolo.Infof("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		return errors.Wrap(err, "Unable to shut down server gracefully")
	}
	return nil
}

func initRouter(segmentIndex index.SegmentIndex) *mux.Router {
	assembler := assembly.NewAssembler(segmentIndex)

	r := mux.NewRouter()
	r.Use(metrics.Middleware)

	r.HandleFunc("/tile/{x}/{y}/{z}.mvt", func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Access-Control-Allow-Origin", "*")

		t, err := tileFromRequest(request)
		if err != nil {
			writeError(writer, http.StatusBadRequest, "Invalid tile coordinate", err)
			return
		}

		result, err := assembler.Assemble(t)
		if err != nil {
			writeAssemblyError(writer, err)
			return
		}

		metrics.ObserveTile(result)

		writer.Header().Set("Content-Type", tile.ContentType)
		writer.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
		_, err = writer.Write(result.Data)
		if err != nil {
			sigolo.Errorf("Error writing tile %d/%d/%d: %+v", t.X, t.Y, t.Z, err)
			return
		}

		sigolo.Infof("GET /%d/%d/%d.mvt - %d bytes", t.X, t.Y, t.Z, len(result.Data))
		sigolo.Debugf("Tile %d/%d/%d stats: %+v", t.X, t.Y, t.Z, result.Stats)
	}).Methods(http.MethodGet)

	r.HandleFunc("/tile/{x}/{y}/{z}.geojson", func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Access-Control-Allow-Origin", "*")

		t, err := tileFromRequest(request)
		if err != nil {
			writeError(writer, http.StatusBadRequest, "Invalid tile coordinate", err)
			return
		}

		segments, err := assembler.Candidates(t)
		if err != nil {
			writeAssemblyError(writer, err)
			return
		}

		writer.Header().Set("Content-Type", "application/geo+json")
		err = ownIo.WriteSegmentsAsGeoJson(segments, writer)
		if err != nil {
			sigolo.Errorf("Error writing GeoJSON of tile %d/%d/%d: %+v", t.X, t.Y, t.Z, err)
			return
		}

		sigolo.Infof("GET /%d/%d/%d.geojson - %d segments", t.X, t.Y, t.Z, len(segments))
	}).Methods(http.MethodGet)

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		sigolo.Debugf("No route for %s %s", request.Method, request.URL.Path)
		writer.Header().Set("Content-Type", "text/plain")
		writer.WriteHeader(http.StatusNotFound)
		_, _ = writer.Write([]byte("Not found"))
	})

	return r
}

func tileFromRequest(request *http.Request) (maptile.Tile, error) {
	vars := mux.Vars(request)

	var coordinates [3]uint32
	for i, name := range []string{"x", "y", "z"} {
		value, err := strconv.ParseUint(vars[name], 10, 32)
		if err != nil {
			return maptile.Tile{}, errors.Wrapf(err, "Unable to parse %s coordinate '%s'", name, vars[name])
		}
		coordinates[i] = uint32(value)
	}

	t := maptile.New(coordinates[0], coordinates[1], maptile.Zoom(coordinates[2]))
	return t, assembly.ValidateTile(t)
}

func writeAssemblyError(writer http.ResponseWriter, err error) {
	var invalidTileError *assembly.InvalidTileError
	if errors.As(err, &invalidTileError) {
		writeError(writer, http.StatusBadRequest, "Invalid tile coordinate", err)
		return
	}
	writeError(writer, http.StatusInternalServerError, "Error creating tile", err)
}

func writeError(writer http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		sigolo.Errorf("%s: %+v", message, err)
	} else {
		sigolo.Debugf("%s: %s", message, err.Error())
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	errorResponseBytes, err := json.Marshal(NewErrorResponse(fmt.Sprintf("%s: %s", message, err.Error()), err))
	if err != nil {
		sigolo.Errorf("Error creating and marshalling error response object: %+v", err)
	}

	_, err = writer.Write(errorResponseBytes)
	if err != nil {
		sigolo.Errorf("Error writing error response: %+v", err)
	}
}

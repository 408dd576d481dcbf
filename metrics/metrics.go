package metrics

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"roadtiles/assembly"
	"strconv"
	"time"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roadtiles",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "roadtiles",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route"})

	tileSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "roadtiles",
		Subsystem: "tile",
		Name:      "size_bytes",
		Help:      "Size of the encoded tiles in bytes",
		Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
	})

	tileFeatures = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "roadtiles",
		Subsystem: "tile",
		Name:      "features",
		Help:      "Number of line features per tile",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})

	tileSegments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roadtiles",
		Subsystem: "tile",
		Name:      "segments_total",
		Help:      "Total segments processed during tile assembly by outcome",
	}, []string{"outcome"})
)

// ObserveTile records the size and the assembly statistics of one created tile.
func ObserveTile(result *assembly.Result) {
	tileSize.Observe(float64(len(result.Data)))
	tileFeatures.Observe(float64(result.Stats.Features))

	tileSegments.WithLabelValues("candidate").Add(float64(result.Stats.Candidates))
	tileSegments.WithLabelValues("degenerate").Add(float64(result.Stats.Degenerate))
	tileSegments.WithLabelValues("rejected").Add(float64(result.Stats.Rejected))
	tileSegments.WithLabelValues("merged").Add(float64(result.Stats.Merged))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records count and latency of requests. Requests are labeled by their route template to keep the
// cardinality low.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

		next.ServeHTTP(recorder, request)

		route := routeOf(request)
		httpRequestsTotal.WithLabelValues(request.Method, route, strconv.Itoa(recorder.status)).Inc()
		httpRequestDuration.WithLabelValues(request.Method, route).Observe(time.Since(start).Seconds())
	})
}

func routeOf(request *http.Request) string {
	route := mux.CurrentRoute(request)
	if route == nil {
		return "unknown"
	}

	template, err := route.GetPathTemplate()
	if err != nil {
		return "unknown"
	}
	return template
}

// Handler serves all registered metrics in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

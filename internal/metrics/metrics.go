package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Generations
	Runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdcpp_generations_total",
			Help: "Number of sd runs by mode and result",
		},
		[]string{"mode", "result"}, // mode: txt2img|img2img|convert, result: ok|failed|killed
	)
	RunDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sdcpp_generation_duration_seconds",
			Help:    "Wall time of sd runs",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1s..512s
		},
		[]string{"mode"},
	)
	ActiveRuns = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sdcpp_generation_active",
			Help: "1 while an sd process is running",
		},
	)

	// Gallery
	GalleryReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdcpp_gallery_reloads_total",
			Help: "Gallery folder rescans",
		},
		[]string{"target"},
	)

	// Websockets
	ProgressClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sdcpp_progress_clients",
			Help: "Open progress websocket connections",
		},
	)

	// Errors
	Errors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdcpp_errors_total",
			Help: "Errors encountered in components",
		},
		[]string{"component", "type"},
	)
)

func init() {
	prometheus.MustRegister(
		Runs,
		RunDurationSeconds,
		ActiveRuns,
		GalleryReloads,
		ProgressClients,
		Errors,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Generations
func IncRun(mode, result string) {
	Runs.WithLabelValues(mode, result).Inc()
}

func ObserveRunDuration(mode string, d time.Duration) {
	RunDurationSeconds.WithLabelValues(mode).Observe(d.Seconds())
}

func SetActiveRuns(n int) {
	ActiveRuns.Set(float64(n))
}

// Gallery
func IncGalleryReload(target string) {
	GalleryReloads.WithLabelValues(target).Inc()
}

// Websockets
func IncProgressClients() {
	ProgressClients.Inc()
}

func DecProgressClients() {
	ProgressClients.Dec()
}

// Errors
func IncError(component, typ string) {
	Errors.WithLabelValues(component, typ).Inc()
}

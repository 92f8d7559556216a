// Package metrics is the single place that touches the Prometheus client. Every
// collector is registered with the default registry and served by Handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	FieldErrorCode = "error_code"

	ValueNoError = ""
)

// Namespace and subsystems. Full names read dbperf_<subsystem>_<name>.
const (
	Namespace    = "dbperf"
	SubIngestion = "ingestion"
	SubInsights  = "insights"
	SubReports   = "reports"
	SubStream    = "stream"
	SubHTTP      = "http"
)

type (
	CounterOpts   = prometheus.CounterOpts
	HistogramOpts = prometheus.HistogramOpts
	GaugeOpts     = prometheus.GaugeOpts
)

// DefBuckets suits latencies in seconds.
var DefBuckets = prometheus.DefBuckets

// ExponentialBuckets suits sizes, e.g. artifact bytes.
var ExponentialBuckets = prometheus.ExponentialBuckets

var (
	NewCounterVec   = promauto.NewCounterVec
	NewHistogramVec = promauto.NewHistogramVec
	NewGaugeVec     = promauto.NewGaugeVec
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

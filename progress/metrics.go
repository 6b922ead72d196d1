package progress

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics for a build.
type Metrics struct {
	BytesExtended prometheus.Counter
	Records       prometheus.Gauge
	Runs          prometheus.Gauge
	BuildSeconds  prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	bytesExtended := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "onptbwt_bytes_extended_total",
		Help: "Total bytes fed to the transform",
	})

	records := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "onptbwt_records_total",
		Help: "Records fed to the transform so far",
	})

	runs := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "onptbwt_runs",
		Help: "Runs in the finished transform",
	})

	buildSeconds := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "onptbwt_build_seconds",
		Help: "Wall clock time spent building the transform",
	})

	reg.MustRegister(bytesExtended, records, runs, buildSeconds)

	return &Metrics{
		BytesExtended: bytesExtended,
		Records:       records,
		Runs:          runs,
		BuildSeconds:  buildSeconds,
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for the fraud ring analytics service.
type Collector struct {
	// Request counters
	uploadRequests prometheus.Counter
	sampleRequests prometheus.Counter
	uploadErrors   prometheus.Counter

	// Report counters
	ringsDetectedTotal prometheus.Counter

	// Report histograms
	reportDuration         prometheus.Histogram
	reportAccountsAnalyzed prometheus.Histogram

	// Detector result gauges, set per request from the batch's summary
	lastCyclesFound      prometheus.Gauge
	lastSmurfingFound    prometheus.Gauge
	lastShellChainsFound prometheus.Gauge
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		uploadRequests: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "fraudring",
			Name:      "upload_requests_total",
			Help:      "Total number of CSV report upload requests",
		}),
		sampleRequests: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "fraudring",
			Name:      "sample_requests_total",
			Help:      "Total number of synthetic sample report requests",
		}),
		uploadErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "fraudring",
			Name:      "upload_errors_total",
			Help:      "Total number of rejected CSV report uploads",
		}),
		ringsDetectedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "fraudring",
			Name:      "report_rings_detected_total",
			Help:      "Total number of fraud rings detected across all reports",
		}),
		reportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fraudring",
			Name:      "report_duration_seconds",
			Help:      "Time to run a transaction batch through the analytics core",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30},
		}),
		reportAccountsAnalyzed: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fraudring",
			Name:      "report_accounts_analyzed",
			Help:      "Number of distinct accounts seen in a processed batch",
			Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
		}),
		lastCyclesFound: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "fraudring",
			Name:      "last_cycles_found",
			Help:      "Cycles found in the most recently processed batch",
		}),
		lastSmurfingFound: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "fraudring",
			Name:      "last_smurfing_hubs_found",
			Help:      "Smurfing hubs found in the most recently processed batch",
		}),
		lastShellChainsFound: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "fraudring",
			Name:      "last_shell_chains_found",
			Help:      "Shell chains found in the most recently processed batch",
		}),
	}
}

// IncrementCounter increments the named counter metric.
func (c *Collector) IncrementCounter(name string) {
	c.IncrementCounterBy(name, 1)
}

// IncrementCounterBy adds value to the named counter metric.
func (c *Collector) IncrementCounterBy(name string, value float64) {
	switch name {
	case "upload_requests_total":
		c.uploadRequests.Add(value)
	case "sample_requests_total":
		c.sampleRequests.Add(value)
	case "upload_errors_total":
		c.uploadErrors.Add(value)
	case "report_rings_detected_total":
		c.ringsDetectedTotal.Add(value)
	}
}

// ObserveHistogram records value against the named histogram metric.
func (c *Collector) ObserveHistogram(name string, value float64) {
	switch name {
	case "report_duration_seconds":
		c.reportDuration.Observe(value)
	case "report_accounts_analyzed":
		c.reportAccountsAnalyzed.Observe(value)
	}
}

// SetGauge sets the named gauge metric to value.
func (c *Collector) SetGauge(name string, value float64) {
	switch name {
	case "last_cycles_found":
		c.lastCyclesFound.Set(value)
	case "last_smurfing_hubs_found":
		c.lastSmurfingFound.Set(value)
	case "last_shell_chains_found":
		c.lastShellChainsFound.Set(value)
	}
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// rechunking run.
type Metrics struct {
	CellsProcessed    prometheus.Counter
	CellsFailed       prometheus.Counter
	RowsWritten       prometheus.Counter
	YearsConsolidated prometheus.Counter
	EventsPublished   prometheus.Counter
	RunActive         prometheus.Gauge

	ExtractDuration prometheus.Histogram // one (cell, year) extraction
	CellDuration    prometheus.Histogram // one complete cell, all years
}

// NewMetrics creates and registers all run metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CellsProcessed,
		m.CellsFailed,
		m.RowsWritten,
		m.YearsConsolidated,
		m.EventsPublished,
		m.RunActive,
		m.ExtractDuration,
		m.CellDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CellsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "era5_rechunk",
			Name:      "cells_processed_total",
			Help:      "Cells whose daily series was written successfully.",
		}),
		CellsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "era5_rechunk",
			Name:      "cells_failed_total",
			Help:      "Cells skipped after an extraction or write failure.",
		}),
		RowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "era5_rechunk",
			Name:      "rows_written_total",
			Help:      "Daily records written across all cell files.",
		}),
		YearsConsolidated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "era5_rechunk",
			Name:      "years_consolidated_total",
			Help:      "Years assembled from monthly archives this run.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "era5_rechunk",
			Name:      "events_published_total",
			Help:      "Cell completion events published to the sink topic.",
		}),
		RunActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "era5_rechunk",
			Name:      "run_active",
			Help:      "1 while a rechunking run is in progress.",
		}),
		ExtractDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "era5_rechunk",
			Name:      "extract_duration_seconds",
			Help:      "Duration of one single-cell, single-year extraction.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		CellDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "era5_rechunk",
			Name:      "cell_duration_seconds",
			Help:      "Duration of one complete cell across all years.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}),
	}
}

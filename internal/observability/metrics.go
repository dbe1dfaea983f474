// Package observability provides Prometheus metrics for the tracker.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the
// scrape-and-ingest pipeline.
type Metrics struct {
	ObservationsScraped prometheus.Counter
	ScrapeFailures      prometheus.Counter

	BronzeInserted   prometheus.Counter
	BronzeDuplicates prometheus.Counter
	SilverNew        prometheus.Counter
	SilverUpdated    prometheus.Counter
	RevisionsFlagged prometheus.Counter

	IngestDuration prometheus.Histogram
}

// NewMetrics creates all pipeline metrics and registers them with the
// default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ObservationsScraped,
		m.ScrapeFailures,
		m.BronzeInserted,
		m.BronzeDuplicates,
		m.SilverNew,
		m.SilverUpdated,
		m.RevisionsFlagged,
		m.IngestDuration,
	)
	return m
}

// NewUnregisteredMetrics creates Metrics backed by fresh, unregistered
// collectors. Used as the default when no metrics are injected and in tests,
// where registering twice on the default registry would panic.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ObservationsScraped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_tracker",
			Name:      "observations_scraped_total",
			Help:      "Total observations parsed from the KOERI list page.",
		}),
		ScrapeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_tracker",
			Name:      "scrape_failures_total",
			Help:      "Total fetch attempts that failed after all retries.",
		}),
		BronzeInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_tracker",
			Name:      "bronze_inserted_total",
			Help:      "Total new rows written to the bronze layer.",
		}),
		BronzeDuplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_tracker",
			Name:      "bronze_duplicates_total",
			Help:      "Total observations skipped as content-hash duplicates.",
		}),
		SilverNew: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_tracker",
			Name:      "silver_new_total",
			Help:      "Total events first seen by the silver layer.",
		}),
		SilverUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_tracker",
			Name:      "silver_updated_total",
			Help:      "Total silver records overwritten by the merge pass.",
		}),
		RevisionsFlagged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_tracker",
			Name:      "revisions_flagged_total",
			Help:      "Total updates triggered by a meaningful ml-magnitude change.",
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_tracker",
			Name:      "ingest_duration_seconds",
			Help:      "Duration of a complete bronze-then-silver ingestion run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

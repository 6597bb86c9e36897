package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nbrb_rates"

type Metrics struct {
	Imports            *prometheus.CounterVec
	RatesInserted      prometheus.Counter
	CurrenciesInserted prometheus.Counter
	CatalogRepairs     prometheus.Counter
	UpstreamDuration   *prometheus.HistogramVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Rate imports by outcome.",
		}, []string{"outcome"}),
		RatesInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rates_inserted_total",
			Help:      "Rate rows written to the store.",
		}),
		CurrenciesInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "currencies_inserted_total",
			Help:      "Catalog rows written to the store.",
		}),
		CatalogRepairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_repairs_total",
			Help:      "Catalog repairs triggered by unknown currency ids.",
		}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "NBRB API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "status"}),
	}

	reg.MustRegister(
		m.Imports,
		m.RatesInserted,
		m.CurrenciesInserted,
		m.CatalogRepairs,
		m.UpstreamDuration,
	)
	return m
}

func (m *Metrics) ObserveUpstream(endpoint string, status int, started time.Time) {
	if m == nil {
		return
	}
	m.UpstreamDuration.WithLabelValues(endpoint, strconv.Itoa(status)).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveImport(outcome string, inserted int64) {
	if m == nil {
		return
	}
	m.Imports.WithLabelValues(outcome).Inc()
	if inserted > 0 {
		m.RatesInserted.Add(float64(inserted))
	}
}

func (m *Metrics) ObserveCatalog(inserted int64, repair bool) {
	if m == nil {
		return
	}
	if repair {
		m.CatalogRepairs.Inc()
	}
	if inserted > 0 {
		m.CurrenciesInserted.Add(float64(inserted))
	}
}

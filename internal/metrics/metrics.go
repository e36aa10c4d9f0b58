package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"DCADashboard/internal/model"
)

// Recorder publishes evaluation results and fetch health as Prometheus metrics.
type Recorder struct {
	allocation     *prometheus.GaugeVec
	composite      *prometheus.GaugeVec
	percentChange  *prometheus.GaugeVec
	available      *prometheus.GaugeVec
	macroValue     *prometheus.GaugeVec
	arbitrage      *prometheus.GaugeVec
	rebalance      prometheus.Gauge
	fetchErrors    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	lastRefreshSec prometheus.Gauge
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		allocation: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dca",
			Name:      "allocation_percent",
			Help:      "Allocated share of total capital per asset",
		}, []string{"asset"}),
		composite: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dca",
			Name:      "composite_score",
			Help:      "Sum of window trend weights per asset",
		}, []string{"asset"}),
		percentChange: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dca",
			Name:      "percent_change",
			Help:      "Last daily percent change per asset",
		}, []string{"asset"}),
		available: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dca",
			Name:      "asset_available",
			Help:      "1 when price data was available for the asset",
		}, []string{"asset"}),
		macroValue: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dca",
			Name:      "macro_value",
			Help:      "Latest macro indicator value",
		}, []string{"indicator"}),
		arbitrage: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dca",
			Name:      "arbitrage_alerts",
			Help:      "Arbitrage alerts raised in the latest evaluation by threshold",
		}, []string{"threshold"}),
		rebalance: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "dca",
			Name:      "rebalance_alerts",
			Help:      "Rebalance alerts raised in the latest evaluation",
		}),
		fetchErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dca",
			Name:      "fetch_errors_total",
			Help:      "Failed series fetches by provider and kind",
		}, []string{"provider", "kind"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dca",
			Name:      "operation_duration_seconds",
			Help:      "Duration of refresh and evaluation operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		lastRefreshSec: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "dca",
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the last completed refresh",
		}),
	}
}

// RecordEvaluation replaces the per-asset gauges with the values of eval.
func (r *Recorder) RecordEvaluation(eval *model.Evaluation) {
	r.arbitrage.Reset()
	for _, a := range eval.Assets {
		r.allocation.WithLabelValues(a.Name).Set(a.Allocation)
		r.composite.WithLabelValues(a.Name).Set(a.CompositeScore)
		r.percentChange.WithLabelValues(a.Name).Set(a.PercentChange)
		avail := 0.0
		if a.Available {
			avail = 1
		}
		r.available.WithLabelValues(a.Name).Set(avail)
	}
	for _, m := range eval.Macro {
		if m.Available {
			r.macroValue.WithLabelValues(m.Label).Set(m.Value)
		} else {
			r.macroValue.DeleteLabelValues(m.Label)
		}
	}
	for _, t := range eval.Arbitrage {
		r.arbitrage.WithLabelValues(strconv.FormatFloat(t.Threshold, 'f', -1, 64)).Set(float64(len(t.Alerts)))
	}
	r.rebalance.Set(float64(len(eval.Rebalance)))
	if !eval.AsOf.IsZero() {
		r.lastRefreshSec.Set(float64(eval.AsOf.Unix()))
	}
}

// RecordFetchError counts a failed fetch.
func (r *Recorder) RecordFetchError(provider, kind string) {
	r.fetchErrors.WithLabelValues(provider, kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

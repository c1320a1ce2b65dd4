package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type IMetrics interface {
	RecordTurn(intent, channel string, elapsed time.Duration)
	RecordStoreError(op string)
	RecordCatalogRefresh(hotels int, err error)
	Handler() http.Handler
}

type metrics struct {
	registry       *prometheus.Registry
	turns          *prometheus.CounterVec
	turnDuration   *prometheus.HistogramVec
	storeErrors    *prometheus.CounterVec
	catalogHotels  prometheus.Gauge
	catalogRefresh *prometheus.CounterVec
}

// New builds the collectors on a private registry so tests can create as
// many as they like.
func New() IMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		turns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "assistant_turns_total",
			Help: "Utterances processed by intent and channel",
		}, []string{"intent", "channel"}),
		turnDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assistant_turn_duration_seconds",
			Help:    "Time spent processing one utterance including context load and save",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"channel"}),
		storeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "assistant_context_store_errors_total",
			Help: "Context store failures by operation",
		}, []string{"op"}),
		catalogHotels: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hotel_catalog_hotels",
			Help: "Hotels in the current catalog snapshot",
		}),
		catalogRefresh: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hotel_catalog_refresh_total",
			Help: "Catalog refresh attempts by result",
		}, []string{"result"}),
	}
}

func (m *metrics) RecordTurn(intent, channel string, elapsed time.Duration) {
	channel = normalizeChannelLabel(channel)
	m.turns.WithLabelValues(strings.ToUpper(intent), channel).Inc()
	m.turnDuration.WithLabelValues(channel).Observe(elapsed.Seconds())
}

func (m *metrics) RecordStoreError(op string) {
	m.storeErrors.WithLabelValues(op).Inc()
}

func (m *metrics) RecordCatalogRefresh(hotels int, err error) {
	if err != nil {
		m.catalogRefresh.WithLabelValues("error").Inc()
		return
	}
	m.catalogRefresh.WithLabelValues("ok").Inc()
	m.catalogHotels.Set(float64(hotels))
}

func (m *metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func normalizeChannelLabel(channel string) string {
	switch strings.ToLower(strings.TrimSpace(channel)) {
	case "chat", "voice":
		return strings.ToLower(strings.TrimSpace(channel))
	default:
		return "unknown"
	}
}

type noop struct{}

// Noop discards everything. Used where metrics are optional.
func Noop() IMetrics { return noop{} }

func (noop) RecordTurn(string, string, time.Duration) {}
func (noop) RecordStoreError(string)                  {}
func (noop) RecordCatalogRefresh(int, error)          {}
func (noop) Handler() http.Handler                    { return http.NotFoundHandler() }

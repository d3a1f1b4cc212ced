package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use as a nil pointer; every recorder is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	Requests            *prometheus.CounterVec
	LatencyMS           *prometheus.HistogramVec
	CatalogItems        prometheus.Gauge
	CatalogRows         *prometheus.CounterVec
	CatalogReloadErrors prometheus.Counter
	OrdersPlaced        prometheus.Counter
	OrderRejections     *prometheus.CounterVec
	PersistenceFailures prometheus.Counter
	OrderTotal          prometheus.Histogram
}

func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tablebook",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tablebook",
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
		CatalogItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tablebook",
			Subsystem: "menu",
			Name:      "catalog_items",
			Help:      "Items in the catalog currently served.",
		}),
		CatalogRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tablebook",
			Subsystem: "menu",
			Name:      "rows_total",
			Help:      "Sheet rows read, by outcome.",
		}, []string{"outcome"}),
		CatalogReloadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tablebook",
			Subsystem: "menu",
			Name:      "reload_errors_total",
			Help:      "Catalog reloads that kept the previous catalog.",
		}),
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tablebook",
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Orders appended to the order log.",
		}),
		OrderRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tablebook",
			Subsystem: "orders",
			Name:      "rejected_total",
			Help:      "Order attempts rejected by validation, by kind.",
		}, []string{"kind"}),
		PersistenceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tablebook",
			Subsystem: "orders",
			Name:      "persistence_failures_total",
			Help:      "Validated orders the sink failed to append.",
		}),
		OrderTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tablebook",
			Subsystem: "orders",
			Name:      "total_amount",
			Help:      "Order totals in the menu currency.",
			Buckets:   []float64{100, 250, 500, 1000, 2500, 5000, 10000},
		}),
	}

	registry.MustRegister(
		m.Requests,
		m.LatencyMS,
		m.CatalogItems,
		m.CatalogRows,
		m.CatalogReloadErrors,
		m.OrdersPlaced,
		m.OrderRejections,
		m.PersistenceFailures,
		m.OrderTotal,
	)
	return m
}

// CatalogLoaded records a successful build: rows that became catalog items
// are "kept", every other row (skipped, unavailable, overridden) is "dropped".
func (m *Metrics) CatalogLoaded(items, rows int) {
	if m == nil {
		return
	}
	m.CatalogItems.Set(float64(items))
	m.CatalogRows.WithLabelValues("kept").Add(float64(items))
	m.CatalogRows.WithLabelValues("dropped").Add(float64(rows - items))
}

func (m *Metrics) CatalogReloadFailed() {
	if m == nil {
		return
	}
	m.CatalogReloadErrors.Inc()
}

func (m *Metrics) OrderPlaced(total float64) {
	if m == nil {
		return
	}
	m.OrdersPlaced.Inc()
	m.OrderTotal.Observe(total)
}

func (m *Metrics) OrderRejected(kind string) {
	if m == nil {
		return
	}
	m.OrderRejections.WithLabelValues(kind).Inc()
}

func (m *Metrics) PersistenceFailed() {
	if m == nil {
		return
	}
	m.PersistenceFailures.Inc()
}

// Middleware records request counts and latency per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

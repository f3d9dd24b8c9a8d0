package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the request and sales collectors of one process. It is
// built once at startup and handed to whoever records or exposes it.
type Metrics struct {
	registry       *prometheus.Registry
	requestCount   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	saleCount      prometheus.Counter
}

// New registers the collectors on a fresh registry. withRuntime adds the
// Go runtime and process collectors, which tests usually leave out.
func New(withRuntime bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "endpoint", "http_status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_latency_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		saleCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sales_total",
			Help: "Total sales recorded",
		}),
	}
	m.registry.MustRegister(m.requestCount, m.requestLatency, m.saleCount)
	if withRuntime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry is the gatherer behind Handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// IncSale records one persisted sale.
func (m *Metrics) IncSale() {
	m.saleCount.Inc()
}

// ObserveRequest records the outcome and latency of one request.
func (m *Metrics) ObserveRequest(method, endpoint string, status int, elapsed time.Duration) {
	m.requestLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	m.requestCount.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
}

// Handler serves the text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})
}

// Wrap decorates next so that every call is counted and timed under
// endpoint. Errors returned by next are resolved through the echo error
// handler first so the recorded status is the one the client sees.
func (m *Metrics) Wrap(endpoint string, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		m.ObserveRequest(c.Request().Method, endpoint, c.Response().Status, time.Since(start))
		return nil
	}
}

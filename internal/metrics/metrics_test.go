package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncSale(t *testing.T) {
	m := New(false)
	m.IncSale()
	m.IncSale()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.saleCount))
}

func TestObserveRequest(t *testing.T) {
	m := New(false)
	m.ObserveRequest(http.MethodGet, "/products", 200, 15*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/products", 200, 5*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "/products", 400, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/products", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("POST", "/products", "400")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestLatency))
}

func TestWrapRecordsResolvedStatus(t *testing.T) {
	m := New(false)
	e := echo.New()

	ok := m.Wrap("/ok", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	})
	failing := m.Wrap("/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "missing")
	})
	broken := m.Wrap("/broken", func(c echo.Context) error {
		return errors.New("boom")
	})

	for _, h := range []echo.HandlerFunc{ok, failing, broken} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, h(e.NewContext(req, rec)))
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/ok", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/fail", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/broken", "500")))
}

func TestHandlerExposition(t *testing.T) {
	m := New(false)
	m.IncSale()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "sales_total 1"), body)
	assert.Contains(t, body, "# TYPE sales_total counter")
}

func TestRegistryGathersOwnCollectors(t *testing.T) {
	m := New(false)
	m.IncSale()
	m.ObserveRequest(http.MethodGet, "/sales", 200, time.Millisecond)

	n, err := testutil.GatherAndCount(m.Registry(), "sales_total", "http_requests_total", "http_request_latency_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	withRuntime, err := New(true).Registry().Gather()
	require.NoError(t, err)
	assert.Greater(t, len(withRuntime), 3)
}

package webserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/salesledger/internal/metrics"
)

type echoPayload struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"gt=0"`
}

func newTestServer() (*WebServer, *metrics.Metrics) {
	m := metrics.New(false)
	s := NewWebServer(m, false)
	s.POST("/echo", func(c echo.Context) error {
		var p echoPayload
		if err := c.Bind(&p); err != nil {
			return err
		}
		if err := c.Validate(&p); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return c.JSON(http.StatusCreated, p)
	})
	s.GET("/panic", func(c echo.Context) error {
		panic("boom")
	})
	return s, m
}

func do(s *WebServer, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestJSONRoundTrip(t *testing.T) {
	s, _ := newTestServer()
	rec := do(s, http.MethodPost, "/echo", `{"name":"Apple","price":1.5}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"name":"Apple","price":1.5}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestMalformedJSON(t *testing.T) {
	s, _ := newTestServer()
	rec := do(s, http.MethodPost, "/echo", `{"name":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"INVALID_REQUEST"`)
}

func TestValidationFailure(t *testing.T) {
	s, _ := newTestServer()
	rec := do(s, http.MethodPost, "/echo", `{"name":"","price":0}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Name")
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer()
	rec := do(s, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)
}

func TestPanicRecovered(t *testing.T) {
	s, _ := newTestServer()
	rec := do(s, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRoutesAreInstrumented(t *testing.T) {
	s, m := newTestServer()
	do(s, http.MethodPost, "/echo", `{"name":"Apple","price":1.5}`)
	do(s, http.MethodPost, "/echo", `{"name":"","price":0}`)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{endpoint="/echo",http_status="201",method="POST"} 1`)
	assert.Contains(t, body, `http_requests_total{endpoint="/echo",http_status="422",method="POST"} 1`)
	assert.Contains(t, body, `http_request_latency_seconds_count{endpoint="/echo"} 2`)
}

func TestTypeMismatchIsUnprocessable(t *testing.T) {
	s, _ := newTestServer()
	rec := do(s, http.MethodPost, "/echo", `{"name":"Apple","price":"cheap"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"VALIDATION_ERROR"`)
}

func TestUnknownRouteIsCounted(t *testing.T) {
	s, m := newTestServer()
	do(s, http.MethodGet, "/nope", "")
	do(s, http.MethodGet, "/nope/deeper", "")

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range families {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["endpoint"] == UnmatchedEndpoint && labels["http_status"] == "404" {
				found = true
				assert.Equal(t, 2.0, metric.GetCounter().GetValue())
			}
		}
	}
	assert.True(t, found, "no unmatched 404 series")
}

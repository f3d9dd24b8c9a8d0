package webserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/talkincode/salesledger/internal/metrics"
	"go.uber.org/zap"
)

// UnmatchedEndpoint labels requests for paths no route serves.
const UnmatchedEndpoint = "unmatched"

// WebServer owns the echo instance. Every route registered through it is
// wrapped with the request counter and latency histogram.
type WebServer struct {
	root    *echo.Echo
	metrics *metrics.Metrics
}

// NewWebServer builds the echo instance with JSON, validation, request
// logging and panic recovery. m must not be nil.
func NewWebServer(m *metrics.Metrics, debug bool) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = debug
	e.JSONSerializer = NewJSONSerializer()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = errorHandler
	if debug {
		e.Logger.SetLevel(log.DEBUG)
	} else {
		e.Logger.SetLevel(log.INFO)
	}

	e.Use(middleware.RequestID())
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			zap.L().Error("handler panic", zap.Error(err), zap.ByteString("stack", stack))
			return err
		},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			zap.L().Info("http request", fields...)
			return nil
		},
	}))

	// unmatched paths share one label to keep the series bounded
	e.RouteNotFound("/*", m.Wrap(UnmatchedEndpoint, func(c echo.Context) error {
		return echo.ErrNotFound
	}))

	return &WebServer{root: e, metrics: m}
}

// Echo exposes the underlying instance, mainly for tests.
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// Handle registers h for method and path. path doubles as the endpoint
// label of the request metrics.
func (s *WebServer) Handle(method, path string, h echo.HandlerFunc) {
	s.root.Add(method, path, s.metrics.Wrap(path, h))
}

func (s *WebServer) GET(path string, h echo.HandlerFunc) {
	s.Handle(http.MethodGet, path, h)
}

func (s *WebServer) POST(path string, h echo.HandlerFunc) {
	s.Handle(http.MethodPost, path, h)
}

// Start serves on addr until Shutdown is called.
func (s *WebServer) Start(addr string) error {
	zap.S().Infof("Start http server at %s", addr)
	err := s.root.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for in-flight ones, up to
// timeout.
func (s *WebServer) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.root.Shutdown(ctx)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler renders errors that reach echo in the API error shape.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	body := errorBody{Code: "INTERNAL_ERROR", Message: http.StatusText(status)}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		body.Code = codeForStatus(status)
		if msg, ok := he.Message.(string); ok {
			body.Message = msg
		} else {
			body.Message = http.StatusText(status)
		}
	} else {
		zap.L().Error("unhandled error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		zap.L().Error("failed to write error response", zap.Error(err))
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusBadRequest:
		return "INVALID_REQUEST"
	case http.StatusUnsupportedMediaType:
		return "UNSUPPORTED_MEDIA_TYPE"
	case http.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	default:
		if status >= 500 {
			return "INTERNAL_ERROR"
		}
		return "REQUEST_ERROR"
	}
}

package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/salesledger/internal/webserver"
)

func (h *Handlers) registerSystemRoutes(s *webserver.WebServer) {
	s.GET("/healthz", healthz)
	s.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))
}

func healthz(c echo.Context) error {
	return ok(c, http.StatusOK, map[string]string{"status": "ok"})
}

package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/salesledger/internal/domain"
	"github.com/talkincode/salesledger/internal/webserver"
)

type dailyReportResponse struct {
	Date         string  `json:"date"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalItems   int64   `json:"total_items"`
}

func (h *Handlers) registerReportRoutes(s *webserver.WebServer) {
	s.GET("/reports/daily", h.dailyReport)
}

// dailyReport accepts the day as ?date=YYYY-MM-DD, or ?d= for short.
// Without either it reports on the server's current date.
func (h *Handlers) dailyReport(c echo.Context) error {
	raw := strings.TrimSpace(c.QueryParam("date"))
	if raw == "" {
		raw = strings.TrimSpace(c.QueryParam("d"))
	}

	var day *time.Time
	if raw != "" {
		d, err := domain.ParseDate(raw, time.Local)
		if err != nil {
			return handleValidationError(c, err)
		}
		day = &d
	}

	rep, err := h.reports.DailyReport(c.Request().Context(), day)
	if err != nil {
		return handleServiceError(c, err, "build daily report")
	}
	return ok(c, http.StatusOK, dailyReportResponse{
		Date:         rep.Date.Format(domain.DateLayout),
		TotalRevenue: rep.TotalRevenue,
		TotalItems:   rep.TotalItems,
	})
}

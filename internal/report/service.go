package report

import (
	"context"
	"time"

	"github.com/talkincode/salesledger/internal/domain"
	"go.uber.org/zap"
)

// SalesSummer totals the sales created within an inclusive time range.
type SalesSummer interface {
	SumBetween(ctx context.Context, start, end time.Time) (revenue float64, items int64, err error)
}

// Service builds daily revenue reports.
type Service struct {
	sales SalesSummer
	now   func() time.Time
}

// NewService creates a report service. A nil clock means time.Now.
func NewService(sales SalesSummer, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{sales: sales, now: now}
}

// DailyReport sums the sales of day's calendar date. A nil day means the
// current date of the server clock. Only store failures are returned.
func (s *Service) DailyReport(ctx context.Context, day *time.Time) (*domain.DailyReport, error) {
	d := s.now()
	if day != nil {
		d = *day
	}
	start, end := domain.DayBounds(d)

	revenue, items, err := s.sales.SumBetween(ctx, start, end)
	if err != nil {
		zap.L().Error("daily report query failed", zap.Time("day", start), zap.Error(err))
		return nil, err
	}
	return &domain.DailyReport{
		Date:         start,
		TotalRevenue: revenue,
		TotalItems:   items,
	}, nil
}

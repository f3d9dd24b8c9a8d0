package ledger

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/talkincode/salesledger/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SaleCounter is told about every persisted sale.
type SaleCounter interface {
	IncSale()
}

// Service records and lists sales.
type Service struct {
	sales    SaleRepository
	products ProductFinder
	counter  SaleCounter
	now      func() time.Time
}

// NewService creates a ledger service. counter may be nil; a nil clock
// means time.Now.
func NewService(sales SaleRepository, products ProductFinder, counter SaleCounter, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{sales: sales, products: products, counter: counter, now: now}
}

// CreateSale records quantity units of the referenced product. The total
// is fixed here from the product's current price. An unknown product
// yields a NotFoundError and nothing is written.
func (s *Service) CreateSale(ctx context.Context, in domain.SaleInput) (*domain.Sale, error) {
	product, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("product", in.ProductID)
		}
		return nil, err
	}

	sale := &domain.Sale{
		ProductID: product.ID,
		Quantity:  in.Quantity,
		Total:     domain.TotalFor(product.Price, in.Quantity),
		CreatedAt: s.now().Truncate(time.Microsecond),
	}
	if err := s.sales.Create(ctx, sale); err != nil {
		zap.L().Error("failed to create sale",
			zap.Int64("product_id", in.ProductID),
			zap.Int("quantity", in.Quantity),
			zap.Error(err))
		return nil, err
	}

	// not part of the write; a failed insert never reaches here
	if s.counter != nil {
		s.counter.IncSale()
	}
	zap.L().Info("sale recorded",
		zap.Int64("id", sale.ID),
		zap.Int64("product_id", sale.ProductID),
		zap.Int("quantity", sale.Quantity),
		zap.Float64("total", sale.Total))
	return sale, nil
}

// ListSales returns every sale, most recent first.
func (s *Service) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return s.sales.List(ctx)
}

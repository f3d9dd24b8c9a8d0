package catalog

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/talkincode/salesledger/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service creates and lists catalog products.
type Service struct {
	repo ProductRepository
	now  func() time.Time
}

// NewService creates a catalog service. A nil clock means time.Now.
func NewService(repo ProductRepository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, now: now}
}

// CreateProduct persists a new product. A product with the same name
// (exact, case-sensitive) makes it fail with a ConflictError before any
// write happens.
func (s *Service) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	existing, err := s.repo.GetByName(ctx, in.Name)
	switch {
	case err == nil:
		zap.L().Info("product name already taken",
			zap.String("name", in.Name),
			zap.Int64("existing_id", existing.ID))
		return nil, domain.NewConflictError("product", in.Name)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	p := &domain.Product{
		Name:      in.Name,
		Price:     in.Price,
		CreatedAt: s.now().Truncate(time.Microsecond),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		zap.L().Error("failed to create product", zap.String("name", in.Name), zap.Error(err))
		return nil, err
	}
	zap.L().Info("product created",
		zap.Int64("id", p.ID),
		zap.String("name", p.Name),
		zap.Float64("price", p.Price))
	return p, nil
}

// ListProducts returns every product in creation (ID) order.
func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

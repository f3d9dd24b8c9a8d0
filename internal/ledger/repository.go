package ledger

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/talkincode/salesledger/internal/domain"
	"gorm.io/gorm"
)

// ProductFinder resolves the product a sale refers to
type ProductFinder interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// SaleRepository handles database operations for sales
type SaleRepository interface {
	// Create inserts a new sale; ID is assigned by the store
	Create(ctx context.Context, s *domain.Sale) error

	// List returns all sales, most recent first
	List(ctx context.Context) ([]domain.Sale, error)

	// Count returns the number of sales
	Count(ctx context.Context) (int64, error)

	// SumBetween totals revenue and items of sales created within [start, end]
	SumBetween(ctx context.Context, start, end time.Time) (revenue float64, items int64, err error)
}

// GormSaleRepository is the GORM implementation of SaleRepository
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GORM-based repository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func (r *GormSaleRepository) Create(ctx context.Context, s *domain.Sale) error {
	return errors.Wrap(r.db.WithContext(ctx).Omit("Product").Create(s).Error, "insert sale")
}

// List orders by created_at descending; sales sharing a timestamp come
// newest ID first.
func (r *GormSaleRepository) List(ctx context.Context) ([]domain.Sale, error) {
	sales := make([]domain.Sale, 0)
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&sales).Error
	return sales, errors.Wrap(err, "list sales")
}

func (r *GormSaleRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Sale{}).Count(&total).Error
	return total, errors.Wrap(err, "count sales")
}

func (r *GormSaleRepository) SumBetween(ctx context.Context, start, end time.Time) (float64, int64, error) {
	var row struct {
		TotalRevenue float64
		TotalItems   int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Sale{}).
		Select("COALESCE(SUM(total), 0) AS total_revenue, COALESCE(SUM(quantity), 0) AS total_items").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Scan(&row).Error
	if err != nil {
		return 0, 0, errors.Wrap(err, "sum sales")
	}
	return row.TotalRevenue, row.TotalItems, nil
}

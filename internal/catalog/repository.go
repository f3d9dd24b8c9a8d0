package catalog

import (
	"context"

	"github.com/pkg/errors"
	"github.com/talkincode/salesledger/internal/domain"
	"gorm.io/gorm"
)

// ProductRepository handles database operations for products
type ProductRepository interface {
	// Create inserts a new product; ID is assigned by the store
	Create(ctx context.Context, p *domain.Product) error

	// GetByID retrieves a product by ID, gorm.ErrRecordNotFound when absent
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// GetByName retrieves a product by exact name, gorm.ErrRecordNotFound when absent
	GetByName(ctx context.Context, name string) (*domain.Product, error)

	// List returns all products ordered by ID ascending
	List(ctx context.Context) ([]domain.Product, error)

	// Count returns the number of products
	Count(ctx context.Context) (int64, error)
}

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM-based repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(p).Error, "insert product")
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, errors.Wrapf(err, "query product id=%d", id)
	}
	return &p, nil
}

func (r *GormProductRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&p).Error; err != nil {
		return nil, errors.Wrapf(err, "query product name=%q", name)
	}
	return &p, nil
}

func (r *GormProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error
	return products, errors.Wrap(err, "list products")
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&total).Error
	return total, errors.Wrap(err, "count products")
}

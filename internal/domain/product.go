package domain

import (
	"math"
	"time"
)

// Product is a catalog entry. Name and price are fixed at creation.
type Product struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Price     float64   `gorm:"not null" json:"price"` // price in main currency units
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}

// ProductInput is a validated request to create a product.
type ProductInput struct {
	Name  string
	Price float64
}

// NewProductInput validates name and price. Name is kept as given, so
// uniqueness is an exact, case-sensitive match, and any name of at least
// one character is accepted.
func NewProductInput(name string, price float64) (ProductInput, error) {
	if name == "" {
		return ProductInput{}, NewValidationError("name", "must not be empty", name)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return ProductInput{}, NewValidationError("price", "must be greater than 0", price)
	}
	return ProductInput{Name: name, Price: price}, nil
}

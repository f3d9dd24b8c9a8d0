package domain

import "time"

// Sale records a quantity of one product sold. Total is computed once, at
// creation, from the product price of that moment.
type Sale struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Total     float64   `gorm:"not null" json:"total"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Product is only declared so that migration emits the products.id
	// foreign key. It is never populated or preloaded.
	Product *Product `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
}

// TableName Specify table name
func (Sale) TableName() string {
	return "sales"
}

// SaleInput is a validated request to record a sale.
type SaleInput struct {
	ProductID int64
	Quantity  int
}

// NewSaleInput validates the quantity. Whether the product exists is
// checked by the ledger against the catalog.
func NewSaleInput(productID int64, quantity int) (SaleInput, error) {
	if quantity <= 0 {
		return SaleInput{}, NewValidationError("quantity", "must be greater than 0", quantity)
	}
	return SaleInput{ProductID: productID, Quantity: quantity}, nil
}

// TotalFor returns price * quantity with no rounding.
func TotalFor(price float64, quantity int) float64 {
	return price * float64(quantity)
}

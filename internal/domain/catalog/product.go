package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Quantity is the remaining stock and never
// goes negative; the only writers are admin edits and the admission
// engine's decrement. IsFlash is a derived display hint maintained by the
// flash-sale registry; admission never reads it.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
	IsActive    bool
	IsFlash     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewProduct(name, description string, price decimal.Decimal, quantity int) (*Product, error) {
	if name == "" {
		return nil, errors.New("product name cannot be empty")
	}

	if price.IsNegative() {
		return nil, errors.New("product price cannot be negative")
	}

	if quantity < 0 {
		return nil, errors.New("product quantity cannot be negative")
	}

	now := time.Now().UTC()
	return &Product{
		Name:        name,
		Description: description,
		Price:       price.Round(2),
		Quantity:    quantity,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (p *Product) HasStock(quantity int) bool {
	return p.Quantity >= quantity
}

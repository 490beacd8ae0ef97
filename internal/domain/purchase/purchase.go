package purchase

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const StatusCompleted = "completed"

// Purchase is one row of the append-only ledger. PurchasePrice is the unit
// price actually charged, captured at commit time and never updated, even
// if the product's base price or the sale's discount changes later.
type Purchase struct {
	ID            int64
	UserID        int64
	ProductID     int64
	FlashSaleID   *int64
	Quantity      int
	PurchasePrice decimal.Decimal
	PurchaseDate  time.Time
	Status        string
}

func NewPurchase(userID, productID int64, flashSaleID *int64, quantity int, unitPrice decimal.Decimal) (*Purchase, error) {
	if quantity < 1 {
		return nil, errors.New("quantity must be at least 1")
	}

	if unitPrice.IsNegative() {
		return nil, errors.New("purchase price cannot be negative")
	}

	return &Purchase{
		UserID:        userID,
		ProductID:     productID,
		FlashSaleID:   flashSaleID,
		Quantity:      quantity,
		PurchasePrice: unitPrice,
		Status:        StatusCompleted,
	}, nil
}

// Record is a ledger row joined with the product and sale names, as
// returned by the history queries.
type Record struct {
	ID            int64
	UserID        int64
	ProductID     int64
	ProductName   string
	FlashSaleID   *int64
	FlashSaleName *string
	Quantity      int
	PurchasePrice decimal.Decimal
	PurchaseDate  time.Time
	Status        string
}

package promo

import (
	"errors"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Offer associates a product with a flash sale: the product is sold at
// DiscountPercentage off, capped at MaxQuantityPerUser units per user for
// the duration of the sale. The (FlashSaleID, ProductID) pair is unique.
type Offer struct {
	ID                 int64
	FlashSaleID        int64
	ProductID          int64
	DiscountPercentage int
	MaxQuantityPerUser int
}

func NewOffer(flashSaleID, productID int64, discountPercentage, maxQuantityPerUser int) (*Offer, error) {
	if discountPercentage < 0 || discountPercentage > 100 {
		return nil, errors.New("discount percentage must be between 0 and 100")
	}

	if maxQuantityPerUser < 1 {
		return nil, errors.New("max quantity per user must be at least 1")
	}

	return &Offer{
		FlashSaleID:        flashSaleID,
		ProductID:          productID,
		DiscountPercentage: discountPercentage,
		MaxQuantityPerUser: maxQuantityPerUser,
	}, nil
}

// DiscountedPrice applies the offer's percentage to a unit price, rounding
// half-up to 2 decimal places: 899.99 at 20% off is 719.992 -> 719.99.
func (o *Offer) DiscountedPrice(unitPrice decimal.Decimal) decimal.Decimal {
	factor := hundred.Sub(decimal.NewFromInt(int64(o.DiscountPercentage)))
	return unitPrice.Mul(factor).Div(hundred).Round(2)
}

// SaleStatus is the promotion phase derived from wall-clock time.
type SaleStatus string

const (
	StatusActive   SaleStatus = "active"
	StatusUpcoming SaleStatus = "upcoming"
	StatusEnded    SaleStatus = "ended"
	StatusNone     SaleStatus = "none"
)

// SaleOverview is a flash sale together with the number of products
// attached to it, as shown on the public status endpoint.
type SaleOverview struct {
	FlashSale
	ProductCount int
}

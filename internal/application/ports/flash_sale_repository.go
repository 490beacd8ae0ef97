package ports

import (
	"context"
	"time"

	"github.com/flashmart/flashmart-service/internal/domain/catalog"
	"github.com/flashmart/flashmart-service/internal/domain/promo"
)

// OfferedProduct is a registry read model: a product listed inside a flash
// sale together with its discount terms.
type OfferedProduct struct {
	Product catalog.Product
	Offer   promo.Offer
}

type FlashSaleRepository interface {
	ListSales(ctx context.Context) ([]promo.SaleOverview, error)
	GetSale(ctx context.Context, id int64) (*promo.FlashSale, error)
	GetSaleProducts(ctx context.Context, saleID int64) ([]OfferedProduct, error)

	CreateSale(ctx context.Context, s *promo.FlashSale) (*promo.FlashSale, error)
	UpdateSale(ctx context.Context, s *promo.FlashSale) (*promo.FlashSale, error)
	DeleteSale(ctx context.Context, id int64) error

	// AttachProduct creates the (sale, product) association and marks the
	// product flash-eligible. A duplicate pair fails with
	// errors.ErrConflictingAssociation.
	AttachProduct(ctx context.Context, o *promo.Offer) (*promo.Offer, error)

	// DetachProduct removes the association; when it was the product's
	// last one, the product's flash-eligible flag is cleared.
	DetachProduct(ctx context.Context, saleID, productID int64) error

	// Status resolver reads. Each considers only sales with the active
	// flag set and at least one attached product.
	// FindActiveSale: start <= now <= end, ties broken by largest id.
	FindActiveSale(ctx context.Context, now time.Time) (*promo.SaleOverview, error)
	// FindUpcomingSale: start > now, earliest start wins.
	FindUpcomingSale(ctx context.Context, now time.Time) (*promo.SaleOverview, error)
	// FindEndedSale: end < now, latest end wins.
	FindEndedSale(ctx context.Context, now time.Time) (*promo.SaleOverview, error)
}

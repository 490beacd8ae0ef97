package ports

import (
	"context"

	"github.com/flashmart/flashmart-service/internal/domain/catalog"
	"github.com/flashmart/flashmart-service/internal/domain/promo"
)

// ProductWithOffer is a catalog read model: a product joined with its
// offer under an active sale, when one exists.
type ProductWithOffer struct {
	Product catalog.Product
	Offer   *promo.Offer
	Sale    *promo.FlashSale
}

type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*ProductWithOffer, error)
	ListActive(ctx context.Context) ([]ProductWithOffer, error)

	Create(ctx context.Context, p *catalog.Product) (*catalog.Product, error)
	Update(ctx context.Context, p *catalog.Product) (*catalog.Product, error)
	Delete(ctx context.Context, id int64) error
}

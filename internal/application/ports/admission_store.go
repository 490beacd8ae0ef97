package ports

import (
	"context"

	"github.com/flashmart/flashmart-service/internal/domain/catalog"
	"github.com/flashmart/flashmart-service/internal/domain/promo"
	"github.com/flashmart/flashmart-service/internal/domain/purchase"
)

// AdmissionStore opens the all-or-nothing transaction the purchase
// admission engine runs in.
type AdmissionStore interface {
	Begin(ctx context.Context) (AdmissionTx, error)
}

// AdmissionTx is the storage contract of a single admission: every method
// runs on one transaction, and GetProductForUpdate must hold an exclusive
// lock on the product row until Commit or Rollback. The lock is what
// serializes concurrent admissions for the same product across server
// instances; in-process locking is deliberately absent.
type AdmissionTx interface {
	// GetProductForUpdate reads the product row under an exclusive lock.
	GetProductForUpdate(ctx context.Context, productID int64) (*catalog.Product, error)

	// GetActiveOffer returns the offer for (flashSaleID, productID) joined
	// with its sale, considering only sales with the active flag set.
	// Returns domain errors.ErrFlashSaleNotApplicable when no such
	// association exists.
	GetActiveOffer(ctx context.Context, flashSaleID, productID int64) (*promo.Offer, *promo.FlashSale, error)

	// HasFlashPurchase reports whether the user already holds a purchase
	// for (productID, flashSaleID).
	HasFlashPurchase(ctx context.Context, userID, productID, flashSaleID int64) (bool, error)

	// HasRegularPurchase reports whether the user already holds a
	// non-flash purchase of the product.
	HasRegularPurchase(ctx context.Context, userID, productID int64) (bool, error)

	// DecrementStock subtracts quantity from the product's stock. The
	// implementation must refuse to drive stock negative.
	DecrementStock(ctx context.Context, productID int64, quantity int) error

	// InsertPurchase appends the ledger row and returns it with its
	// assigned id and timestamp.
	InsertPurchase(ctx context.Context, p *purchase.Purchase) (*purchase.Purchase, error)

	Commit() error
	Rollback() error
}

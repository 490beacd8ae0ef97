package ports

import (
	"context"

	"github.com/flashmart/flashmart-service/internal/domain/purchase"
)

// PurchaseRepository serves the read-only ledger queries. All writes to
// the ledger go through AdmissionTx.
type PurchaseRepository interface {
	// HistoryByUser returns the user's purchases newest-first, joined with
	// product and sale names.
	HistoryByUser(ctx context.Context, userID int64) ([]purchase.Record, error)

	// FindByUserAndProduct returns the user's earliest purchase of the
	// product, or nil when none exists.
	FindByUserAndProduct(ctx context.Context, userID, productID int64) (*purchase.Purchase, error)
}

package use_cases

import (
	"context"
	"fmt"

	"github.com/flashmart/flashmart-service/internal/application/ports"
	domainErrors "github.com/flashmart/flashmart-service/internal/domain/errors"
	"github.com/flashmart/flashmart-service/internal/domain/purchase"
	"github.com/flashmart/flashmart-service/internal/pkg/clock"
	"github.com/flashmart/flashmart-service/internal/pkg/logger"
	"github.com/shopspring/decimal"
)

// AdmissionRequest is one purchase attempt: a verified caller, a product,
// an optional flash-sale claim, and a quantity (already normalized to >= 1).
type AdmissionRequest struct {
	UserID      int64
	ProductID   int64
	FlashSaleID *int64
	Quantity    int
}

// AdmissionResult is a committed admission: the ledger row plus the stock
// left on the product after the decrement.
type AdmissionResult struct {
	Purchase       *purchase.Purchase
	RemainingStock int
}

// AdmitPurchaseUseCase is the purchase admission engine. Every attempt
// runs as one storage transaction with the product row exclusively
// locked: the stock read, the full validation sequence, the decrement and
// the ledger insert either all commit or all roll back. Concurrent
// admissions for the same product serialize on the row lock; admissions
// for different products never block each other.
type AdmitPurchaseUseCase struct {
	store ports.AdmissionStore
	clk   clock.Clock
	log   *logger.Logger

	// singleRegularPurchase additionally limits non-flash purchases to one
	// per (user, product). Off by default.
	singleRegularPurchase bool
}

func NewAdmitPurchaseUseCase(store ports.AdmissionStore, clk clock.Clock, log *logger.Logger, singleRegularPurchase bool) *AdmitPurchaseUseCase {
	return &AdmitPurchaseUseCase{
		store:                 store,
		clk:                   clk,
		log:                   log,
		singleRegularPurchase: singleRegularPurchase,
	}
}

func (uc *AdmitPurchaseUseCase) Execute(ctx context.Context, req AdmissionRequest) (*AdmissionResult, error) {
	tx, err := uc.store.Begin(ctx)
	if err != nil {
		uc.log.Error("Failed to begin admission transaction", "error", err)
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrTransactionFailed, err)
	}

	result, err := uc.admit(ctx, tx, req)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			uc.log.Error("Rollback failed", "error", rbErr, "product_id", req.ProductID)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		uc.log.Error("Commit failed", "error", err, "product_id", req.ProductID)
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrTransactionFailed, err)
	}

	uc.log.Info("Purchase admitted",
		"purchase_id", result.Purchase.ID,
		"user_id", req.UserID,
		"product_id", req.ProductID,
		"flash_sale_id", req.FlashSaleID,
		"quantity", req.Quantity,
		"unit_price", result.Purchase.PurchasePrice.String(),
	)

	return result, nil
}

// admit runs the validation rules in a fixed order; the first failing rule
// decides the rejection. Caller owns commit/rollback.
func (uc *AdmitPurchaseUseCase) admit(ctx context.Context, tx ports.AdmissionTx, req AdmissionRequest) (*AdmissionResult, error) {
	product, err := tx.GetProductForUpdate(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	if !product.HasStock(req.Quantity) {
		return nil, domainErrors.ErrInsufficientStock
	}

	var unitPrice decimal.Decimal

	if req.FlashSaleID != nil {
		offer, sale, err := tx.GetActiveOffer(ctx, *req.FlashSaleID, req.ProductID)
		if err != nil {
			return nil, err
		}

		// Re-checked at commit time even though the client saw an active
		// status earlier; the window may have just closed.
		if !sale.WindowContains(uc.clk.Now()) {
			return nil, domainErrors.ErrFlashSaleNotActive
		}

		redeemed, err := tx.HasFlashPurchase(ctx, req.UserID, req.ProductID, *req.FlashSaleID)
		if err != nil {
			return nil, err
		}
		if redeemed {
			return nil, domainErrors.ErrAlreadyRedeemed
		}

		if req.Quantity > offer.MaxQuantityPerUser {
			return nil, domainErrors.ErrQuotaExceeded
		}

		unitPrice = offer.DiscountedPrice(product.Price)
	} else {
		if uc.singleRegularPurchase {
			bought, err := tx.HasRegularPurchase(ctx, req.UserID, req.ProductID)
			if err != nil {
				return nil, err
			}
			if bought {
				return nil, domainErrors.ErrAlreadyPurchased
			}
		}

		unitPrice = product.Price
	}

	if err := tx.DecrementStock(ctx, req.ProductID, req.Quantity); err != nil {
		return nil, err
	}

	p, err := purchase.NewPurchase(req.UserID, req.ProductID, req.FlashSaleID, req.Quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	inserted, err := tx.InsertPurchase(ctx, p)
	if err != nil {
		return nil, err
	}

	return &AdmissionResult{
		Purchase:       inserted,
		RemainingStock: product.Quantity - req.Quantity,
	}, nil
}

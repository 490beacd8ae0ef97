package use_cases

import (
	"context"
	"time"

	"github.com/flashmart/flashmart-service/internal/application/ports"
	"github.com/flashmart/flashmart-service/internal/domain/promo"
	"github.com/flashmart/flashmart-service/internal/pkg/clock"
	"github.com/flashmart/flashmart-service/internal/pkg/logger"
)

// SaleStatusUseCase derives the current promotion phase from wall-clock
// time. It is a pure read used for display; the admission engine derives
// the same fact independently inside its own transaction.
//
// Priority and tie-breaks, first match wins:
//  1. active: flagged sale with start <= now <= end and at least one
//     product (largest id when several overlap)
//  2. upcoming: flagged future sale with at least one product, earliest start
//  3. ended: flagged past sale with at least one product, latest end
//  4. none
type SaleStatusUseCase struct {
	saleRepo ports.FlashSaleRepository
	cache    ports.StatusCache
	clk      clock.Clock
	log      *logger.Logger
	cacheTTL time.Duration
}

func NewSaleStatusUseCase(saleRepo ports.FlashSaleRepository, cache ports.StatusCache, clk clock.Clock, log *logger.Logger, cacheTTL time.Duration) *SaleStatusUseCase {
	return &SaleStatusUseCase{
		saleRepo: saleRepo,
		cache:    cache,
		clk:      clk,
		log:      log,
		cacheTTL: cacheTTL,
	}
}

func (uc *SaleStatusUseCase) Resolve(ctx context.Context) (*promo.StatusResult, error) {
	now := uc.clk.Now()

	if sale, err := uc.saleRepo.FindActiveSale(ctx, now); err != nil {
		return nil, err
	} else if sale != nil {
		return &promo.StatusResult{Status: promo.StatusActive, Sale: sale}, nil
	}

	if sale, err := uc.saleRepo.FindUpcomingSale(ctx, now); err != nil {
		return nil, err
	} else if sale != nil {
		return &promo.StatusResult{Status: promo.StatusUpcoming, Sale: sale}, nil
	}

	if sale, err := uc.saleRepo.FindEndedSale(ctx, now); err != nil {
		return nil, err
	} else if sale != nil {
		return &promo.StatusResult{Status: promo.StatusEnded, Sale: sale}, nil
	}

	return &promo.StatusResult{Status: promo.StatusNone}, nil
}

// ResolveCached consults the Redis snapshot before hitting the database.
// Staleness is bounded by the cache TTL and is acceptable here because the
// result only informs countdown rendering, never admission.
func (uc *SaleStatusUseCase) ResolveCached(ctx context.Context) (*promo.StatusResult, error) {
	if uc.cache != nil {
		if cached, ok, err := uc.cache.GetSaleStatus(ctx); err != nil {
			uc.log.Warn("Status cache read failed", "error", err)
		} else if ok {
			return cached, nil
		}
	}

	result, err := uc.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.SetSaleStatus(ctx, result, uc.cacheTTL); err != nil {
			uc.log.Warn("Status cache write failed", "error", err)
		}
	}

	return result, nil
}

// Refresh resolves fresh and overwrites the cached snapshot, skipping the
// read path so a phase transition is published as soon as it is seen.
func (uc *SaleStatusUseCase) Refresh(ctx context.Context) (*promo.StatusResult, error) {
	result, err := uc.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.SetSaleStatus(ctx, result, uc.cacheTTL); err != nil {
			uc.log.Warn("Status cache write failed", "error", err)
		}
	}

	return result, nil
}

package scheduler

import (
	"context"
	"time"

	"github.com/flashmart/flashmart-service/internal/application/use_cases"
	"github.com/flashmart/flashmart-service/internal/domain/promo"
	"github.com/flashmart/flashmart-service/internal/infrastructure/monitoring"
	"github.com/flashmart/flashmart-service/internal/pkg/logger"
)

// StatusScheduler re-resolves the sale status on an interval so the
// cached status endpoint and the phase gauge track window transitions
// without waiting for traffic.
type StatusScheduler struct {
	status   *use_cases.SaleStatusUseCase
	logger   *logger.Logger
	interval time.Duration
	stopChan chan struct{}

	lastPhase promo.SaleStatus
}

func NewStatusScheduler(status *use_cases.SaleStatusUseCase, log *logger.Logger, interval time.Duration) *StatusScheduler {
	return &StatusScheduler{
		status:   status,
		logger:   log,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (s *StatusScheduler) Start(ctx context.Context) {
	s.logger.Info("Starting status scheduler", "interval", s.interval.String())

	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Status scheduler stopped")
			return
		case <-s.stopChan:
			s.logger.Info("Status scheduler stopped")
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *StatusScheduler) Stop() {
	close(s.stopChan)
}

func (s *StatusScheduler) refresh(ctx context.Context) {
	result, err := s.status.Refresh(ctx)
	if err != nil {
		s.logger.Error("Failed to refresh sale status", "error", err)
		return
	}

	monitoring.UpdateSalePhase(string(result.Status))

	if result.Status != s.lastPhase {
		fields := []interface{}{"phase", string(result.Status)}
		if result.Sale != nil {
			fields = append(fields, "flash_sale_id", result.Sale.ID, "name", result.Sale.Name)
		}
		s.logger.Info("Sale phase changed", fields...)
		s.lastPhase = result.Status
	}
}

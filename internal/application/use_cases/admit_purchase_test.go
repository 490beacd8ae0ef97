package use_cases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashmart/flashmart-service/internal/application/ports"
	"github.com/flashmart/flashmart-service/internal/domain/catalog"
	domainErrors "github.com/flashmart/flashmart-service/internal/domain/errors"
	"github.com/flashmart/flashmart-service/internal/domain/promo"
	"github.com/flashmart/flashmart-service/internal/domain/purchase"
	"github.com/flashmart/flashmart-service/internal/pkg/clock"
	"github.com/flashmart/flashmart-service/internal/pkg/logger"
)

// fakeAdmissionStore emulates the row-locked transaction: the product lock
// is taken on GetProductForUpdate and held until Commit or Rollback, and
// writes are staged so a rollback leaves no trace.
type fakeAdmissionStore struct {
	mu        sync.Mutex
	products  map[int64]*catalog.Product
	offers    map[[2]int64]offerEntry
	purchases []purchase.Purchase
	nextID    int64
}

type offerEntry struct {
	offer promo.Offer
	sale  promo.FlashSale
}

func newFakeAdmissionStore() *fakeAdmissionStore {
	return &fakeAdmissionStore{
		products: make(map[int64]*catalog.Product),
		offers:   make(map[[2]int64]offerEntry),
	}
}

func (s *fakeAdmissionStore) addProduct(p catalog.Product) {
	s.products[p.ID] = &p
}

func (s *fakeAdmissionStore) addOffer(o promo.Offer, sale promo.FlashSale) {
	s.offers[[2]int64{o.FlashSaleID, o.ProductID}] = offerEntry{offer: o, sale: sale}
}

func (s *fakeAdmissionStore) Begin(ctx context.Context) (ports.AdmissionTx, error) {
	return &fakeAdmissionTx{store: s}, nil
}

type fakeAdmissionTx struct {
	store  *fakeAdmissionStore
	locked bool

	stagedQuantity  *int
	stagedProductID int64
	stagedPurchase  *purchase.Purchase
}

func (t *fakeAdmissionTx) GetProductForUpdate(ctx context.Context, productID int64) (*catalog.Product, error) {
	t.store.mu.Lock()
	t.locked = true

	p, ok := t.store.products[productID]
	if !ok {
		return nil, domainErrors.ErrProductNotFound
	}

	cp := *p
	return &cp, nil
}

func (t *fakeAdmissionTx) GetActiveOffer(ctx context.Context, flashSaleID, productID int64) (*promo.Offer, *promo.FlashSale, error) {
	entry, ok := t.store.offers[[2]int64{flashSaleID, productID}]
	if !ok || !entry.sale.IsActive {
		return nil, nil, domainErrors.ErrFlashSaleNotApplicable
	}
	offer := entry.offer
	sale := entry.sale
	return &offer, &sale, nil
}

func (t *fakeAdmissionTx) HasFlashPurchase(ctx context.Context, userID, productID, flashSaleID int64) (bool, error) {
	for _, p := range t.store.purchases {
		if p.UserID == userID && p.ProductID == productID && p.FlashSaleID != nil && *p.FlashSaleID == flashSaleID {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeAdmissionTx) HasRegularPurchase(ctx context.Context, userID, productID int64) (bool, error) {
	for _, p := range t.store.purchases {
		if p.UserID == userID && p.ProductID == productID && p.FlashSaleID == nil {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeAdmissionTx) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	p, ok := t.store.products[productID]
	if !ok {
		return domainErrors.ErrProductNotFound
	}
	if p.Quantity < quantity {
		return domainErrors.ErrInsufficientStock
	}
	remaining := p.Quantity - quantity
	t.stagedQuantity = &remaining
	t.stagedProductID = productID
	return nil
}

func (t *fakeAdmissionTx) InsertPurchase(ctx context.Context, p *purchase.Purchase) (*purchase.Purchase, error) {
	t.store.nextID++
	cp := *p
	cp.ID = t.store.nextID
	cp.PurchaseDate = time.Now().UTC()
	t.stagedPurchase = &cp
	return &cp, nil
}

func (t *fakeAdmissionTx) Commit() error {
	if t.stagedQuantity != nil {
		t.store.products[t.stagedProductID].Quantity = *t.stagedQuantity
	}
	if t.stagedPurchase != nil {
		t.store.purchases = append(t.store.purchases, *t.stagedPurchase)
	}
	t.unlock()
	return nil
}

func (t *fakeAdmissionTx) Rollback() error {
	t.unlock()
	return nil
}

func (t *fakeAdmissionTx) unlock() {
	if t.locked {
		t.locked = false
		t.store.mu.Unlock()
	}
}

func testLogger() *logger.Logger {
	return logger.NewLoggerWithLevel(logger.LevelFatal)
}

func saleWindow(start, end time.Time) promo.FlashSale {
	return promo.FlashSale{
		ID:        10,
		Name:      "Launch Sale",
		StartTime: start,
		EndTime:   end,
		IsActive:  true,
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}

func TestAdmitRegularPurchase(t *testing.T) {
	store := newFakeAdmissionStore()
	store.addProduct(catalog.Product{
		ID:       1,
		Name:     "Smartphone X",
		Price:    decimal.RequireFromString("899.99"),
		Quantity: 50,
		IsActive: true,
	})

	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	uc := NewAdmitPurchaseUseCase(store, clk, testLogger(), false)

	result, err := uc.Execute(context.Background(), AdmissionRequest{
		UserID:    7,
		ProductID: 1,
		Quantity:  2,
	})
	require.NoError(t, err)

	assert.Equal(t, "899.99", result.Purchase.PurchasePrice.String())
	assert.Nil(t, result.Purchase.FlashSaleID)
	assert.Equal(t, 48, result.RemainingStock)
	assert.Equal(t, 48, store.products[1].Quantity)
	assert.Len(t, store.purchases, 1)
}

func TestAdmitFlashPurchaseAppliesDiscount(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	store := newFakeAdmissionStore()
	store.addProduct(catalog.Product{
		ID:       1,
		Price:    decimal.RequireFromString("899.99"),
		Quantity: 50,
		IsActive: true,
	})
	store.addOffer(
		promo.Offer{ID: 1, FlashSaleID: 10, ProductID: 1, DiscountPercentage: 20, MaxQuantityPerUser: 1},
		saleWindow(now.Add(-time.Hour), now.Add(time.Hour)),
	)

	uc := NewAdmitPurchaseUseCase(store, clock.NewMockClock(now), testLogger(), false)

	result, err := uc.Execute(context.Background(), AdmissionRequest{
		UserID:      7,
		ProductID:   1,
		FlashSaleID: int64Ptr(10),
		Quantity:    1,
	})
	require.NoError(t, err)

	// 899.99 * 0.80 = 719.992, rounded half-up to 719.99
	assert.Equal(t, "719.99", result.Purchase.PurchasePrice.String())
	require.NotNil(t, result.Purchase.FlashSaleID)
	assert.Equal(t, int64(10), *result.Purchase.FlashSaleID)
}

func TestAdmitPriceSnapshotSurvivesPriceChange(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	store := newFakeAdmissionStore()
	store.addProduct(catalog.Product{
		ID:       1,
		Price:    decimal.RequireFromString("100.00"),
		Quantity: 10,
		IsActive: true,
	})

	uc := NewAdmitPurchaseUseCase(store, clock.NewMockClock(now), testLogger(), false)

	result, err := uc.Execute(context.Background(), AdmissionRequest{UserID: 7, ProductID: 1, Quantity: 1})
	require.NoError(t, err)

	store.products[1].Price = decimal.RequireFromString("150.00")

	assert.Equal(t, "100", store.purchases[0].PurchasePrice.String())
	assert.Equal(t, result.Purchase.PurchasePrice.String(), store.purchases[0].PurchasePrice.String())
}

func TestAdmitWindowBoundariesInclusive(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	cases := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"at start", start, nil},
		{"at end", end, nil},
		{"just before start", start.Add(-time.Millisecond), domainErrors.ErrFlashSaleNotActive},
		{"just after end", end.Add(time.Millisecond), domainErrors.ErrFlashSaleNotActive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeAdmissionStore()
			store.addProduct(catalog.Product{
				ID:       1,
				Price:    decimal.RequireFromString("50.00"),
				Quantity: 5,
				IsActive: true,
			})
			store.addOffer(
				promo.Offer{ID: 1, FlashSaleID: 10, ProductID: 1, DiscountPercentage: 10, MaxQuantityPerUser: 3},
				saleWindow(start, end),
			)

			uc := NewAdmitPurchaseUseCase(store, clock.NewMockClock(tc.now), testLogger(), false)

			_, err := uc.Execute(context.Background(), AdmissionRequest{
				UserID:      7,
				ProductID:   1,
				FlashSaleID: int64Ptr(10),
				Quantity:    1,
			})

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, 5, store.products[1].Quantity)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAdmitSecondRedemptionRejected(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	store := newFakeAdmissionStore()
	store.addProduct(catalog.Product{
		ID:       1,
		Price:    decimal.RequireFromString("50.00"),
		Quantity: 10,
		IsActive: true,
	})
	store.addOffer(
		promo.Offer{ID: 1, FlashSaleID: 10, ProductID: 1, DiscountPercentage: 10, MaxQuantityPerUser: 1},
		saleWindow(now.Add(-time.Hour), now.Add(time.Hour)),
	)

	uc := NewAdmitPurchaseUseCase(store, clock.NewMockClock(now), testLogger(), false)

	req := AdmissionRequest{UserID: 7, ProductID: 1, FlashSaleID: int64Ptr(10), Quantity: 1}

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, domainErrors.ErrAlreadyRedeemed)

	assert.Equal(t, 9, store.products[1].Quantity)
	assert.Len(t, store.purchases, 1)
}

func TestAdmitQuotaExceeded(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	store := newFakeAdmissionStore()
	store.addProduct(catalog.Product{
		ID:       1,
		Price:    decimal.RequireFromString("50.00"),
		Quantity: 10,
		IsActive: true,
	})
	store.addOffer(
		promo.Offer{ID: 1, FlashSaleID: 10, ProductID: 1, DiscountPercentage: 10, MaxQuantityPerUser: 2},
		saleWindow(now.Add(-time.Hour), now.Add(time.Hour)),
	)

	uc := NewAdmitPurchaseUseCase(store, clock.NewMockClock(now), testLogger(), false)

	_, err := uc.Execute(context.Background(), AdmissionRequest{
		UserID:      7,
		ProductID:   1,
		FlashSaleID: int64Ptr(10),
		Quantity:    3,
	})
	assert.ErrorIs(t, err, domainErrors.ErrQuotaExceeded)
	assert.Equal(t, 10, store.products[1].Quantity)
	assert.Empty(t, store.purchases)
}

func TestAdmitSaleNotApplicable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	store := newFakeAdmissionStore()
	store.addProduct(catalog.Product{
		ID:       1,
		Price:    decimal.RequireFromString("50.00"),
		Quantity: 10,
		IsActive: true,
	})

	uc := NewAdmitPurchaseUseCase(store, clock.NewMockClock(now), testLogger(), false)

	_, err := uc.Execute(context.Background(), AdmissionRequest{
		UserID:      7,
		ProductID:   1,
		FlashSaleID: int64Ptr(10),
		Quantity:    1,
	})
	assert.ErrorIs(t, err, domainErrors.ErrFlashSaleNotApplicable)
}

func TestAdmitInsufficientStock(t *testing.T) {
	store := newFakeAdmissionStore()
	store.addProduct(catalog.Product{
		ID:       1,
		Price:    decimal.RequireFromString("50.00"),
		Quantity: 1,
		IsActive: true,
	})

	uc := NewAdmitPurchaseUseCase(store, clock.NewMockClock(time.Now().UTC()), testLogger(), false)

	_, err := uc.Execute(context.Background(), AdmissionRequest{UserID: 7, ProductID: 1, Quantity: 2})
	assert.ErrorIs(t, err, domainErrors.ErrInsufficientStock)
	assert.Empty(t, store.purchases)
}

func TestAdmitProductNotFound(t *testing.T) {
	store := newFakeAdmissionStore()
	uc := NewAdmitPurchaseUseCase(store, clock.NewMockClock(time.Now().UTC()), testLogger(), false)

	_, err := uc.Execute(context.Background(), AdmissionRequest{UserID: 7, ProductID: 99, Quantity: 1})
	assert.ErrorIs(t, err, domainErrors.ErrProductNotFound)
}

func TestAdmitSingleRegularPurchaseRule(t *testing.T) {
	store := newFakeAdmissionStore()
	store.addProduct(catalog.Product{
		ID:       1,
		Price:    decimal.RequireFromString("50.00"),
		Quantity: 10,
		IsActive: true,
	})

	uc := NewAdmitPurchaseUseCase(store, clock.NewMockClock(time.Now().UTC()), testLogger(), true)

	req := AdmissionRequest{UserID: 7, ProductID: 1, Quantity: 1}

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, domainErrors.ErrAlreadyPurchased)

	// Another user is unaffected.
	_, err = uc.Execute(context.Background(), AdmissionRequest{UserID: 8, ProductID: 1, Quantity: 1})
	assert.NoError(t, err)
}

// Two buyers race for the last unit; the row lock serializes them and
// exactly one succeeds.
func TestAdmitConcurrentLastUnit(t *testing.T) {
	store := newFakeAdmissionStore()
	store.addProduct(catalog.Product{
		ID:       1,
		Price:    decimal.RequireFromString("50.00"),
		Quantity: 1,
		IsActive: true,
	})

	uc := NewAdmitPurchaseUseCase(store, clock.NewMockClock(time.Now().UTC()), testLogger(), false)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), AdmissionRequest{
				UserID:    int64(100 + i),
				ProductID: 1,
				Quantity:  1,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domainErrors.ErrInsufficientStock)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, store.products[1].Quantity)
	assert.Len(t, store.purchases, 1)
}

// Two users race for the same single-redemption offer with ample stock;
// both succeed because redemption is tracked per user.
func TestAdmitConcurrentDistinctUsers(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	store := newFakeAdmissionStore()
	store.addProduct(catalog.Product{
		ID:       1,
		Price:    decimal.RequireFromString("50.00"),
		Quantity: 10,
		IsActive: true,
	})
	store.addOffer(
		promo.Offer{ID: 1, FlashSaleID: 10, ProductID: 1, DiscountPercentage: 10, MaxQuantityPerUser: 1},
		saleWindow(now.Add(-time.Hour), now.Add(time.Hour)),
	)

	uc := NewAdmitPurchaseUseCase(store, clock.NewMockClock(now), testLogger(), false)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), AdmissionRequest{
				UserID:      int64(100 + i),
				ProductID:   1,
				FlashSaleID: int64Ptr(10),
				Quantity:    1,
			})
		}(i)
	}
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Equal(t, 8, store.products[1].Quantity)
	assert.Len(t, store.purchases, 2)
}

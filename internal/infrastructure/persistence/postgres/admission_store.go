package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/flashmart/flashmart-service/internal/application/ports"
	"github.com/flashmart/flashmart-service/internal/domain/catalog"
	domainErrors "github.com/flashmart/flashmart-service/internal/domain/errors"
	"github.com/flashmart/flashmart-service/internal/domain/promo"
	"github.com/flashmart/flashmart-service/internal/domain/purchase"
	"github.com/flashmart/flashmart-service/internal/infrastructure/monitoring"
)

type AdmissionStore struct {
	db *sql.DB
}

func NewAdmissionStore(conn *Connection) *AdmissionStore {
	return &AdmissionStore{db: conn.GetDB()}
}

func (s *AdmissionStore) Begin(ctx context.Context) (ports.AdmissionTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &admissionTx{tx: tx}, nil
}

type admissionTx struct {
	tx *sql.Tx
}

// GetProductForUpdate takes the row lock that serializes all concurrent
// admissions for this product until the transaction ends.
func (t *admissionTx) GetProductForUpdate(ctx context.Context, productID int64) (*catalog.Product, error) {
	query := `
		SELECT id, name, description, price, quantity, is_active, is_flash, created_at, updated_at
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	var p catalog.Product
	err := monitoring.InstrumentTxQueryRow(ctx, t.tx, "select_for_update", "products", query, productID).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity,
		&p.IsActive, &p.IsFlash, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrProductNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (t *admissionTx) GetActiveOffer(ctx context.Context, flashSaleID, productID int64) (*promo.Offer, *promo.FlashSale, error) {
	query := `
		SELECT fsp.id, fsp.flash_sale_id, fsp.product_id, fsp.discount_percentage, fsp.max_quantity_per_user,
		       fs.id, fs.name, fs.start_time, fs.end_time, fs.is_active, fs.created_at, fs.updated_at
		FROM flash_sale_products fsp
		JOIN flash_sales fs ON fs.id = fsp.flash_sale_id
		WHERE fsp.flash_sale_id = $1 AND fsp.product_id = $2 AND fs.is_active = true
	`

	var offer promo.Offer
	var sale promo.FlashSale
	err := monitoring.InstrumentTxQueryRow(ctx, t.tx, "select", "flash_sale_products", query, flashSaleID, productID).Scan(
		&offer.ID, &offer.FlashSaleID, &offer.ProductID, &offer.DiscountPercentage, &offer.MaxQuantityPerUser,
		&sale.ID, &sale.Name, &sale.StartTime, &sale.EndTime, &sale.IsActive, &sale.CreatedAt, &sale.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domainErrors.ErrFlashSaleNotApplicable
		}
		return nil, nil, err
	}

	return &offer, &sale, nil
}

func (t *admissionTx) HasFlashPurchase(ctx context.Context, userID, productID, flashSaleID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM purchases
			WHERE user_id = $1 AND product_id = $2 AND flash_sale_id = $3
		)
	`

	var exists bool
	err := monitoring.InstrumentTxQueryRow(ctx, t.tx, "select", "purchases", query, userID, productID, flashSaleID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (t *admissionTx) HasRegularPurchase(ctx context.Context, userID, productID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM purchases
			WHERE user_id = $1 AND product_id = $2 AND flash_sale_id IS NULL
		)
	`

	var exists bool
	err := monitoring.InstrumentTxQueryRow(ctx, t.tx, "select", "purchases", query, userID, productID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// DecrementStock guards against negative stock at the SQL level even though
// the engine checks stock under the row lock first.
func (t *admissionTx) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	query := `
		UPDATE products
		SET quantity = quantity - $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND quantity >= $1
	`

	result, err := monitoring.InstrumentTxExec(ctx, t.tx, "update", "products", query, quantity, productID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainErrors.ErrInsufficientStock
	}

	return nil
}

func (t *admissionTx) InsertPurchase(ctx context.Context, p *purchase.Purchase) (*purchase.Purchase, error) {
	query := `
		INSERT INTO purchases (user_id, product_id, flash_sale_id, quantity, purchase_price, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, purchase_date
	`

	var flashSaleID sql.NullInt64
	if p.FlashSaleID != nil {
		flashSaleID = sql.NullInt64{Int64: *p.FlashSaleID, Valid: true}
	}

	err := monitoring.InstrumentTxQueryRow(ctx, t.tx, "insert", "purchases", query,
		p.UserID, p.ProductID, flashSaleID, p.Quantity, p.PurchasePrice, p.Status,
	).Scan(&p.ID, &p.PurchaseDate)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (t *admissionTx) Commit() error {
	return t.tx.Commit()
}

func (t *admissionTx) Rollback() error {
	return t.tx.Rollback()
}

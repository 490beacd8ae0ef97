package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/flashmart/flashmart-service/internal/domain/purchase"
	"github.com/flashmart/flashmart-service/internal/infrastructure/monitoring"
)

type PurchaseRepository struct {
	db *sql.DB
}

func NewPurchaseRepository(conn *Connection) *PurchaseRepository {
	return &PurchaseRepository{db: conn.GetDB()}
}

func (r *PurchaseRepository) HistoryByUser(ctx context.Context, userID int64) ([]purchase.Record, error) {
	query := `
		SELECT pu.id, pu.user_id, pu.product_id, pu.flash_sale_id, pu.quantity, pu.purchase_price,
		       pu.purchase_date, pu.status, p.name, fs.name
		FROM purchases pu
		JOIN products p ON p.id = pu.product_id
		LEFT JOIN flash_sales fs ON fs.id = pu.flash_sale_id
		WHERE pu.user_id = $1
		ORDER BY pu.purchase_date DESC
	`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "select", "purchases", query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []purchase.Record
	for rows.Next() {
		var rec purchase.Record
		var flashSaleID sql.NullInt64
		var flashSaleName sql.NullString
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.ProductID, &flashSaleID, &rec.Quantity, &rec.PurchasePrice,
			&rec.PurchaseDate, &rec.Status, &rec.ProductName, &flashSaleName,
		); err != nil {
			return nil, err
		}
		if flashSaleID.Valid {
			rec.FlashSaleID = &flashSaleID.Int64
		}
		if flashSaleName.Valid {
			rec.FlashSaleName = &flashSaleName.String
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *PurchaseRepository) FindByUserAndProduct(ctx context.Context, userID, productID int64) (*purchase.Purchase, error) {
	query := `
		SELECT id, user_id, product_id, flash_sale_id, quantity, purchase_price, purchase_date, status
		FROM purchases
		WHERE user_id = $1 AND product_id = $2
		ORDER BY purchase_date ASC
		LIMIT 1
	`

	var p purchase.Purchase
	var flashSaleID sql.NullInt64
	err := monitoring.InstrumentQueryRow(ctx, r.db, "select", "purchases", query, userID, productID).Scan(
		&p.ID, &p.UserID, &p.ProductID, &flashSaleID, &p.Quantity, &p.PurchasePrice, &p.PurchaseDate, &p.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if flashSaleID.Valid {
		p.FlashSaleID = &flashSaleID.Int64
	}

	return &p, nil
}

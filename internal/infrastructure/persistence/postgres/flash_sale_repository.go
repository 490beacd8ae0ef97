package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgconn"

	"github.com/flashmart/flashmart-service/internal/application/ports"
	domainErrors "github.com/flashmart/flashmart-service/internal/domain/errors"
	"github.com/flashmart/flashmart-service/internal/domain/promo"
	"github.com/flashmart/flashmart-service/internal/infrastructure/monitoring"
)

type FlashSaleRepository struct {
	db *sql.DB
}

func NewFlashSaleRepository(conn *Connection) *FlashSaleRepository {
	return &FlashSaleRepository{db: conn.GetDB()}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// missingReference maps a foreign key violation on flash_sale_products
// to the not-found error for whichever side the constraint references.
// Non-FK errors map to nil.
func missingReference(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23503" {
		return nil
	}
	if strings.Contains(pgErr.ConstraintName, "flash_sale_id") {
		return domainErrors.ErrFlashSaleNotFound
	}
	return domainErrors.ErrProductNotFound
}

func (r *FlashSaleRepository) ListSales(ctx context.Context) ([]promo.SaleOverview, error) {
	query := `
		SELECT fs.id, fs.name, fs.start_time, fs.end_time, fs.is_active, fs.created_at, fs.updated_at,
		       COUNT(fsp.id) AS product_count
		FROM flash_sales fs
		LEFT JOIN flash_sale_products fsp ON fsp.flash_sale_id = fs.id
		GROUP BY fs.id
		ORDER BY fs.start_time DESC
	`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "select", "flash_sales", query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []promo.SaleOverview
	for rows.Next() {
		var s promo.SaleOverview
		if err := rows.Scan(&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.IsActive,
			&s.CreatedAt, &s.UpdatedAt, &s.ProductCount); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}

	return sales, rows.Err()
}

func (r *FlashSaleRepository) GetSale(ctx context.Context, id int64) (*promo.FlashSale, error) {
	query := `
		SELECT id, name, start_time, end_time, is_active, created_at, updated_at
		FROM flash_sales
		WHERE id = $1
	`

	var s promo.FlashSale
	err := monitoring.InstrumentQueryRow(ctx, r.db, "select", "flash_sales", query, id).Scan(
		&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrFlashSaleNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *FlashSaleRepository) GetSaleProducts(ctx context.Context, saleID int64) ([]ports.OfferedProduct, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.quantity, p.is_active, p.is_flash, p.created_at, p.updated_at,
		       fsp.id, fsp.flash_sale_id, fsp.product_id, fsp.discount_percentage, fsp.max_quantity_per_user
		FROM flash_sale_products fsp
		JOIN products p ON p.id = fsp.product_id
		WHERE fsp.flash_sale_id = $1
		ORDER BY p.id
	`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "select", "flash_sale_products", query, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []ports.OfferedProduct
	for rows.Next() {
		var op ports.OfferedProduct
		if err := rows.Scan(
			&op.Product.ID, &op.Product.Name, &op.Product.Description, &op.Product.Price,
			&op.Product.Quantity, &op.Product.IsActive, &op.Product.IsFlash,
			&op.Product.CreatedAt, &op.Product.UpdatedAt,
			&op.Offer.ID, &op.Offer.FlashSaleID, &op.Offer.ProductID,
			&op.Offer.DiscountPercentage, &op.Offer.MaxQuantityPerUser,
		); err != nil {
			return nil, err
		}
		products = append(products, op)
	}

	return products, rows.Err()
}

func (r *FlashSaleRepository) CreateSale(ctx context.Context, s *promo.FlashSale) (*promo.FlashSale, error) {
	query := `
		INSERT INTO flash_sales (name, start_time, end_time, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := monitoring.InstrumentQueryRow(ctx, r.db, "insert", "flash_sales", query,
		s.Name, s.StartTime, s.EndTime, s.IsActive,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (r *FlashSaleRepository) UpdateSale(ctx context.Context, s *promo.FlashSale) (*promo.FlashSale, error) {
	query := `
		UPDATE flash_sales
		SET name = $1, start_time = $2, end_time = $3, is_active = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
		RETURNING created_at, updated_at
	`

	err := monitoring.InstrumentQueryRow(ctx, r.db, "update", "flash_sales", query,
		s.Name, s.StartTime, s.EndTime, s.IsActive, s.ID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrFlashSaleNotFound
		}
		return nil, err
	}

	return s, nil
}

func (r *FlashSaleRepository) DeleteSale(ctx context.Context, id int64) error {
	result, err := monitoring.InstrumentExec(ctx, r.db, "delete", "flash_sales", `DELETE FROM flash_sales WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainErrors.ErrFlashSaleNotFound
	}

	return nil
}

func (r *FlashSaleRepository) AttachProduct(ctx context.Context, o *promo.Offer) (*promo.Offer, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var saleID int64
	err = monitoring.InstrumentTxQueryRow(ctx, tx, "select", "flash_sales",
		`SELECT id FROM flash_sales WHERE id = $1`, o.FlashSaleID).Scan(&saleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrFlashSaleNotFound
		}
		return nil, err
	}

	var productID int64
	err = monitoring.InstrumentTxQueryRow(ctx, tx, "select", "products",
		`SELECT id FROM products WHERE id = $1`, o.ProductID).Scan(&productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrProductNotFound
		}
		return nil, err
	}

	query := `
		INSERT INTO flash_sale_products (flash_sale_id, product_id, discount_percentage, max_quantity_per_user)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err = monitoring.InstrumentTxQueryRow(ctx, tx, "insert", "flash_sale_products", query,
		o.FlashSaleID, o.ProductID, o.DiscountPercentage, o.MaxQuantityPerUser,
	).Scan(&o.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrConflictingAssociation
		}
		// The referenced row can vanish between the checks above and
		// the insert.
		if notFound := missingReference(err); notFound != nil {
			return nil, notFound
		}
		return nil, err
	}

	_, err = monitoring.InstrumentTxExec(ctx, tx, "update", "products",
		`UPDATE products SET is_flash = true, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, o.ProductID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *FlashSaleRepository) DetachProduct(ctx context.Context, saleID, productID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := monitoring.InstrumentTxExec(ctx, tx, "delete", "flash_sale_products",
		`DELETE FROM flash_sale_products WHERE flash_sale_id = $1 AND product_id = $2`, saleID, productID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainErrors.ErrAssociationNotFound
	}

	// The flash flag tracks membership in at least one sale.
	_, err = monitoring.InstrumentTxExec(ctx, tx, "update", "products", `
		UPDATE products SET is_flash = false, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		  AND NOT EXISTS (SELECT 1 FROM flash_sale_products WHERE product_id = $1)
	`, productID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// overviewQuery feeds the status resolver. Only active sales with at
// least one attached product qualify.
const overviewQuery = `
	SELECT fs.id, fs.name, fs.start_time, fs.end_time, fs.is_active, fs.created_at, fs.updated_at,
	       COUNT(fsp.id) AS product_count
	FROM flash_sales fs
	JOIN flash_sale_products fsp ON fsp.flash_sale_id = fs.id
	WHERE fs.is_active = true
`

func (r *FlashSaleRepository) findOverview(ctx context.Context, condition, order string, now time.Time) (*promo.SaleOverview, error) {
	query := overviewQuery + condition + ` GROUP BY fs.id ORDER BY ` + order + ` LIMIT 1`

	var s promo.SaleOverview
	err := monitoring.InstrumentQueryRow(ctx, r.db, "select", "flash_sales", query, now).Scan(
		&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.IsActive, &s.CreatedAt, &s.UpdatedAt, &s.ProductCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &s, nil
}

func (r *FlashSaleRepository) FindActiveSale(ctx context.Context, now time.Time) (*promo.SaleOverview, error) {
	return r.findOverview(ctx, ` AND fs.start_time <= $1 AND fs.end_time >= $1`, `fs.id DESC`, now)
}

func (r *FlashSaleRepository) FindUpcomingSale(ctx context.Context, now time.Time) (*promo.SaleOverview, error) {
	return r.findOverview(ctx, ` AND fs.start_time > $1`, `fs.start_time ASC`, now)
}

func (r *FlashSaleRepository) FindEndedSale(ctx context.Context, now time.Time) (*promo.SaleOverview, error) {
	return r.findOverview(ctx, ` AND fs.end_time < $1`, `fs.end_time DESC`, now)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/flashmart/flashmart-service/internal/application/ports"
	"github.com/flashmart/flashmart-service/internal/domain/catalog"
	domainErrors "github.com/flashmart/flashmart-service/internal/domain/errors"
	"github.com/flashmart/flashmart-service/internal/domain/promo"
	"github.com/flashmart/flashmart-service/internal/infrastructure/monitoring"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(conn *Connection) *ProductRepository {
	return &ProductRepository{db: conn.GetDB()}
}

// catalogQuery joins each product with its offer under the currently
// running active sale, preferring the newest sale when several overlap.
const catalogQuery = `
	SELECT p.id, p.name, p.description, p.price, p.quantity, p.is_active, p.is_flash, p.created_at, p.updated_at,
	       o.offer_id, o.flash_sale_id, o.product_id, o.discount_percentage, o.max_quantity_per_user,
	       o.sale_id, o.sale_name, o.start_time, o.end_time, o.sale_is_active, o.sale_created_at, o.sale_updated_at
	FROM products p
	LEFT JOIN LATERAL (
		SELECT fsp.id AS offer_id, fsp.flash_sale_id, fsp.product_id, fsp.discount_percentage, fsp.max_quantity_per_user,
		       fs.id AS sale_id, fs.name AS sale_name, fs.start_time, fs.end_time, fs.is_active AS sale_is_active,
		       fs.created_at AS sale_created_at, fs.updated_at AS sale_updated_at
		FROM flash_sale_products fsp
		JOIN flash_sales fs ON fs.id = fsp.flash_sale_id
		WHERE fsp.product_id = p.id
		  AND fs.is_active = true
		  AND CURRENT_TIMESTAMP BETWEEN fs.start_time AND fs.end_time
		ORDER BY fs.id DESC
		LIMIT 1
	) o ON true
`

func scanProductWithOffer(scan func(dest ...interface{}) error) (*ports.ProductWithOffer, error) {
	var row ports.ProductWithOffer
	var offerID, flashSaleID, offerProductID, saleID sql.NullInt64
	var discount, maxQty sql.NullInt64
	var saleName sql.NullString
	var startTime, endTime, saleCreatedAt, saleUpdatedAt sql.NullTime
	var saleIsActive sql.NullBool

	err := scan(
		&row.Product.ID, &row.Product.Name, &row.Product.Description, &row.Product.Price,
		&row.Product.Quantity, &row.Product.IsActive, &row.Product.IsFlash,
		&row.Product.CreatedAt, &row.Product.UpdatedAt,
		&offerID, &flashSaleID, &offerProductID, &discount, &maxQty,
		&saleID, &saleName, &startTime, &endTime, &saleIsActive, &saleCreatedAt, &saleUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if offerID.Valid {
		row.Offer = &promo.Offer{
			ID:                 offerID.Int64,
			FlashSaleID:        flashSaleID.Int64,
			ProductID:          offerProductID.Int64,
			DiscountPercentage: int(discount.Int64),
			MaxQuantityPerUser: int(maxQty.Int64),
		}
		row.Sale = &promo.FlashSale{
			ID:        saleID.Int64,
			Name:      saleName.String,
			StartTime: startTime.Time,
			EndTime:   endTime.Time,
			IsActive:  saleIsActive.Bool,
			CreatedAt: saleCreatedAt.Time,
			UpdatedAt: saleUpdatedAt.Time,
		}
	}

	return &row, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*ports.ProductWithOffer, error) {
	query := catalogQuery + ` WHERE p.id = $1`

	row := monitoring.InstrumentQueryRow(ctx, r.db, "select", "products", query, id)
	result, err := scanProductWithOffer(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrProductNotFound
		}
		return nil, err
	}

	return result, nil
}

func (r *ProductRepository) ListActive(ctx context.Context) ([]ports.ProductWithOffer, error) {
	query := catalogQuery + ` WHERE p.is_active = true ORDER BY p.id`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "select", "products", query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []ports.ProductWithOffer
	for rows.Next() {
		row, err := scanProductWithOffer(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, *row)
	}

	return products, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) (*catalog.Product, error) {
	query := `
		INSERT INTO products (name, description, price, quantity, is_active, is_flash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := monitoring.InstrumentQueryRow(ctx, r.db, "insert", "products", query,
		p.Name, p.Description, p.Price, p.Quantity, p.IsActive, p.IsFlash,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *catalog.Product) (*catalog.Product, error) {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, quantity = $4, is_active = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
		RETURNING is_flash, created_at, updated_at
	`

	err := monitoring.InstrumentQueryRow(ctx, r.db, "update", "products", query,
		p.Name, p.Description, p.Price, p.Quantity, p.IsActive, p.ID,
	).Scan(&p.IsFlash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrProductNotFound
		}
		return nil, err
	}

	return p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	result, err := monitoring.InstrumentExec(ctx, r.db, "delete", "products", `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainErrors.ErrProductNotFound
	}

	return nil
}

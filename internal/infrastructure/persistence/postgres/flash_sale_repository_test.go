package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/flashmart/flashmart-service/internal/domain/errors"
	"github.com/flashmart/flashmart-service/internal/domain/promo"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped unique violation", fmt.Errorf("insert offer: %w", &pgconn.PgError{Code: "23505"}), true},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, false},
		{"plain error", fmt.Errorf("connection reset"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}

func TestMissingReference(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			"missing sale",
			&pgconn.PgError{Code: "23503", ConstraintName: "flash_sale_products_flash_sale_id_fkey"},
			domainErrors.ErrFlashSaleNotFound,
		},
		{
			"missing product",
			&pgconn.PgError{Code: "23503", ConstraintName: "flash_sale_products_product_id_fkey"},
			domainErrors.ErrProductNotFound,
		},
		{
			"wrapped missing sale",
			fmt.Errorf("insert offer: %w", &pgconn.PgError{Code: "23503", ConstraintName: "flash_sale_products_flash_sale_id_fkey"}),
			domainErrors.ErrFlashSaleNotFound,
		},
		{"unique violation", &pgconn.PgError{Code: "23505"}, nil},
		{"plain error", fmt.Errorf("connection reset"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, missingReference(tt.err))
		})
	}
}

// The tests below run against a live, migrated database. They skip when
// TEST_DATABASE_DSN is not set.

func testConnection(t *testing.T) *Connection {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { db.Close() })

	return NewConnectionFromDB(db)
}

func insertSale(t *testing.T, conn *Connection, name string) int64 {
	t.Helper()

	var id int64
	err := conn.GetDB().QueryRow(`
		INSERT INTO flash_sales (name, start_time, end_time, is_active)
		VALUES ($1, $2, $3, true)
		RETURNING id
	`, name, time.Now().Add(-time.Hour), time.Now().Add(time.Hour)).Scan(&id)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.GetDB().Exec(`DELETE FROM flash_sale_products WHERE flash_sale_id = $1`, id)
		conn.GetDB().Exec(`DELETE FROM flash_sales WHERE id = $1`, id)
	})

	return id
}

func insertProduct(t *testing.T, conn *Connection, name string) int64 {
	t.Helper()

	var id int64
	err := conn.GetDB().QueryRow(`
		INSERT INTO products (name, description, price, quantity, is_active)
		VALUES ($1, '', 9.99, 10, true)
		RETURNING id
	`, name).Scan(&id)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.GetDB().Exec(`DELETE FROM products WHERE id = $1`, id)
	})

	return id
}

func productIsFlash(t *testing.T, conn *Connection, id int64) bool {
	t.Helper()

	var isFlash bool
	err := conn.GetDB().QueryRow(`SELECT is_flash FROM products WHERE id = $1`, id).Scan(&isFlash)
	require.NoError(t, err)
	return isFlash
}

func testOffer(saleID, productID int64) *promo.Offer {
	return &promo.Offer{
		FlashSaleID:        saleID,
		ProductID:          productID,
		DiscountPercentage: 20,
		MaxQuantityPerUser: 1,
	}
}

func TestAttachProductRejectsDuplicate(t *testing.T) {
	conn := testConnection(t)
	repo := NewFlashSaleRepository(conn)
	ctx := context.Background()

	saleID := insertSale(t, conn, "attach-duplicate sale")
	productID := insertProduct(t, conn, "attach-duplicate product")

	_, err := repo.AttachProduct(ctx, testOffer(saleID, productID))
	require.NoError(t, err)

	_, err = repo.AttachProduct(ctx, testOffer(saleID, productID))
	assert.ErrorIs(t, err, domainErrors.ErrConflictingAssociation)
}

func TestAttachProductMissingSale(t *testing.T) {
	conn := testConnection(t)
	repo := NewFlashSaleRepository(conn)

	productID := insertProduct(t, conn, "attach-missing-sale product")

	_, err := repo.AttachProduct(context.Background(), testOffer(999999999, productID))
	assert.ErrorIs(t, err, domainErrors.ErrFlashSaleNotFound)
}

func TestAttachProductMissingProduct(t *testing.T) {
	conn := testConnection(t)
	repo := NewFlashSaleRepository(conn)

	saleID := insertSale(t, conn, "attach-missing-product sale")

	_, err := repo.AttachProduct(context.Background(), testOffer(saleID, 999999999))
	assert.ErrorIs(t, err, domainErrors.ErrProductNotFound)
}

func TestDetachProductClearsFlagOnLastAssociation(t *testing.T) {
	conn := testConnection(t)
	repo := NewFlashSaleRepository(conn)
	ctx := context.Background()

	firstSale := insertSale(t, conn, "detach-flag sale A")
	secondSale := insertSale(t, conn, "detach-flag sale B")
	productID := insertProduct(t, conn, "detach-flag product")

	_, err := repo.AttachProduct(ctx, testOffer(firstSale, productID))
	require.NoError(t, err)
	_, err = repo.AttachProduct(ctx, testOffer(secondSale, productID))
	require.NoError(t, err)
	require.True(t, productIsFlash(t, conn, productID))

	require.NoError(t, repo.DetachProduct(ctx, firstSale, productID))
	assert.True(t, productIsFlash(t, conn, productID), "flag must survive while another association remains")

	require.NoError(t, repo.DetachProduct(ctx, secondSale, productID))
	assert.False(t, productIsFlash(t, conn, productID), "flag must clear with the last association")
}

func TestDetachProductUnknownAssociation(t *testing.T) {
	conn := testConnection(t)
	repo := NewFlashSaleRepository(conn)

	saleID := insertSale(t, conn, "detach-unknown sale")
	productID := insertProduct(t, conn, "detach-unknown product")

	err := repo.DetachProduct(context.Background(), saleID, productID)
	assert.ErrorIs(t, err, domainErrors.ErrAssociationNotFound)
}

package postgres

import (
	"context"
	"database/sql"

	"golang.org/x/crypto/bcrypt"
)

// Seed loads demo data for local runs: three accounts, one flash product
// and a 24-hour sale discounting it. Every statement upserts, so repeated
// startups leave existing rows alone.
func Seed(ctx context.Context, conn *Connection, bcryptCost int) error {
	db := conn.GetDB()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	hash, err := bcrypt.GenerateFromPassword([]byte("Satu123"), bcryptCost)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, is_admin)
		VALUES
			('admin', 'admin@flashmart.dev', $1, true),
			('user1', 'user1@flashmart.dev', $1, false),
			('user2', 'user2@flashmart.dev', $1, false)
		ON CONFLICT (username) DO NOTHING
	`, string(hash))
	if err != nil {
		return err
	}

	var productID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM products WHERE name = 'Smartphone X'
	`).Scan(&productID)
	if err == sql.ErrNoRows {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO products (name, description, price, quantity, is_active, is_flash)
			VALUES ('Smartphone X', 'Latest model with advanced features', 899.99, 50, true, true)
			RETURNING id
		`).Scan(&productID)
	}
	if err != nil {
		return err
	}

	var saleID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM flash_sales WHERE name = 'Flash Sale'
	`).Scan(&saleID)
	if err == sql.ErrNoRows {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO flash_sales (name, start_time, end_time, is_active)
			VALUES ('Flash Sale', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP + INTERVAL '24 hours', true)
			RETURNING id
		`).Scan(&saleID)
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO flash_sale_products (flash_sale_id, product_id, discount_percentage, max_quantity_per_user)
		VALUES ($1, $2, 20, 1)
		ON CONFLICT (flash_sale_id, product_id) DO NOTHING
	`, saleID, productID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	domainErrors "github.com/flashmart/flashmart-service/internal/domain/errors"
	"github.com/flashmart/flashmart-service/internal/domain/user"
	"github.com/flashmart/flashmart-service/internal/infrastructure/monitoring"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{db: conn.GetDB()}
}

const userColumns = `id, username, email, password_hash, is_admin, created_at, updated_at`

func (r *UserRepository) scanUser(row *sql.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(monitoring.InstrumentQueryRow(ctx, r.db, "select", "users", query, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanUser(monitoring.InstrumentQueryRow(ctx, r.db, "select", "users", query, username))
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "select", "users", query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := monitoring.InstrumentQueryRow(ctx, r.db, "insert", "users", query,
		u.Username, u.Email, u.PasswordHash, u.IsAdmin,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrDuplicateUser
		}
		return nil, err
	}

	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) (*user.User, error) {
	query := `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, is_admin = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
		RETURNING created_at, updated_at
	`

	err := monitoring.InstrumentQueryRow(ctx, r.db, "update", "users", query,
		u.Username, u.Email, u.PasswordHash, u.IsAdmin, u.ID,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrDuplicateUser
		}
		return nil, err
	}

	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := monitoring.InstrumentExec(ctx, r.db, "delete", "users", `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainErrors.ErrUserNotFound
	}

	return nil
}

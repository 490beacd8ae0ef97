package ports

import (
	"context"

	"github.com/flashmart/flashmart-service/internal/domain/user"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	List(ctx context.Context) ([]user.User, error)

	Create(ctx context.Context, u *user.User) (*user.User, error)
	Update(ctx context.Context, u *user.User) (*user.User, error)
	Delete(ctx context.Context, id int64) error
}

package ports

import (
	"context"
	"time"

	"github.com/flashmart/flashmart-service/internal/domain/promo"
	"github.com/flashmart/flashmart-service/internal/domain/user"
)

// SessionStore holds issued login sessions. A token resolves to the
// verified caller identity until it expires or is revoked.
type SessionStore interface {
	CreateSession(ctx context.Context, identity user.Identity, ttl time.Duration) (string, error)
	GetSession(ctx context.Context, token string) (*user.Identity, error)
	DeleteSession(ctx context.Context, token string) error
}

// StatusCache caches the resolved sale status for the public status
// endpoint. It is a display hint only; the admission engine re-derives
// sale facts inside its transaction and never reads this cache.
type StatusCache interface {
	GetSaleStatus(ctx context.Context) (*promo.StatusResult, bool, error)
	SetSaleStatus(ctx context.Context, result *promo.StatusResult, ttl time.Duration) error
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	domainErrors "github.com/flashmart/flashmart-service/internal/domain/errors"
	"github.com/flashmart/flashmart-service/internal/domain/promo"
	"github.com/flashmart/flashmart-service/internal/domain/user"
	"github.com/flashmart/flashmart-service/internal/pkg/logger"
)

const saleStatusKey = "flash_sale:status"

type Cache struct {
	client *redis.Client
	logger *logger.Logger
}

func NewCache(conn *Connection, log *logger.Logger) *Cache {
	return &Cache{
		client: conn.GetClient(),
		logger: log,
	}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// CreateSession stores the identity under a random opaque token. The token
// itself carries no claims; possession of it is the whole credential.
func (c *Cache) CreateSession(ctx context.Context, identity user.Identity, ttl time.Duration) (string, error) {
	token := uuid.New().String()

	data, err := json.Marshal(identity)
	if err != nil {
		return "", err
	}

	if err := c.client.Set(ctx, sessionKey(token), data, ttl).Err(); err != nil {
		return "", err
	}

	return token, nil
}

func (c *Cache) GetSession(ctx context.Context, token string) (*user.Identity, error) {
	data, err := c.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domainErrors.ErrUnauthorized
		}
		return nil, err
	}

	var identity user.Identity
	if err := json.Unmarshal([]byte(data), &identity); err != nil {
		return nil, err
	}

	return &identity, nil
}

func (c *Cache) DeleteSession(ctx context.Context, token string) error {
	return c.client.Del(ctx, sessionKey(token)).Err()
}

func (c *Cache) GetSaleStatus(ctx context.Context) (*promo.StatusResult, bool, error) {
	data, err := c.client.Get(ctx, saleStatusKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}

	var result promo.StatusResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, false, err
	}

	return &result, true, nil
}

func (c *Cache) SetSaleStatus(ctx context.Context, result *promo.StatusResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, saleStatusKey, data, ttl).Err()
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

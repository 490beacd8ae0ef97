package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/flashmart/flashmart-service/internal/config"
	"github.com/flashmart/flashmart-service/internal/infrastructure/monitoring"
)

type Connection struct {
	client *redis.Client
}

func NewConnection(cfg config.RedisConfig) (*Connection, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 100,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	// Instrument once at connection time; every Cache built on this
	// connection shares the hooked client.
	return &Connection{
		client: monitoring.InstrumentRedisClient(client),
	}, nil
}

func (c *Connection) Close() error {
	return c.client.Close()
}

func (c *Connection) GetClient() *redis.Client {
	return c.client
}

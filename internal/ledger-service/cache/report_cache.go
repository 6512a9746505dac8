package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache guarda respostas de relatório/dashboard no Redis com TTL curto.
// A invalidação é só por expiração; apostas novas aparecem no próximo ciclo.
type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func ConnectRedis(addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func DashboardKey() string { return "ledger:dashboard:stats" }

func Report2DKey(date, session string) string {
	return "ledger:report:2D:" + date + ":" + session
}

func Report3DKey(year, month int, period string) string {
	return fmt.Sprintf("ledger:report:3D:%d:%d:%s", year, month, period)
}

func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.R.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, key, b, ttl).Err()
}

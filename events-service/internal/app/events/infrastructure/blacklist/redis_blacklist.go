package blacklist

import (
	"context"

	"eventhub/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	serviceName = "events-service"
	// keyPrefix совпадает с префиксом, который пишет Auth Service при logout
	keyPrefix = "blacklist:"
)

type RedisBlacklist struct {
	client *redis.Client
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

func (b *RedisBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpExists)
	defer timer.ObserveDuration()

	n, err := b.client.Exists(ctx, keyPrefix+token).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpExists)
		return false, err
	}
	return n > 0, nil
}

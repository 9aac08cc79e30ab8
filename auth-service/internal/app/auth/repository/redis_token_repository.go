package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventhub/auth-service/internal/app/auth/entity"
	"eventhub/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Префиксы ключей. blacklist: читает и Events Service.
const (
	refreshTokenPrefix = "refresh_token:"
	userTokensPrefix   = "user_tokens:"
	blacklistPrefix    = "blacklist:"
)

type redisTokenRepository struct {
	client *redis.Client
}

// NewRedisTokenRepository создает новый Redis репозиторий для токенов
func NewRedisTokenRepository(client *redis.Client) TokenRepository {
	return &redisTokenRepository{client: client}
}

// SaveRefreshToken сохраняет refresh токен в Redis с TTL
func (r *redisTokenRepository) SaveRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("token already expired")
	}

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	err := r.client.Set(ctx, refreshTokenPrefix+token, userID.String(), ttl).Err()
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to save refresh token to Redis: %w", err)
	}

	// Множество токенов пользователя нужно, чтобы logout гасил все сессии
	userTokensKey := userTokensPrefix + userID.String()
	timer = metrics.NewRedisTimer(serviceName, metrics.RedisOpSAdd)
	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, userTokensKey, token)
	pipe.Expire(ctx, userTokensKey, ttl)
	_, err = pipe.Exec(ctx)
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSAdd)
		return fmt.Errorf("failed to add token to user tokens set: %w", err)
	}

	return nil
}

// GetRefreshToken получает информацию о refresh токене из Redis
func (r *redisTokenRepository) GetRefreshToken(ctx context.Context, token string) (*entity.RefreshToken, error) {
	key := refreshTokenPrefix + token

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	userIDStr, err := r.client.Get(ctx, key).Result()
	timer.ObserveDuration()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRefreshTokenNotFound
	}
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get refresh token from Redis: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in Redis: %w", err)
	}

	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get token TTL: %w", err)
	}

	return &entity.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// DeleteRefreshToken удаляет конкретный refresh токен. Отсутствующий токен - не ошибка.
func (r *redisTokenRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	key := refreshTokenPrefix + token

	userIDStr, err := r.client.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return fmt.Errorf("failed to get user ID for token: %w", err)
	}

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpDel)
	err = r.client.Del(ctx, key).Err()
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete refresh token from Redis: %w", err)
	}

	if userIDStr != "" {
		r.client.SRem(ctx, userTokensPrefix+userIDStr, token)
	}

	return nil
}

// DeleteUserRefreshTokens удаляет все refresh токены пользователя
func (r *redisTokenRepository) DeleteUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	userTokensKey := userTokensPrefix + userID.String()

	tokens, err := r.client.SMembers(ctx, userTokensKey).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return fmt.Errorf("failed to get user tokens: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, refreshTokenPrefix+token)
	}
	keys = append(keys, userTokensKey)

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpDel)
	err = r.client.Del(ctx, keys...).Err()
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete user tokens: %w", err)
	}

	return nil
}

// AddToBlacklist добавляет access токен в черный список до момента его истечения
func (r *redisTokenRepository) AddToBlacklist(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Истекший токен и так не пройдет проверку
		return nil
	}

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	err := r.client.Set(ctx, blacklistPrefix+token, "1", ttl).Err()
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}

	return nil
}

// IsBlacklisted проверяет, находится ли токен в черном списке
func (r *redisTokenRepository) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpExists)
	exists, err := r.client.Exists(ctx, blacklistPrefix+token).Result()
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpExists)
		return false, fmt.Errorf("failed to check if token is blacklisted: %w", err)
	}

	return exists > 0, nil
}

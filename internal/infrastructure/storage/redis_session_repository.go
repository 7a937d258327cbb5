package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"palm-bot/internal/domain/entity"
	"palm-bot/internal/domain/port"
)

const sessionKeyPrefix = "palm:session:"

// RedisSessionRepository хранит состояния мастера в Redis в виде JSON.
// Сессия живёт ttl с последнего сохранения.
type RedisSessionRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisSessionRepository создаёт хранилище поверх готового клиента
func NewRedisSessionRepository(client redis.UniversalClient, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Get читает и декодирует состояние сессии
func (r *RedisSessionRepository) Get(ctx context.Context, id string) (*entity.WizardState, error) {
	raw, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, entity.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session %s: %w", id, err)
	}

	var state entity.WizardState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &state, nil
}

// Save кодирует состояние и продлевает TTL
func (r *RedisSessionRepository) Save(ctx context.Context, state *entity.WizardState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", state.ID, err)
	}
	if err := r.client.Set(ctx, sessionKey(state.ID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %s: %w", state.ID, err)
	}
	return nil
}

// Delete удаляет сессию
func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del session %s: %w", id, err)
	}
	return nil
}

var _ port.SessionRepository = (*RedisSessionRepository)(nil)

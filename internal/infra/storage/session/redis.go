package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

const (
	keyPrefix  = "wizard:session:"
	lockPrefix = "wizard:submit:"
)

func sessionKey(id string) string {
	return keyPrefix + id
}

func submitLockKey(id string) string {
	return lockPrefix + id
}

// RedisStore хранит сессии мастера бронирования в redis с TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore создает хранилище сессий поверх redis
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Save сохраняет сессию и продлевает её TTL
func (s *RedisStore) Save(ctx context.Context, session *domain.WizardSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%w: Save - marshal: %w", ErrEncode, err)
	}

	if err := s.client.Set(ctx, sessionKey(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Save - set: %w", ErrStore, err)
	}

	return nil
}

// Get получает сессию по ID
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.WizardSession, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - get: %w", ErrStore, err)
	}

	var session domain.WizardSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("%w: Get - unmarshal: %w", ErrEncode, err)
	}

	return &session, nil
}

// Delete удаляет сессию
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("%w: Delete - del: %w", ErrStore, err)
	}
	return nil
}

// AcquireSubmit занимает блокировку отправки сессии через SETNX.
// Возвращает false, если блокировку держит другой запрос
func (s *RedisStore) AcquireSubmit(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, submitLockKey(id), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: AcquireSubmit - setnx: %w", ErrStore, err)
	}
	return ok, nil
}

// ReleaseSubmit снимает блокировку отправки
func (s *RedisStore) ReleaseSubmit(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, submitLockKey(id)).Err(); err != nil {
		return fmt.Errorf("%w: ReleaseSubmit - del: %w", ErrStore, err)
	}
	return nil
}

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore хранит сессии в памяти процесса.
// Используется, когда redis отключен в конфигурации
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	locks   map[string]time.Time
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore создает хранилище сессий в памяти
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		locks:   make(map[string]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Save сохраняет копию сессии
func (s *MemoryStore) Save(_ context.Context, session *domain.WizardSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%w: Save - marshal: %w", ErrEncode, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()
	s.entries[session.ID] = memoryEntry{data: data, expiresAt: s.now().Add(s.ttl)}

	return nil
}

// Get возвращает копию сессии
func (s *MemoryStore) Get(_ context.Context, id string) (*domain.WizardSession, error) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok && !s.now().Before(entry.expiresAt) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	var session domain.WizardSession
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, fmt.Errorf("%w: Get - unmarshal: %w", ErrEncode, err)
	}

	return &session, nil
}

// Delete удаляет сессию
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// AcquireSubmit занимает блокировку отправки сессии на ttl.
// Возвращает false, если блокировка уже занята
func (s *MemoryStore) AcquireSubmit(_ context.Context, id string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if until, ok := s.locks[id]; ok && now.Before(until) {
		return false, nil
	}
	s.locks[id] = now.Add(ttl)

	return true, nil
}

// ReleaseSubmit освобождает блокировку отправки
func (s *MemoryStore) ReleaseSubmit(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, id)
	return nil
}

func (s *MemoryStore) evictExpired() {
	now := s.now()
	for id, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
	for id, until := range s.locks {
		if !now.Before(until) {
			delete(s.locks, id)
		}
	}
}

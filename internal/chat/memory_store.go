package chat

import (
	"context"
	"sync"
	"time"
)

type sessionData struct {
	state       State
	createdAt   time.Time
	lastTouched time.Time
}

// MemoryStore потокобезопасное in-memory хранилище сессий с поддержкой TTL.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]sessionData
	ttl      time.Duration
}

// NewMemoryStore создаёт in-memory хранилище сессий.
// ttl определяет, как долго сессия живёт без активности.
// Если ttl == 0, сессии никогда не истекают.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]sessionData),
		ttl:      ttl,
	}
}

// Get возвращает состояние сессии.
// Ленивая очистка: истёкшая сессия удаляется и возвращается false.
func (s *MemoryStore) Get(ctx context.Context, sessionID string) (State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.sessions[sessionID]
	if !ok {
		return State{}, false, nil
	}
	if s.ttl > 0 && time.Since(data.lastTouched) > s.ttl {
		delete(s.sessions, sessionID)
		return State{}, false, nil
	}

	// Возвращаем копию, чтобы избежать изменений снаружи.
	return data.state.Clone(), true, nil
}

// Set заменяет состояние сессии, создавая её при необходимости.
func (s *MemoryStore) Set(ctx context.Context, sessionID string, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	data, ok := s.sessions[sessionID]
	if !ok {
		data = sessionData{createdAt: now}
	}
	data.state = state.Clone()
	data.lastTouched = now
	s.sessions[sessionID] = data
	return nil
}

// Delete удаляет сессию.
func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

// ClearExpired удаляет все сессии, не трогавшиеся дольше TTL
// относительно переданного времени now.
func (s *MemoryStore) ClearExpired(ctx context.Context, now time.Time) (int, error) {
	if s.ttl == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int
	for sessionID, data := range s.sessions {
		if now.Sub(data.lastTouched) > s.ttl {
			delete(s.sessions, sessionID)
			deleted++
		}
	}
	return deleted, nil
}

// Close ничего не освобождает: хранилище живёт в памяти процесса.
func (s *MemoryStore) Close() error { return nil }

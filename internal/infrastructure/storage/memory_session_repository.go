package storage

import (
	"context"
	"sync"

	"palm-bot/internal/domain/entity"
	"palm-bot/internal/domain/port"
)

// MemorySessionRepository in-memory хранилище сессий мастера.
// Хранит и отдаёт копии, чтобы состояние не разделялось между горутинами.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entity.WizardState
}

// NewMemorySessionRepository создаёт новое in-memory хранилище
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*entity.WizardState),
	}
}

// Get возвращает копию состояния сессии
func (r *MemorySessionRepository) Get(ctx context.Context, id string) (*entity.WizardState, error) {
	r.mu.RLock()
	state, exists := r.sessions[id]
	r.mu.RUnlock()

	if !exists {
		return nil, entity.ErrSessionNotFound
	}

	return state.Clone(), nil
}

// Save сохраняет копию состояния
func (r *MemorySessionRepository) Save(ctx context.Context, state *entity.WizardState) error {
	r.mu.Lock()
	r.sessions[state.ID] = state.Clone()
	r.mu.Unlock()

	return nil
}

// Delete удаляет сессию
func (r *MemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()

	return nil
}

// Len количество сессий в хранилище
func (r *MemorySessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*MemorySessionRepository)(nil)

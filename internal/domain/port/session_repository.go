package port

import (
	"context"

	"palm-bot/internal/domain/entity"
)

// SessionRepository интерфейс хранилища состояний мастера
type SessionRepository interface {
	// Get возвращает состояние сессии или entity.ErrSessionNotFound
	Get(ctx context.Context, id string) (*entity.WizardState, error)

	// Save сохраняет состояние сессии целиком
	Save(ctx context.Context, state *entity.WizardState) error

	// Delete удаляет сессию
	Delete(ctx context.Context, id string) error
}

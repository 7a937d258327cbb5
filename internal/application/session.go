package app

import (
	"context"
	"errors"

	"palm-bot/internal/domain/entity"
	"palm-bot/internal/domain/port"
)

type SessionService struct {
	repo port.SessionRepository
}

func NewSessionService(repo port.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

func (s *SessionService) Get(ctx context.Context, id string) (*entity.WizardState, error) {
	return s.repo.Get(ctx, id)
}

// Start возвращает существующую сессию или создаёт новую с начальным состоянием
func (s *SessionService) Start(ctx context.Context, id string) (*entity.WizardState, error) {
	state, err := s.repo.Get(ctx, id)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, entity.ErrSessionNotFound) {
		return nil, err
	}

	state = entity.NewWizardState(id)
	if err := s.repo.Save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *SessionService) Save(ctx context.Context, state *entity.WizardState) error {
	return s.repo.Save(ctx, state)
}

func (s *SessionService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"palm-bot/internal/domain/entity"
	"palm-bot/internal/domain/port"
)

// WizardService ведёт сессию по шагам: фото -> анкета -> толкование.
// Все изменения состояния проходят под одним мьютексом; ожидание генератора
// идёт без блокировки, чтобы другие сессии не ждали.
type WizardService struct {
	sessions  *SessionService
	reader    port.PalmReader
	previewer port.Previewer
	logger    *zap.Logger

	mu       sync.Mutex
	seq      uint64
	inFlight map[string]uint64 // сессия -> номер идущей генерации
}

// NewWizardService создаёт сервис мастера
func NewWizardService(sessions *SessionService, reader port.PalmReader, previewer port.Previewer, logger *zap.Logger) *WizardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WizardService{
		sessions:  sessions,
		reader:    reader,
		previewer: previewer,
		logger:    logger,
		inFlight:  make(map[string]uint64),
	}
}

// Start возвращает сессию, создавая её при первом обращении
func (s *WizardService) Start(ctx context.Context, id string) (*entity.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Start(ctx, id)
}

// State возвращает текущее состояние сессии
func (s *WizardService) State(ctx context.Context, id string) (*entity.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Get(ctx, id)
}

// UploadImage проверяет и сохраняет фото ладони вместе с превью.
// При ошибке проверки состояние не меняется.
func (s *WizardService) UploadImage(ctx context.Context, id string, img entity.ImageRef) (*entity.WizardState, error) {
	if err := img.Validate(); err != nil {
		s.logger.Info("image rejected",
			zap.String("session", id),
			zap.String("mime", img.MIMEType),
			zap.Int64("size", img.EffectiveSize()),
			zap.Error(err))
		return nil, err
	}

	preview := ""
	if s.previewer != nil {
		p, err := s.previewer.Preview(ctx, &img)
		if err != nil {
			s.logger.Warn("preview failed", zap.String("session", id), zap.Error(err))
		} else {
			preview = p
		}
	}

	return s.mutate(ctx, id, func(state *entity.WizardState) error {
		if state.Step != entity.StepUpload {
			return fmt.Errorf("%w: upload on step %s", entity.ErrInvalidTransition, state.Step)
		}
		state.Image = &img
		state.Preview = preview
		return nil
	})
}

// SetField записывает одно поле анкеты без проверки значения
func (s *WizardService) SetField(ctx context.Context, id string, field entity.Field, value string) (*entity.WizardState, error) {
	return s.mutate(ctx, id, func(state *entity.WizardState) error {
		return state.UserInfo.Set(field, value)
	})
}

// SetFormCursor запоминает, какое поле анкеты спрашивается сейчас
func (s *WizardService) SetFormCursor(ctx context.Context, id string, cursor int) (*entity.WizardState, error) {
	return s.mutate(ctx, id, func(state *entity.WizardState) error {
		state.FormCursor = cursor
		return nil
	})
}

// AdvanceToInfo переход 1 -> 2, только с загруженным фото
func (s *WizardService) AdvanceToInfo(ctx context.Context, id string) (*entity.WizardState, error) {
	return s.mutate(ctx, id, func(state *entity.WizardState) error {
		if state.Step != entity.StepUpload {
			return fmt.Errorf("%w: continue on step %s", entity.ErrInvalidTransition, state.Step)
		}
		if !state.HasImage() {
			return entity.ErrNoImage
		}
		state.Step = entity.StepInfo
		return nil
	})
}

// GoBack переход 2 -> 1
func (s *WizardService) GoBack(ctx context.Context, id string) (*entity.WizardState, error) {
	return s.mutate(ctx, id, func(state *entity.WizardState) error {
		if state.Step != entity.StepInfo {
			return fmt.Errorf("%w: back on step %s", entity.ErrInvalidTransition, state.Step)
		}
		state.Step = entity.StepUpload
		return nil
	})
}

// SubmitForReading проверяет анкету, запускает генератор и ждёт результат.
// Успех: толкование сохранено, шаг 3. Ошибка генератора: остаёмся на шаге 2.
func (s *WizardService) SubmitForReading(ctx context.Context, id string) (*entity.WizardState, error) {
	var token uint64
	state, err := s.mutate(ctx, id, func(state *entity.WizardState) error {
		if state.Step != entity.StepInfo {
			return fmt.Errorf("%w: submit on step %s", entity.ErrInvalidTransition, state.Step)
		}
		if !state.HasImage() {
			return entity.ErrNoImage
		}
		if err := ValidateRequired(state.UserInfo); err != nil {
			return err
		}
		s.seq++
		token = s.seq
		s.inFlight[id] = token
		state.IsGenerating = true
		return nil
	})
	if err != nil {
		if token != 0 {
			s.mu.Lock()
			if s.inFlight[id] == token {
				delete(s.inFlight, id)
			}
			s.mu.Unlock()
		}
		return state, err
	}

	s.logger.Info("palm analysis started", zap.String("session", id))

	reading, readErr := s.reader.Read(ctx, state.Image, state.UserInfo)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[id] != token {
		s.logger.Info("palm analysis discarded", zap.String("session", id))
		return nil, entity.ErrGenerationDiscarded
	}
	delete(s.inFlight, id)

	state, err = s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	state.IsGenerating = false

	if readErr != nil || reading == nil {
		if readErr == nil {
			readErr = errors.New("empty reading")
		}
		s.logger.Error("palm analysis failed", zap.String("session", id), zap.Error(readErr))
		if err := s.sessions.Save(ctx, state); err != nil {
			return nil, err
		}
		return state, fmt.Errorf("%w: %w", entity.ErrGenerationFailed, readErr)
	}

	state.Reading = reading
	state.Step = entity.StepResult
	if err := s.sessions.Save(ctx, state); err != nil {
		return nil, err
	}

	s.logger.Info("palm analysis completed", zap.String("session", id))
	return state, nil
}

// Restart сбрасывает существующую сессию к начальному состоянию.
// Идущая генерация будет отброшена по завершении.
func (s *WizardService) Restart(ctx context.Context, id string) (*entity.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	delete(s.inFlight, id)
	state.Reset()
	if err := s.sessions.Save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// mutate загружает сессию, применяет fn и сохраняет результат.
// Пока идёт генерация, любые изменения отклоняются.
func (s *WizardService) mutate(ctx context.Context, id string, fn func(*entity.WizardState) error) (*entity.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, busy := s.inFlight[id]; busy {
		return state, entity.ErrGenerationInProgress
	}
	// Флаг остался от процесса, упавшего посреди генерации.
	if state.IsGenerating {
		s.logger.Warn("clearing stale generation flag", zap.String("session", id))
		state.IsGenerating = false
	}

	before := state.Clone()
	if err := fn(state); err != nil {
		return before, err
	}

	if err := s.sessions.Save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

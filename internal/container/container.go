package container

import (
	"go.uber.org/zap"

	app "palm-bot/internal/application"
	"palm-bot/internal/domain/port"
)

type Container struct {
	SessionService *app.SessionService
	WizardService  *app.WizardService
}

func New(sessionRepo port.SessionRepository, reader port.PalmReader, previewer port.Previewer, logger *zap.Logger) *Container {
	sessionService := app.NewSessionService(sessionRepo)
	wizardService := app.NewWizardService(sessionService, reader, previewer, logger)

	return &Container{
		SessionService: sessionService,
		WizardService:  wizardService,
	}
}

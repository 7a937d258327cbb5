package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"palm-bot/internal/domain/entity"
	"palm-bot/internal/infrastructure/palmistry"
	"palm-bot/internal/infrastructure/storage"
	"palm-bot/internal/infrastructure/vision"
)

func TestNew_SharesRepository(t *testing.T) {
	repo := storage.NewMemorySessionRepository()
	c := New(repo, palmistry.NewSeededReader(0, 1), vision.NewPreviewer(0, nil), nil)

	ctx := context.Background()
	_, err := c.WizardService.Start(ctx, "s1")
	require.NoError(t, err)

	state, err := c.SessionService.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, entity.StepUpload, state.Step)
	require.Equal(t, 1, repo.Len())
}

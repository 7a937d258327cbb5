//go:build !gocv

package vision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"palm-bot/internal/domain/entity"
)

func TestPreviewer_DataURL(t *testing.T) {
	p := NewPreviewer(0, zap.NewNop())
	require.Equal(t, DefaultMaxSide, p.MaxSide)

	got, err := p.Preview(context.Background(), &entity.ImageRef{MIMEType: "image/png", Data: []byte("hi")})
	require.NoError(t, err)
	require.Equal(t, "data:image/png;base64,aGk=", got)
}

func TestPreviewer_NilImage(t *testing.T) {
	p := NewPreviewer(100, zap.NewNop())
	_, err := p.Preview(context.Background(), nil)
	require.Error(t, err)
}

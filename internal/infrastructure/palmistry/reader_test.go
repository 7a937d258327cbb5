package palmistry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"palm-bot/internal/domain/entity"
)

func TestReader_Read(t *testing.T) {
	r := NewSeededReader(0, 42)
	r.Now = func() time.Time { return genNow }

	reading, err := r.Read(context.Background(), &entity.ImageRef{MIMEType: "image/png"}, ann())
	require.NoError(t, err)
	require.NotNil(t, reading)
	require.Contains(t, reading.FateLine, "25th year")
}

func TestReader_WaitsDelay(t *testing.T) {
	r := NewReader(30*time.Millisecond, nil)

	start := time.Now()
	_, err := r.Read(context.Background(), nil, ann())
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestReader_ContextCancelled(t *testing.T) {
	r := NewReader(time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reading, err := r.Read(ctx, nil, ann())
	require.Nil(t, reading)
	require.ErrorIs(t, err, context.Canceled)
}

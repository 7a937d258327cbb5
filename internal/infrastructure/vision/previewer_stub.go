//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"palm-bot/internal/domain/entity"
	"palm-bot/internal/domain/port"
)

// Previewer без OpenCV: превью совпадает с исходным файлом.
type Previewer struct {
	MaxSide int
	Quality int
	logger  *zap.Logger
}

// NewPreviewer создаёт превьюер-заглушку (без OpenCV)
func NewPreviewer(maxSide int, logger *zap.Logger) *Previewer {
	if maxSide <= 0 {
		maxSide = DefaultMaxSide
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Previewer{MaxSide: maxSide, Quality: 85, logger: logger}
}

// Preview возвращает data URI исходных байтов
func (p *Previewer) Preview(ctx context.Context, img *entity.ImageRef) (string, error) {
	if img == nil {
		return "", errors.New("no image")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return rawPreview(img), nil
}

var _ port.Previewer = (*Previewer)(nil)

//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"

	"gocv.io/x/gocv"
	"go.uber.org/zap"

	"palm-bot/internal/domain/entity"
	"palm-bot/internal/domain/port"
)

// Previewer уменьшает фото ладони через OpenCV и отдаёт JPEG data URI.
// Содержимое фото не проверяется: если декодировать не вышло, отдаём исходник.
type Previewer struct {
	MaxSide int
	Quality int
	logger  *zap.Logger
}

// NewPreviewer создаёт превьюер с ограничением на большую сторону
func NewPreviewer(maxSide int, logger *zap.Logger) *Previewer {
	if maxSide <= 0 {
		maxSide = DefaultMaxSide
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Previewer{MaxSide: maxSide, Quality: 85, logger: logger}
}

// Preview строит превью
func (p *Previewer) Preview(ctx context.Context, img *entity.ImageRef) (string, error) {
	if img == nil {
		return "", errors.New("no image")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mat, err := gocv.IMDecode(img.Data, gocv.IMReadColor)
	if err != nil || mat.Empty() {
		if err == nil {
			mat.Close()
		}
		p.logger.Debug("preview decode failed, using original bytes", zap.String("mime", img.MIMEType))
		return rawPreview(img), nil
	}
	defer mat.Close()

	// Уменьшаем только большие фото, маленькие оставляем как есть.
	src := mat
	if mat.Cols() > p.MaxSide || mat.Rows() > p.MaxSide {
		scale := float64(p.MaxSide) / float64(max(mat.Cols(), mat.Rows()))
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(mat, &resized, image.Pt(int(float64(mat.Cols())*scale), int(float64(mat.Rows())*scale)), 0, 0, gocv.InterpolationArea)
		src = resized
	}

	out, err := src.ToImage()
	if err != nil {
		return rawPreview(img), nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: p.Quality}); err != nil {
		return "", err
	}
	return DataURL("image/jpeg", buf.Bytes()), nil
}

var _ port.Previewer = (*Previewer)(nil)

package port

import (
	"context"

	"palm-bot/internal/domain/entity"
)

// Previewer строит превью загруженного фото (data URI)
type Previewer interface {
	Preview(ctx context.Context, image *entity.ImageRef) (string, error)
}

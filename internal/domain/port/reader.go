package port

import (
	"context"

	"palm-bot/internal/domain/entity"
)

// PalmReader интерфейс генератора толкования.
// Вызов ждёт результата; ошибка и отмена через ctx зарезервированы
// под будущий внешний сервис.
type PalmReader interface {
	Read(ctx context.Context, image *entity.ImageRef, info entity.UserInfo) (*entity.PalmReading, error)
}

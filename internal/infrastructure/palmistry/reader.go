package palmistry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"palm-bot/internal/domain/entity"
	"palm-bot/internal/domain/port"
)

// DefaultDelay искусственная пауза "анализа"
const DefaultDelay = 3 * time.Second

// Reader генератор толкований с имитацией обработки.
// Фото не анализируется: результат зависит только от анкеты, даты и случайного срока.
type Reader struct {
	Delay time.Duration
	Now   func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewReader создаёт генератор. Если rnd == nil, берётся случайное зерно.
func NewReader(delay time.Duration, rnd *rand.Rand) *Reader {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Reader{
		Delay: delay,
		Now:   time.Now,
		rnd:   rnd,
	}
}

// NewSeededReader генератор с фиксированным зерном
func NewSeededReader(delay time.Duration, seed uint64) *Reader {
	return NewReader(delay, rand.New(rand.NewPCG(seed, seed)))
}

// Read ждёт Delay и возвращает толкование.
// Отмена ctx прерывает ожидание; сегодня вызывающие её не используют.
func (r *Reader) Read(ctx context.Context, image *entity.ImageRef, info entity.UserInfo) (*entity.PalmReading, error) {
	_ = image

	if r.Delay > 0 {
		timer := time.NewTimer(r.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("palm analysis interrupted: %w", ctx.Err())
		case <-timer.C:
		}
	}

	r.mu.Lock()
	reading := Generate(info, r.Now(), r.rnd)
	r.mu.Unlock()

	return &reading, nil
}

var _ port.PalmReader = (*Reader)(nil)

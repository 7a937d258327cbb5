package entity

import "strings"

// MaxImageSize максимальный размер загружаемого фото ладони
const MaxImageSize = 10 * 1024 * 1024

// ImageRef загруженное фото. Содержимое не анализируется.
type ImageRef struct {
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Size     int64  `json:"size"` // заявленный размер в байтах
	Data     []byte `json:"data,omitempty"`
}

// EffectiveSize размер для проверки лимита: заявленный или фактический, что больше
func (i ImageRef) EffectiveSize() int64 {
	if n := int64(len(i.Data)); n > i.Size {
		return n
	}
	return i.Size
}

// Validate проверяет размер, затем MIME-тип
func (i ImageRef) Validate() error {
	if i.EffectiveSize() > MaxImageSize {
		return ErrImageTooLarge
	}
	if !strings.HasPrefix(i.MIMEType, "image/") {
		return ErrImageWrongType
	}
	return nil
}

package vision

import (
	"encoding/base64"

	"palm-bot/internal/domain/entity"
)

// DefaultMaxSide наибольшая сторона превью в пикселях
const DefaultMaxSide = 512

// DataURL кодирует байты так же, как FileReader.readAsDataURL
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func rawPreview(image *entity.ImageRef) string {
	return DataURL(image.MIMEType, image.Data)
}

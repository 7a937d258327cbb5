package app

import (
	"strings"

	"palm-bot/internal/domain/entity"
)

// ValidateRequired проверяет обязательные поля по порядку и
// возвращает первое пустое как *entity.MissingFieldError.
// Строка из одних пробелов считается пустой.
func ValidateRequired(info entity.UserInfo) error {
	for _, field := range entity.RequiredFields {
		if strings.TrimSpace(info.Get(field)) == "" {
			return &entity.MissingFieldError{Field: field}
		}
	}
	return nil
}

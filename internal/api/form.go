package telegram

import (
	"strings"

	"palm-bot/internal/domain/entity"
)

// formField вопрос анкеты в порядке, в котором его задаёт бот
type formField struct {
	field  entity.Field
	label  string
	prompt string
}

var formOrder = []formField{
	{entity.FieldName, "Full Name", "👤 Enter your full name"},
	{entity.FieldAge, "Age", "🎂 Your age"},
	{entity.FieldDOB, "Date of Birth", "📅 Your date of birth (YYYY-MM-DD)"},
	{entity.FieldGender, "Gender", "⚧ Select gender"},
	{entity.FieldCountry, "Country", "🌍 Your country"},
	{entity.FieldCity, "City", "🏙 Your city"},
	{entity.FieldReligion, "Religion", "🙏 Your religion (optional, /skip)"},
	{entity.FieldPhone, "Phone Number", "📞 Your phone number (optional, /skip)"},
}

// formIndex позиция поля в анкете, -1 если поля нет
func formIndex(field entity.Field) int {
	for i, f := range formOrder {
		if f.field == field {
			return i
		}
	}
	return -1
}

// firstEmpty первое незаполненное поле анкеты; len(formOrder), если заполнено всё
func firstEmpty(info entity.UserInfo) int {
	for i, f := range formOrder {
		if strings.TrimSpace(info.Get(f.field)) == "" {
			return i
		}
	}
	return len(formOrder)
}

// normalizeAnswer приводит ответ с клавиатуры к значению поля
func normalizeAnswer(field entity.Field, text string) string {
	text = strings.TrimSpace(text)
	if field == entity.FieldGender {
		return strings.ToLower(text)
	}
	return text
}

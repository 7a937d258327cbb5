package entity

import (
	"fmt"
	"strings"
)

// Gender пол пользователя, как он выбран в форме
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Field имя поля анкеты
type Field string

const (
	FieldName     Field = "name"
	FieldAge      Field = "age"
	FieldDOB      Field = "dob"
	FieldCountry  Field = "country"
	FieldCity     Field = "city"
	FieldReligion Field = "religion"
	FieldGender   Field = "gender"
	FieldPhone    Field = "phone"
)

// RequiredFields обязательные поля в порядке проверки.
// Порядок виден пользователю: сообщается первое незаполненное поле.
var RequiredFields = []Field{FieldName, FieldAge, FieldDOB, FieldCountry, FieldCity, FieldGender}

// AllFields все поля анкеты
var AllFields = []Field{FieldName, FieldAge, FieldDOB, FieldCountry, FieldCity, FieldReligion, FieldGender, FieldPhone}

// ParseField разбирает имя поля без учёта регистра
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllFields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// IsRequired сообщает, входит ли поле в обязательный набор
func (f Field) IsRequired() bool {
	for _, r := range RequiredFields {
		if f == r {
			return true
		}
	}
	return false
}

// UserInfo анкета пользователя (шаг 2)
type UserInfo struct {
	Name     string `json:"name"`
	Age      string `json:"age"` // число текстом, как в поле ввода
	DOB      string `json:"dob"`
	Country  string `json:"country"`
	City     string `json:"city"`
	Religion string `json:"religion"` // необязательное
	Gender   Gender `json:"gender"`
	Phone    string `json:"phone"` // необязательное
}

// Set записывает значение поля без какой-либо проверки
func (u *UserInfo) Set(field Field, value string) error {
	switch field {
	case FieldName:
		u.Name = value
	case FieldAge:
		u.Age = value
	case FieldDOB:
		u.DOB = value
	case FieldCountry:
		u.Country = value
	case FieldCity:
		u.City = value
	case FieldReligion:
		u.Religion = value
	case FieldGender:
		u.Gender = Gender(value)
	case FieldPhone:
		u.Phone = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, string(field))
	}
	return nil
}

// Get возвращает значение поля
func (u UserInfo) Get(field Field) string {
	switch field {
	case FieldName:
		return u.Name
	case FieldAge:
		return u.Age
	case FieldDOB:
		return u.DOB
	case FieldCountry:
		return u.Country
	case FieldCity:
		return u.City
	case FieldReligion:
		return u.Religion
	case FieldGender:
		return string(u.Gender)
	case FieldPhone:
		return u.Phone
	}
	return ""
}

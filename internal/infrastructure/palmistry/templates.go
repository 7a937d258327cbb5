package palmistry

import (
	"strings"

	"palm-bot/internal/domain/entity"
)

// choice вариант подстановки: первый, чей предикат истинен, побеждает.
// Вариант с when == nil срабатывает всегда и должен стоять последним.
type choice struct {
	when  func(facts) bool
	value string
}

// section шаблон одного поля толкования.
// {slot} из slots выбирается по предикатам, остальные {ключи} берутся из facts.vars().
type section struct {
	template string
	slots    map[string][]choice
}

func isFemale(f facts) bool { return f.gender == entity.GenderFemale }

func isMale(f facts) bool { return f.gender == entity.GenderMale }

func hasReligion(f facts) bool { return f.religion != "" }

func olderThan(n int) func(facts) bool {
	return func(f facts) bool { return f.age.greaterThan(n) }
}

func cityContains(sub string) func(facts) bool {
	return func(f facts) bool { return strings.Contains(f.cityLower, sub) }
}

var (
	lifeLine = section{
		template: "Your life line suggests a {tone} approach to life. You have strong vitality and a natural resilience that will serve you well throughout your journey.",
		slots: map[string][]choice{
			"tone": {
				{when: olderThan(25), value: "mature and experienced"},
				{value: "youthful and energetic"},
			},
		},
	}

	heartLine = section{
		template: "Your heart line indicates {nature}. You value meaningful relationships and have the capacity for deep, lasting love.",
		slots: map[string][]choice{
			"nature": {
				{when: isFemale, value: "a deeply emotional and intuitive nature"},
				{value: "strong emotional intelligence and loyalty"},
			},
		},
	}

	headLine = section{
		template: "The head line reveals excellent analytical abilities and {wisdom}. You approach problems with both logic and creativity.",
		slots: map[string][]choice{
			"wisdom": {
				{when: hasReligion, value: "a spiritual wisdom that guides your decisions"},
				{value: "practical intelligence"},
			},
		},
	}

	fateLine = section{
		template: "Your fate line suggests that significant opportunities will emerge around your {pivotalAge}th year. Your {country} heritage brings unique advantages to your path.",
	}

	loveLife = section{
		template: "In matters of the heart, the next {duration} will bring meaningful connections. Your palm suggests a soulmate connection with someone who shares your {shared}.",
		slots: map[string][]choice{
			"duration": {
				{when: isFemale, value: "2-3 years"},
				{value: "1-2 years"},
			},
		},
	}

	career = section{
		template: "Professionally, your palm indicates natural talents that align with {field}. Success peaks around age {peakAge}.",
		slots: map[string][]choice{
			"field": {
				{when: cityContains("new york"), value: "business and finance"},
				{when: cityContains("los angeles"), value: "creative industries"},
				{value: "technology and innovation"},
			},
		},
	}

	health = section{
		template: "Your health line shows good overall vitality. Pay attention to {focus}. Regular exercise will enhance your natural energy.",
		slots: map[string][]choice{
			"focus": {
				{when: olderThan(30), value: "stress management and work-life balance"},
				{value: "building healthy habits early"},
			},
		},
	}

	wealth = section{
		template: "Financial prosperity is indicated through multiple income streams. Your palm suggests major financial improvements within {years} years, particularly through {channel}.",
		slots: map[string][]choice{
			"channel": {
				{when: isMale, value: "investments or business ventures"},
				{value: "creative pursuits or partnerships"},
			},
		},
	}

	personality = section{
		template: "You possess a {guidance} personality with strong {quality} qualities. People are drawn to your authentic nature and positive energy.",
		slots: map[string][]choice{
			"guidance": {
				{when: hasReligion, value: "spiritually guided"},
				{value: "naturally intuitive"},
			},
			"quality": {
				{when: isFemale, value: "empathetic"},
				{value: "leadership"},
			},
		},
	}

	futureInsights = section{
		template: "The coming months will bring opportunities for growth, especially around {insightDate}. Trust your instincts when making important decisions about relationships and career moves.",
	}
)

// render подставляет значения слотов и фактов за один проход
func (s section) render(f facts) string {
	vars := f.vars()
	pairs := make([]string, 0, 2*(len(vars)+len(s.slots)))
	for name, choices := range s.slots {
		pairs = append(pairs, "{"+name+"}", pick(choices, f))
	}
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(s.template)
}

func pick(choices []choice, f facts) string {
	for _, c := range choices {
		if c.when == nil || c.when(f) {
			return c.value
		}
	}
	return ""
}

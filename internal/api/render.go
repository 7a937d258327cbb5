package telegram

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"palm-bot/internal/domain/entity"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// escapeText убирает разметку из пользовательского текста для parse_mode=HTML
func escapeText(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy.Sanitize(raw)
}

// renderReading собирает толкование в одно HTML-сообщение
func renderReading(name string, reading *entity.PalmReading) string {
	var b strings.Builder
	b.WriteString("🔮 <b>Your Personalized Palm Reading</b>\n")
	b.WriteString("Hello ")
	b.WriteString(escapeText(name))
	b.WriteString(", here's what your palm reveals about your destiny\n")

	for _, s := range reading.Sections() {
		b.WriteString("\n<b>")
		b.WriteString(escapeText(s.Title))
		b.WriteString("</b>\n")
		b.WriteString(escapeText(s.Text))
		b.WriteString("\n")
	}

	b.WriteString("\nSend /restart to get another reading.")
	return b.String()
}

// renderSummary показывает заполненную анкету перед отправкой
func renderSummary(info entity.UserInfo) string {
	var b strings.Builder
	b.WriteString("📋 <b>Your details</b>\n")
	for _, f := range formOrder {
		value := info.Get(f.field)
		if value == "" {
			value = "-"
		}
		b.WriteString(f.label)
		b.WriteString(": ")
		b.WriteString(escapeText(value))
		b.WriteString("\n")
	}
	b.WriteString("\nSend /read to get your palm reading, /set &lt;field&gt; &lt;value&gt; to fix something or /back to change the photo.")
	return b.String()
}

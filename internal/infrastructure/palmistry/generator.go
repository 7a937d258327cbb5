package palmistry

import (
	"strconv"
	"strings"
	"time"

	"palm-bot/internal/domain/entity"
)

// FutureInsightsOffset через сколько после генерации наступает "важная дата"
const FutureInsightsOffset = 90 * 24 * time.Hour

// dateLayout соответствует en-US toLocaleDateString: 1/2/2006
const dateLayout = "1/2/2006"

// Rand источник случайности для срока в разделе wealth
type Rand interface {
	IntN(n int) int
}

// Generate строит толкование из анкеты. Единственная случайная величина:
// срок в разделе wealth, целое из {2, 3, 4}.
func Generate(info entity.UserInfo, now time.Time, rnd Rand) entity.PalmReading {
	f := newFacts(info, now, rnd.IntN(3)+2)

	return entity.PalmReading{
		LifeLine:       lifeLine.render(f),
		HeartLine:      heartLine.render(f),
		HeadLine:       headLine.render(f),
		FateLine:       fateLine.render(f),
		LoveLife:       loveLife.render(f),
		Career:         career.render(f),
		Health:         health.render(f),
		Wealth:         wealth.render(f),
		Personality:    personality.render(f),
		FutureInsights: futureInsights.render(f),
	}
}

// facts значения анкеты, от которых зависят шаблоны
type facts struct {
	age         age
	gender      entity.Gender
	religion    string
	country     string
	cityLower   string
	years       int
	insightDate time.Time
}

func newFacts(info entity.UserInfo, now time.Time, years int) facts {
	return facts{
		age:         parseAge(info.Age),
		gender:      info.Gender,
		religion:    info.Religion,
		country:     info.Country,
		cityLower:   strings.ToLower(info.City),
		years:       years,
		insightDate: now.Add(FutureInsightsOffset),
	}
}

func (f facts) vars() map[string]string {
	shared := f.religion
	if shared == "" {
		shared = "values"
	}
	return map[string]string{
		"pivotalAge":  f.age.format(func(n int) int { return floorDiv(n, 10)*10 + 5 }),
		"peakAge":     f.age.format(func(n int) int { return n + 7 }),
		"country":     f.country,
		"shared":      shared,
		"years":       strconv.Itoa(f.years),
		"insightDate": f.insightDate.Format(dateLayout),
	}
}

// age возраст как его понимает parseInt: ok == false означает NaN
type age struct {
	n  int
	ok bool
}

// parseAge берёт ведущее целое из текста, как parseInt.
// Нечисловой текст даёт NaN: сравнения ложны, числа печатаются как "NaN".
func parseAge(s string) age {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return age{}
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return age{}
	}
	return age{n: n, ok: true}
}

func (a age) greaterThan(n int) bool {
	return a.ok && a.n > n
}

func (a age) format(fn func(int) int) string {
	if !a.ok {
		return "NaN"
	}
	return strconv.Itoa(fn(a.n))
}

// floorDiv целочисленное деление с округлением вниз (Math.floor)
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

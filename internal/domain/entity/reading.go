package entity

// PalmReading готовое "толкование" ладони. Создаётся один раз и не меняется.
type PalmReading struct {
	LifeLine       string `json:"lifeLine"`
	HeartLine      string `json:"heartLine"`
	HeadLine       string `json:"headLine"`
	FateLine       string `json:"fateLine"`
	LoveLife       string `json:"loveLife"`
	Career         string `json:"career"`
	Health         string `json:"health"`
	Wealth         string `json:"wealth"`
	Personality    string `json:"personality"`
	FutureInsights string `json:"futureInsights"`
}

// ReadingSection раздел толкования с заголовком для показа
type ReadingSection struct {
	Title string
	Text  string
}

// Sections возвращает разделы в порядке показа
func (r PalmReading) Sections() []ReadingSection {
	return []ReadingSection{
		{Title: "Life Line", Text: r.LifeLine},
		{Title: "Heart Line", Text: r.HeartLine},
		{Title: "Head Line", Text: r.HeadLine},
		{Title: "Fate Line", Text: r.FateLine},
		{Title: "Love Life Predictions", Text: r.LoveLife},
		{Title: "Career & Success", Text: r.Career},
		{Title: "Health & Vitality", Text: r.Health},
		{Title: "Wealth & Prosperity", Text: r.Wealth},
		{Title: "Personality Traits", Text: r.Personality},
		{Title: "Future Insights", Text: r.FutureInsights},
	}
}

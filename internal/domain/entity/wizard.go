package entity

// Step шаг мастера
type Step int

const (
	StepUpload Step = 1 // Загрузка фото
	StepInfo   Step = 2 // Анкета
	StepResult Step = 3 // Результат
)

func (s Step) String() string {
	switch s {
	case StepUpload:
		return "upload"
	case StepInfo:
		return "info"
	case StepResult:
		return "result"
	}
	return "unknown"
}

// WizardState состояние одного прохода мастера.
// Принадлежит ровно одной сессии (чат или HTTP-сессия).
type WizardState struct {
	ID           string       `json:"id"`
	Step         Step         `json:"step"`
	Image        *ImageRef    `json:"image,omitempty"`
	Preview      string       `json:"preview"` // data URI
	UserInfo     UserInfo     `json:"userInfo"`
	Reading      *PalmReading `json:"reading,omitempty"`
	IsGenerating bool         `json:"isGenerating"`
	FormCursor   int          `json:"formCursor"` // какое поле бот спрашивает сейчас
}

// NewWizardState создаёт состояние с начальными значениями
func NewWizardState(id string) *WizardState {
	return &WizardState{
		ID:   id,
		Step: StepUpload,
	}
}

// Reset возвращает состояние к начальным значениям, сохраняя ID
func (w *WizardState) Reset() {
	*w = *NewWizardState(w.ID)
}

// HasImage загружено ли фото
func (w *WizardState) HasImage() bool {
	return w.Image != nil
}

// Clone возвращает копию, которую можно менять независимо
func (w *WizardState) Clone() *WizardState {
	c := *w
	if w.Image != nil {
		img := *w.Image
		c.Image = &img
	}
	if w.Reading != nil {
		r := *w.Reading
		c.Reading = &r
	}
	return &c
}

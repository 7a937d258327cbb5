package httpapi

import "palm-bot/internal/domain/entity"

// stateView состояние сессии для клиента; байты фото не отдаются
type stateView struct {
	ID           string              `json:"id"`
	Step         entity.Step         `json:"step"`
	StepName     string              `json:"stepName"`
	HasImage     bool                `json:"hasImage"`
	Image        *imageView          `json:"image,omitempty"`
	Preview      string              `json:"preview"`
	UserInfo     entity.UserInfo     `json:"userInfo"`
	Reading      *entity.PalmReading `json:"reading"`
	IsGenerating bool                `json:"isGenerating"`
}

type imageView struct {
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

func newStateView(state *entity.WizardState) stateView {
	v := stateView{
		ID:           state.ID,
		Step:         state.Step,
		StepName:     state.Step.String(),
		HasImage:     state.HasImage(),
		Preview:      state.Preview,
		UserInfo:     state.UserInfo,
		Reading:      state.Reading,
		IsGenerating: state.IsGenerating,
	}
	if state.Image != nil {
		v.Image = &imageView{
			Name:     state.Image.Name,
			MIMEType: state.Image.MIMEType,
			Size:     state.Image.EffectiveSize(),
		}
	}
	return v
}

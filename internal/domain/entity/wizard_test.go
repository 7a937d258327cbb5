package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWizardState_Defaults(t *testing.T) {
	w := NewWizardState("s1")
	require.Equal(t, "s1", w.ID)
	require.Equal(t, StepUpload, w.Step)
	require.Nil(t, w.Image)
	require.Empty(t, w.Preview)
	require.Equal(t, UserInfo{}, w.UserInfo)
	require.Nil(t, w.Reading)
	require.False(t, w.IsGenerating)
}

func TestWizardState_Reset(t *testing.T) {
	w := NewWizardState("s1")
	w.Step = StepResult
	w.Image = &ImageRef{MIMEType: "image/png"}
	w.Preview = "data:image/png;base64,AA=="
	w.UserInfo.Name = "Ann"
	w.Reading = &PalmReading{LifeLine: "x"}
	w.IsGenerating = true
	w.FormCursor = 4

	w.Reset()
	require.Equal(t, NewWizardState("s1"), w)
}

func TestWizardState_CloneIsIndependent(t *testing.T) {
	w := NewWizardState("s1")
	w.Image = &ImageRef{Name: "a.png"}
	c := w.Clone()
	c.Image.Name = "b.png"
	c.UserInfo.Name = "Bob"
	require.Equal(t, "a.png", w.Image.Name)
	require.Empty(t, w.UserInfo.Name)
}

func TestPalmReading_SectionsOrder(t *testing.T) {
	r := PalmReading{LifeLine: "1", FutureInsights: "10"}
	s := r.Sections()
	require.Len(t, s, 10)
	require.Equal(t, "Life Line", s[0].Title)
	require.Equal(t, "1", s[0].Text)
	require.Equal(t, "Future Insights", s[9].Title)
	require.Equal(t, "10", s[9].Text)
}

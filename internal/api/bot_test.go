package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	app "palm-bot/internal/application"
	"palm-bot/internal/domain/entity"
	"palm-bot/internal/infrastructure/palmistry"
	"palm-bot/internal/infrastructure/storage"
	"palm-bot/internal/infrastructure/vision"
)

// fakeAPI записывает отправленные сообщения и отдаёт файлы с тестового сервера
type fakeAPI struct {
	mu      sync.Mutex
	sent    []tgbotapi.MessageConfig
	fileURL string
	updates chan tgbotapi.Update
}

func (f *fakeAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	if f.updates != nil {
		return f.updates
	}
	return make(chan tgbotapi.Update)
}

func (f *fakeAPI) StopReceivingUpdates() {}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetFileDirectURL(fileID string) (string, error) {
	return f.fileURL + "/" + fileID, nil
}

func (f *fakeAPI) last() tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

func (f *fakeAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.Text)
	}
	return out
}

type harness struct {
	bot    *Bot
	api    *fakeAPI
	wizard *app.WizardService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg-bytes"))
	}))
	t.Cleanup(files.Close)

	api := &fakeAPI{fileURL: files.URL}
	sessions := app.NewSessionService(storage.NewMemorySessionRepository())
	wizard := app.NewWizardService(sessions, palmistry.NewSeededReader(0, 9), vision.NewPreviewer(0, nil), nil)
	return &harness{bot: newBot(api, wizard, nil), api: api, wizard: wizard}
}

const chatID = 77

func command(text string) *tgbotapi.Message {
	name := strings.SplitN(text, " ", 2)[0]
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		From:     &tgbotapi.User{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}
}

func text(s string) *tgbotapi.Message {
	return &tgbotapi.Message{Text: s, Chat: &tgbotapi.Chat{ID: chatID}, From: &tgbotapi.User{ID: chatID}}
}

func photo(size int) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: chatID},
		From:  &tgbotapi.User{ID: chatID},
		Photo: []tgbotapi.PhotoSize{{FileID: "small", FileSize: 10}, {FileID: "big", FileUniqueID: "u1", FileSize: size}},
	}
}

func (h *harness) state(t *testing.T) *entity.WizardState {
	t.Helper()
	s, err := h.wizard.State(context.Background(), sessionID(chatID))
	require.NoError(t, err)
	return s
}

func TestBot_FullConversation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.bot.handleMessage(ctx, command("/start"))
	require.Equal(t, msgStart, h.api.last().Text)

	h.bot.handleMessage(ctx, text("hello"))
	require.Equal(t, msgSendPhoto, h.api.last().Text)

	h.bot.handleMessage(ctx, photo(2048))
	require.Equal(t, msgUploaded, h.api.last().Text)
	s := h.state(t)
	require.Equal(t, []byte("jpeg-bytes"), s.Image.Data)
	require.Equal(t, "image/jpeg", s.Image.MIMEType)

	h.bot.handleMessage(ctx, command("/continue"))
	require.Equal(t, formOrder[0].prompt, h.api.last().Text)

	answers := []string{"Ann", "28", "1996-01-01", "Female", "Canada", "Toronto"}
	for i, a := range answers {
		h.bot.handleMessage(ctx, text(a))
		require.Equal(t, formOrder[i+1].prompt, h.api.last().Text, a)
	}
	require.Equal(t, entity.GenderFemale, h.state(t).UserInfo.Gender)

	h.bot.handleMessage(ctx, command("/skip"))
	require.Equal(t, formOrder[7].prompt, h.api.last().Text)
	h.bot.handleMessage(ctx, command("/skip"))
	require.Contains(t, h.api.last().Text, "Your details")

	h.bot.handleMessage(ctx, command("/read"))
	texts := h.api.texts()
	require.Contains(t, texts, msgAnalyzing)
	require.Contains(t, texts, msgCompleted)

	reading := h.api.last()
	require.Equal(t, tgbotapi.ModeHTML, reading.ParseMode)
	require.Contains(t, reading.Text, "Hello Ann")
	require.Contains(t, reading.Text, "25th year")
	require.Contains(t, reading.Text, "Career &amp; Success")
	require.Equal(t, entity.StepResult, h.state(t).Step)

	h.bot.handleMessage(ctx, command("/restart"))
	require.Equal(t, msgRestarted, h.api.last().Text)
	require.Equal(t, entity.NewWizardState(sessionID(chatID)), h.state(t))
}

func TestBot_PhotoTooLarge(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.bot.handleMessage(ctx, photo(entity.MaxImageSize+1))
	require.Equal(t, "⚠️ Image size should be less than 10MB", h.api.last().Text)
	require.False(t, h.state(t).HasImage())
}

func TestBot_DocumentWrongType(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	msg := text("")
	msg.Document = &tgbotapi.Document{FileID: "doc", FileName: "palm.pdf", MimeType: "application/pdf", FileSize: 100}
	h.bot.handleMessage(ctx, msg)
	require.Equal(t, "⚠️ Please upload a valid image file", h.api.last().Text)
	require.False(t, h.state(t).HasImage())
}

func TestBot_ContinueWithoutPhoto(t *testing.T) {
	h := newHarness(t)
	h.bot.handleMessage(context.Background(), command("/continue"))
	require.Equal(t, "⚠️ Please upload your palm photo first", h.api.last().Text)
}

func TestBot_ReadReportsFirstMissingField(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.bot.handleMessage(ctx, photo(100))
	h.bot.handleMessage(ctx, command("/continue"))
	h.bot.handleMessage(ctx, text("Ann"))
	h.bot.handleMessage(ctx, command("/set country Canada"))
	require.Equal(t, msgSaved, h.api.last().Text)

	h.bot.handleMessage(ctx, command("/read"))
	texts := h.api.texts()
	require.NotContains(t, texts, msgAnalyzing)
	require.Contains(t, texts, "⚠️ Please fill in your age")
	require.Equal(t, formOrder[formIndex(entity.FieldAge)].prompt, h.api.last().Text)
	require.Equal(t, entity.StepInfo, h.state(t).Step)
}

func TestBot_SkipRequiredField(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.bot.handleMessage(ctx, photo(100))
	h.bot.handleMessage(ctx, command("/continue"))
	h.bot.handleMessage(ctx, command("/skip"))
	require.Equal(t, msgRequired, h.api.last().Text)
}

func TestBot_BackAndPhotoLocked(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.bot.handleMessage(ctx, photo(100))
	h.bot.handleMessage(ctx, command("/continue"))
	h.bot.handleMessage(ctx, photo(100))
	require.Equal(t, msgPhotoLocked, h.api.last().Text)

	h.bot.handleMessage(ctx, command("/back"))
	require.Equal(t, msgBack, h.api.last().Text)
	require.Equal(t, entity.StepUpload, h.state(t).Step)
}

func TestBot_SetUsageAndUnknownCommand(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.bot.handleMessage(ctx, command("/set name"))
	require.Equal(t, msgSetUsage, h.api.last().Text)

	h.bot.handleMessage(ctx, command("/set zodiac leo"))
	require.Equal(t, "⚠️ Unknown field", h.api.last().Text)

	h.bot.handleMessage(ctx, command("/fortune"))
	require.Equal(t, msgUnknownCommand, h.api.last().Text)
}

func TestBot_RunStopsOnCancel(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, h.bot.Run(ctx))
}

func TestBot_BurstOfAnswersKeepsOrder(t *testing.T) {
	for run := 0; run < 20; run++ {
		h := newHarness(t)
		ctx := context.Background()

		h.bot.handleMessage(ctx, photo(100))
		h.bot.handleMessage(ctx, command("/continue"))

		answers := []string{"Ann", "28", "1996-01-01", "Female", "Canada", "Toronto"}
		h.api.updates = make(chan tgbotapi.Update, len(answers))
		for i, a := range answers {
			h.api.updates <- tgbotapi.Update{UpdateID: i + 1, Message: text(a)}
		}
		close(h.api.updates)

		require.NoError(t, h.bot.Run(ctx))

		require.Equal(t, entity.UserInfo{
			Name:    "Ann",
			Age:     "28",
			DOB:     "1996-01-01",
			Gender:  entity.GenderFemale,
			Country: "Canada",
			City:    "Toronto",
		}, h.state(t).UserInfo)
		require.Equal(t, formIndex(entity.FieldReligion), h.state(t).FormCursor)
	}
}

func TestBot_ChatsAreIndependent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	other := func(s string) *tgbotapi.Message {
		m := text(s)
		m.Chat = &tgbotapi.Chat{ID: chatID + 1}
		return m
	}

	h.api.updates = make(chan tgbotapi.Update, 2)
	h.api.updates <- tgbotapi.Update{UpdateID: 1, Message: text("hello")}
	h.api.updates <- tgbotapi.Update{UpdateID: 2, Message: other("hello")}
	close(h.api.updates)

	require.NoError(t, h.bot.Run(ctx))

	for _, id := range []int64{chatID, chatID + 1} {
		_, err := h.wizard.State(ctx, sessionID(id))
		require.NoError(t, err)
	}
	require.Equal(t, []string{msgSendPhoto, msgSendPhoto}, h.api.texts())
	require.Empty(t, h.bot.queues)
}

func TestBot_NonTextAnswerRepeatsQuestion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.bot.handleMessage(ctx, photo(100))
	h.bot.handleMessage(ctx, command("/continue"))
	h.bot.handleMessage(ctx, text("Ann"))

	sticker := text("")
	sticker.Sticker = &tgbotapi.Sticker{FileID: "st", Emoji: "👋"}
	h.bot.handleMessage(ctx, sticker)

	require.Equal(t, formOrder[formIndex(entity.FieldAge)].prompt, h.api.last().Text)
	s := h.state(t)
	require.Equal(t, formIndex(entity.FieldAge), s.FormCursor)
	require.Empty(t, s.UserInfo.Age)
	require.Equal(t, "Ann", s.UserInfo.Name)
}

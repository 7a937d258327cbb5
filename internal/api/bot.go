package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	app "palm-bot/internal/application"
	"palm-bot/internal/domain/entity"
)

const (
	msgStart = `🖐 Welcome to Palm Reading AI!

Discover your future through the ancient art of palmistry.

📸 Step 1: send me a clear photo of your dominant hand, palm facing up, in good lighting (max 10MB).

📋 Commands:
/help — how it works
/restart — start over`

	msgHelp = `ℹ️ How it works:

1️⃣ Send a photo of your palm
2️⃣ Answer a few questions about yourself
3️⃣ Get your personalized palm reading

📋 Commands:
/continue — go to personal information
/back — return to the photo step
/set <field> <value> — change a field (name, age, dob, country, city, religion, gender, phone)
/skip — skip an optional question
/read — get my palm reading
/restart — start over

For entertainment purposes only.`

	msgSendPhoto      = "📸 Please send a photo of your palm."
	msgUploaded       = "✅ Palm image uploaded successfully!\n\nSend /continue to fill in your personal information."
	msgPhotoLocked    = "📸 Your photo is already uploaded. Send /back to replace it."
	msgBack           = "⬅️ Back to step 1. Send a new photo or /continue to keep the current one."
	msgInfoStep       = "👤 Step 2: Personal Information\nProvide your details for a personalized palm reading analysis."
	msgAnalyzing      = "⏳ Analyzing palm..."
	msgCompleted      = "✨ Palm analysis completed successfully!"
	msgRestarted      = "🔄 Let's start over.\n\n" + msgSendPhoto
	msgAfterResult    = "Send /restart to get another reading."
	msgSaved          = "👌 Saved."
	msgSetUsage       = "Usage: /set <field> <value>"
	msgRequired       = "This question is required."
	msgUnknownCommand = "❓ Unknown command. Use /help for help."
	msgDownloadError  = "⚠️ Could not download the photo. Please try again."
)

// telegramAPI часть tgbotapi.BotAPI, которой пользуется бот
type telegramAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot представляет Telegram-бота: один мастер на чат
type Bot struct {
	api    telegramAPI
	wizard *app.WizardService
	logger *zap.Logger
	client *http.Client
	wg     sync.WaitGroup

	// Очереди сообщений по чатам; ключ есть, пока у чата работает обработчик.
	queueMu sync.Mutex
	queues  map[int64][]*tgbotapi.Message
}

// NewBot создаёт нового бота
func NewBot(token string, wizard *app.WizardService, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.Info("Authorized on account", zap.String("username", api.Self.UserName))

	return newBot(api, wizard, logger), nil
}

func newBot(api telegramAPI, wizard *app.WizardService, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		api:    api,
		wizard: wizard,
		logger: logger,
		client: &http.Client{Timeout: time.Minute},
		queues: make(map[int64][]*tgbotapi.Message),
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx.
// Сообщения одного чата обрабатываются строго по очереди, разные чаты
// обрабатываются параллельно.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			return nil
		case update, ok := <-updates:
			if !ok {
				b.wg.Wait()
				return nil
			}
			if update.Message == nil {
				continue
			}

			b.dispatch(context.WithoutCancel(ctx), update.Message)
		}
	}
}

// dispatch ставит сообщение в очередь его чата. Сброс мастера идёт мимо
// очереди, иначе он ждал бы окончания анализа, который должен отменить.
func (b *Bot) dispatch(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil {
		return
	}

	if msg.IsCommand() && isInterrupt(msg.Command()) {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.handleMessage(ctx, msg)
		}()
		return
	}

	chatID := msg.Chat.ID

	b.queueMu.Lock()
	queue, running := b.queues[chatID]
	b.queues[chatID] = append(queue, msg)
	b.queueMu.Unlock()

	if running {
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.drain(ctx, chatID)
	}()
}

// drain обрабатывает очередь чата, пока она не опустеет
func (b *Bot) drain(ctx context.Context, chatID int64) {
	for {
		b.queueMu.Lock()
		queue := b.queues[chatID]
		if len(queue) == 0 {
			delete(b.queues, chatID)
			b.queueMu.Unlock()
			return
		}
		msg := queue[0]
		b.queues[chatID] = queue[1:]
		b.queueMu.Unlock()

		b.handleMessage(ctx, msg)
	}
}

func isInterrupt(command string) bool {
	switch command {
	case "start", "restart", "cancel":
		return true
	}
	return false
}

func sessionID(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

// downloadFile скачивает файл из Telegram, не больше лимита на фото
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, entity.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

// sendHTML отправляет сообщение с HTML-разметкой
func (b *Bot) sendHTML(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	b.send(msg)
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("Error sending message", zap.Int64("chat_id", msg.ChatID), zap.Error(err))
	}
}

package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	app "palm-bot/internal/application"
	"palm-bot/internal/domain/entity"
)

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	id := sessionID(msg.Chat.ID)

	state, err := b.wizard.Start(ctx, id)
	if err != nil {
		b.logger.Error("Error loading session", zap.String("session", id), zap.Error(err))
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, state)
		return
	}

	// Обработка фото и картинок, присланных файлом
	if len(msg.Photo) > 0 || msg.Document != nil {
		b.handlePhoto(ctx, msg, state)
		return
	}

	b.handleText(ctx, msg, state)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, state *entity.WizardState) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		if _, err := b.wizard.Restart(ctx, state.ID); err != nil {
			b.reportError(chatID, err)
			return
		}
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "continue":
		state, err := b.wizard.AdvanceToInfo(ctx, state.ID)
		if err != nil {
			b.reportError(chatID, err)
			return
		}
		b.sendMessage(chatID, msgInfoStep)
		b.askFrom(ctx, chatID, state, firstEmpty(state.UserInfo))

	case "back":
		if _, err := b.wizard.GoBack(ctx, state.ID); err != nil {
			b.reportError(chatID, err)
			return
		}
		b.sendMessage(chatID, msgBack)

	case "set":
		b.handleSet(ctx, chatID, state, msg.CommandArguments())

	case "skip":
		b.handleSkip(ctx, chatID, state)

	case "read":
		b.handleRead(ctx, chatID, state)

	case "restart", "cancel":
		if _, err := b.wizard.Restart(ctx, state.ID); err != nil {
			b.reportError(chatID, err)
			return
		}
		b.sendMessage(chatID, msgRestarted)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handlePhoto принимает фото ладони. Размер и тип проверяются
// по данным Telegram до скачивания.
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, state *entity.WizardState) {
	chatID := msg.Chat.ID

	if state.Step != entity.StepUpload {
		b.sendMessage(chatID, msgPhotoLocked)
		return
	}

	var (
		img    entity.ImageRef
		fileID string
	)
	if len(msg.Photo) > 0 {
		// Берём фото с максимальным разрешением
		photo := msg.Photo[len(msg.Photo)-1]
		fileID = photo.FileID
		img = entity.ImageRef{
			Name:     photo.FileUniqueID + ".jpg",
			MIMEType: "image/jpeg",
			Size:     int64(photo.FileSize),
		}
	} else {
		doc := msg.Document
		fileID = doc.FileID
		img = entity.ImageRef{
			Name:     doc.FileName,
			MIMEType: doc.MimeType,
			Size:     int64(doc.FileSize),
		}
	}

	if err := img.Validate(); err != nil {
		b.reportError(chatID, err)
		return
	}

	data, err := b.downloadFile(ctx, fileID)
	if err != nil {
		b.logger.Error("Error downloading photo", zap.String("session", state.ID), zap.Error(err))
		b.sendMessage(chatID, msgDownloadError)
		return
	}
	img.Data = data

	if _, err := b.wizard.UploadImage(ctx, state.ID, img); err != nil {
		b.reportError(chatID, err)
		return
	}

	b.logger.Info("Received palm image", zap.String("session", state.ID), zap.Int("bytes", len(data)))
	b.sendMessage(chatID, msgUploaded)
}

// handleText ответ на текущий вопрос анкеты
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message, state *entity.WizardState) {
	chatID := msg.Chat.ID

	switch state.Step {
	case entity.StepUpload:
		b.sendMessage(chatID, msgSendPhoto)
		return
	case entity.StepResult:
		b.sendMessage(chatID, msgAfterResult)
		return
	}

	if state.IsGenerating {
		b.reportError(chatID, entity.ErrGenerationInProgress)
		return
	}

	if state.FormCursor >= len(formOrder) {
		b.sendHTML(chatID, renderSummary(state.UserInfo))
		return
	}

	// Стикер, голосовое и прочее без текста: повторяем вопрос.
	if strings.TrimSpace(msg.Text) == "" {
		b.askFrom(ctx, chatID, state, state.FormCursor)
		return
	}

	field := formOrder[state.FormCursor].field
	state, err := b.wizard.SetField(ctx, state.ID, field, normalizeAnswer(field, msg.Text))
	if err != nil {
		b.reportError(chatID, err)
		return
	}

	b.askFrom(ctx, chatID, state, state.FormCursor+1)
}

func (b *Bot) handleSet(ctx context.Context, chatID int64, state *entity.WizardState, args string) {
	name, value, ok := strings.Cut(strings.TrimSpace(args), " ")
	if !ok || strings.TrimSpace(value) == "" {
		b.sendMessage(chatID, msgSetUsage)
		return
	}

	field, err := entity.ParseField(name)
	if err != nil {
		b.reportError(chatID, err)
		return
	}

	if _, err := b.wizard.SetField(ctx, state.ID, field, normalizeAnswer(field, value)); err != nil {
		b.reportError(chatID, err)
		return
	}
	b.sendMessage(chatID, msgSaved)
}

func (b *Bot) handleSkip(ctx context.Context, chatID int64, state *entity.WizardState) {
	if state.Step != entity.StepInfo || state.FormCursor >= len(formOrder) {
		b.reportError(chatID, entity.ErrInvalidTransition)
		return
	}
	if formOrder[state.FormCursor].field.IsRequired() {
		b.sendMessage(chatID, msgRequired)
		return
	}
	b.askFrom(ctx, chatID, state, state.FormCursor+1)
}

// handleRead запускает анализ и ждёт результат
func (b *Bot) handleRead(ctx context.Context, chatID int64, state *entity.WizardState) {
	if state.Step == entity.StepInfo && !state.IsGenerating && app.ValidateRequired(state.UserInfo) == nil {
		b.sendMessage(chatID, msgAnalyzing)
	}

	result, err := b.wizard.SubmitForReading(ctx, state.ID)
	if err != nil {
		b.reportError(chatID, err)

		// Сразу спрашиваем незаполненное поле.
		var mf *entity.MissingFieldError
		if errors.As(err, &mf) && result != nil {
			b.askFrom(ctx, chatID, result, formIndex(mf.Field))
		}
		return
	}

	b.sendMessage(chatID, msgCompleted)
	b.sendHTML(chatID, renderReading(result.UserInfo.Name, result.Reading))
}

// askFrom сохраняет позицию анкеты и задаёт вопрос, либо показывает сводку
func (b *Bot) askFrom(ctx context.Context, chatID int64, state *entity.WizardState, cursor int) {
	if cursor < 0 || cursor > len(formOrder) {
		cursor = len(formOrder)
	}

	if _, err := b.wizard.SetFormCursor(ctx, state.ID, cursor); err != nil {
		b.reportError(chatID, err)
		return
	}

	if cursor == len(formOrder) {
		summary := tgbotapi.NewMessage(chatID, renderSummary(state.UserInfo))
		summary.ParseMode = tgbotapi.ModeHTML
		summary.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		b.send(summary)
		return
	}

	f := formOrder[cursor]
	prompt := tgbotapi.NewMessage(chatID, f.prompt)
	if f.field == entity.FieldGender {
		prompt.ReplyMarkup = tgbotapi.NewOneTimeReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(string(entity.GenderMale)),
				tgbotapi.NewKeyboardButton(string(entity.GenderFemale)),
				tgbotapi.NewKeyboardButton(string(entity.GenderOther)),
			),
		)
	} else {
		prompt.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	}
	b.send(prompt)
}

// reportError превращает ошибку в короткое сообщение пользователю
func (b *Bot) reportError(chatID int64, err error) {
	if errors.Is(err, entity.ErrGenerationFailed) || errors.Is(err, entity.ErrSessionNotFound) {
		b.logger.Error("Wizard operation failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	b.sendMessage(chatID, "⚠️ "+entity.UserMessage(err))
}

package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tiksave-bot/domain/chat"
	"tiksave-bot/domain/media"
)

// Messenger implements chat.Messenger on the Telegram Bot API
type Messenger struct {
	api API
}

// NewMessenger creates a Messenger. Production callers pass the
// *tgbotapi.BotAPI; tests pass a fake API.
func NewMessenger(api API) *Messenger {
	return &Messenger{api: api}
}

// Interface compliance check
var _ chat.Messenger = (*Messenger)(nil)

// SendText posts a plain message
func (m *Messenger) SendText(ctx context.Context, chatID int64, text string) error {
	if _, err := m.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return &media.DeliveryError{Stage: "text", Err: err}
	}
	return nil
}

// SendStatus posts a status message and returns its handle
func (m *Messenger) SendStatus(ctx context.Context, chatID int64, text string) (chat.Status, error) {
	sent, err := m.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return chat.Status{}, &media.DeliveryError{Stage: "status", Err: err}
	}
	return chat.Status{ChatID: chatID, MessageID: sent.MessageID}, nil
}

// EditStatus replaces the status message text in place
func (m *Messenger) EditStatus(ctx context.Context, status chat.Status, text string) error {
	edit := tgbotapi.NewEditMessageText(status.ChatID, status.MessageID, text)
	if _, err := m.api.Send(edit); err != nil {
		return &media.DeliveryError{Stage: "status edit", Err: err}
	}
	return nil
}

// DeleteStatus removes the status message
func (m *Messenger) DeleteStatus(ctx context.Context, status chat.Status) error {
	del := tgbotapi.NewDeleteMessage(status.ChatID, status.MessageID)
	if _, err := m.api.Request(del); err != nil {
		return &media.DeliveryError{Stage: "status delete", Err: err}
	}
	return nil
}

// SendVideo uploads a local video file to the chat
func (m *Messenger) SendVideo(ctx context.Context, chatID int64, video chat.Video) error {
	cfg := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(video.Path))
	cfg.Caption = video.Caption
	cfg.Duration = video.Duration
	cfg.SupportsStreaming = true
	if video.ThumbPath != "" {
		cfg.Thumb = tgbotapi.FilePath(video.ThumbPath)
	}

	if _, err := m.api.Send(cfg); err != nil {
		return &media.DeliveryError{Stage: "video", Err: err}
	}
	return nil
}

// SendAudio uploads a local audio file to the chat
func (m *Messenger) SendAudio(ctx context.Context, chatID int64, audio chat.Audio) error {
	cfg := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(audio.Path))
	cfg.Title = audio.Title
	cfg.Performer = audio.Performer

	if _, err := m.api.Send(cfg); err != nil {
		return &media.DeliveryError{Stage: "audio", Err: err}
	}
	return nil
}

// SendPhotoGroup uploads local images as one media group. The group is
// hard-capped at chat.MaxGroupPhotos; the transport rejects bigger ones.
func (m *Messenger) SendPhotoGroup(ctx context.Context, chatID int64, paths []string) error {
	if len(paths) > chat.MaxGroupPhotos {
		paths = paths[:chat.MaxGroupPhotos]
	}

	files := make([]interface{}, 0, len(paths))
	for _, path := range paths {
		files = append(files, tgbotapi.NewInputMediaPhoto(tgbotapi.FilePath(path)))
	}

	if _, err := m.api.SendMediaGroup(tgbotapi.NewMediaGroup(chatID, files)); err != nil {
		return &media.DeliveryError{Stage: "photos", Err: err}
	}
	return nil
}

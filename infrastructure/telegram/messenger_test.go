package telegram

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tiksave-bot/domain/chat"
	"tiksave-bot/domain/media"
)

// fakeAPI implements API for testing
type fakeAPI struct {
	sent     []tgbotapi.Chattable
	groups   []tgbotapi.MediaGroupConfig
	requests []tgbotapi.Chattable

	sendErr    error
	groupErr   error
	requestErr error

	nextMessageID int
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	f.nextMessageID++
	return tgbotapi.Message{MessageID: f.nextMessageID}, nil
}

func (f *fakeAPI) SendMediaGroup(config tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error) {
	f.groups = append(f.groups, config)
	if f.groupErr != nil {
		return nil, f.groupErr
	}
	return []tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func TestSendStatusReturnsHandle(t *testing.T) {
	api := &fakeAPI{nextMessageID: 41}
	messenger := NewMessenger(api)

	status, err := messenger.SendStatus(context.Background(), 777, "Скачиваю видео...")
	if err != nil {
		t.Fatalf("SendStatus() unexpected error: %v", err)
	}

	if status.ChatID != 777 {
		t.Errorf("SendStatus() ChatID = %d, want 777", status.ChatID)
	}
	if status.MessageID != 42 {
		t.Errorf("SendStatus() MessageID = %d, want 42", status.MessageID)
	}

	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("SendStatus() sent %T, want MessageConfig", api.sent[0])
	}
	if msg.Text != "Скачиваю видео..." {
		t.Errorf("SendStatus() text = %q", msg.Text)
	}
}

func TestEditStatusTargetsHandle(t *testing.T) {
	api := &fakeAPI{}
	messenger := NewMessenger(api)

	status := chat.Status{ChatID: 777, MessageID: 42}
	if err := messenger.EditStatus(context.Background(), status, "Отправляю видео..."); err != nil {
		t.Fatalf("EditStatus() unexpected error: %v", err)
	}

	edit, ok := api.sent[0].(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("EditStatus() sent %T, want EditMessageTextConfig", api.sent[0])
	}
	if edit.ChatID != 777 || edit.MessageID != 42 {
		t.Errorf("EditStatus() targeted chat %d message %d, want 777/42", edit.ChatID, edit.MessageID)
	}
	if edit.Text != "Отправляю видео..." {
		t.Errorf("EditStatus() text = %q", edit.Text)
	}
}

func TestDeleteStatusUsesRequest(t *testing.T) {
	api := &fakeAPI{}
	messenger := NewMessenger(api)

	status := chat.Status{ChatID: 777, MessageID: 42}
	if err := messenger.DeleteStatus(context.Background(), status); err != nil {
		t.Fatalf("DeleteStatus() unexpected error: %v", err)
	}

	del, ok := api.requests[0].(tgbotapi.DeleteMessageConfig)
	if !ok {
		t.Fatalf("DeleteStatus() requested %T, want DeleteMessageConfig", api.requests[0])
	}
	if del.ChatID != 777 || del.MessageID != 42 {
		t.Errorf("DeleteStatus() targeted chat %d message %d, want 777/42", del.ChatID, del.MessageID)
	}
}

func TestSendVideoConfig(t *testing.T) {
	api := &fakeAPI{}
	messenger := NewMessenger(api)

	video := chat.Video{
		Path:      "/tmp/bot/tiktok_a1b2.mp4",
		Caption:   "смешной котик",
		ThumbPath: "/tmp/bot/tiktok_a1b2_cover.jpg",
		Duration:  17,
	}
	if err := messenger.SendVideo(context.Background(), 777, video); err != nil {
		t.Fatalf("SendVideo() unexpected error: %v", err)
	}

	cfg, ok := api.sent[0].(tgbotapi.VideoConfig)
	if !ok {
		t.Fatalf("SendVideo() sent %T, want VideoConfig", api.sent[0])
	}
	if cfg.File != tgbotapi.FilePath("/tmp/bot/tiktok_a1b2.mp4") {
		t.Errorf("SendVideo() file = %v, want local file path", cfg.File)
	}
	if cfg.Caption != "смешной котик" {
		t.Errorf("SendVideo() caption = %q", cfg.Caption)
	}
	if cfg.Duration != 17 {
		t.Errorf("SendVideo() duration = %d, want 17", cfg.Duration)
	}
	if cfg.Thumb != tgbotapi.FilePath("/tmp/bot/tiktok_a1b2_cover.jpg") {
		t.Errorf("SendVideo() thumb = %v, want cover path", cfg.Thumb)
	}
	if !cfg.SupportsStreaming {
		t.Errorf("SendVideo() SupportsStreaming = false, want true")
	}
}

func TestSendVideoWithoutThumb(t *testing.T) {
	api := &fakeAPI{}
	messenger := NewMessenger(api)

	if err := messenger.SendVideo(context.Background(), 777, chat.Video{Path: "/tmp/v.mp4"}); err != nil {
		t.Fatalf("SendVideo() unexpected error: %v", err)
	}

	cfg := api.sent[0].(tgbotapi.VideoConfig)
	if cfg.Thumb != nil {
		t.Errorf("SendVideo() thumb = %v, want nil when no cover", cfg.Thumb)
	}
}

func TestSendAudioConfig(t *testing.T) {
	api := &fakeAPI{}
	messenger := NewMessenger(api)

	audio := chat.Audio{
		Path:      "/tmp/bot/tiktok_a1b2.mp3",
		Title:     "смешной котик",
		Performer: "user123",
	}
	if err := messenger.SendAudio(context.Background(), 777, audio); err != nil {
		t.Fatalf("SendAudio() unexpected error: %v", err)
	}

	cfg, ok := api.sent[0].(tgbotapi.AudioConfig)
	if !ok {
		t.Fatalf("SendAudio() sent %T, want AudioConfig", api.sent[0])
	}
	if cfg.File != tgbotapi.FilePath("/tmp/bot/tiktok_a1b2.mp3") {
		t.Errorf("SendAudio() file = %v, want local file path", cfg.File)
	}
	if cfg.Title != "смешной котик" || cfg.Performer != "user123" {
		t.Errorf("SendAudio() title/performer = %q/%q", cfg.Title, cfg.Performer)
	}
}

func TestSendPhotoGroupCapsAtLimit(t *testing.T) {
	api := &fakeAPI{}
	messenger := NewMessenger(api)

	paths := make([]string, 12)
	for i := range paths {
		paths[i] = fmt.Sprintf("/tmp/bot/tiktok_a1b2_%d.jpg", i)
	}

	if err := messenger.SendPhotoGroup(context.Background(), 777, paths); err != nil {
		t.Fatalf("SendPhotoGroup() unexpected error: %v", err)
	}

	if len(api.groups) != 1 {
		t.Fatalf("SendPhotoGroup() sent %d groups, want 1", len(api.groups))
	}
	if got := len(api.groups[0].Media); got != chat.MaxGroupPhotos {
		t.Errorf("SendPhotoGroup() media count = %d, want %d", got, chat.MaxGroupPhotos)
	}
}

func TestSendFailuresAreDeliveryErrors(t *testing.T) {
	boom := errors.New("Bad Request: chat not found")

	tests := []struct {
		name string
		call func(m *Messenger) error
		api  *fakeAPI
	}{
		{
			name: "text",
			call: func(m *Messenger) error { return m.SendText(context.Background(), 1, "hi") },
			api:  &fakeAPI{sendErr: boom},
		},
		{
			name: "status edit",
			call: func(m *Messenger) error {
				return m.EditStatus(context.Background(), chat.Status{ChatID: 1, MessageID: 2}, "x")
			},
			api: &fakeAPI{sendErr: boom},
		},
		{
			name: "status delete",
			call: func(m *Messenger) error {
				return m.DeleteStatus(context.Background(), chat.Status{ChatID: 1, MessageID: 2})
			},
			api: &fakeAPI{requestErr: boom},
		},
		{
			name: "video",
			call: func(m *Messenger) error {
				return m.SendVideo(context.Background(), 1, chat.Video{Path: "/tmp/v.mp4"})
			},
			api: &fakeAPI{sendErr: boom},
		},
		{
			name: "photos",
			call: func(m *Messenger) error {
				return m.SendPhotoGroup(context.Background(), 1, []string{"/tmp/0.jpg"})
			},
			api: &fakeAPI{groupErr: boom},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call(NewMessenger(tt.api))
			if err == nil {
				t.Fatalf("expected error, got nil")
			}

			var deliveryErr *media.DeliveryError
			if !errors.As(err, &deliveryErr) {
				t.Fatalf("error type = %T, want *media.DeliveryError", err)
			}
			if !errors.Is(err, boom) {
				t.Errorf("error does not wrap the transport failure")
			}
		})
	}
}

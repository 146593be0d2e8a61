package chat

import "context"

// MaxGroupPhotos is the most photos one media-group send may carry
const MaxGroupPhotos = 10

// Inbound is one message received from the chat transport
type Inbound struct {
	ChatID    int64
	MessageID int
	Text      string
}

// Status is a handle to an editable status message posted by the bot.
// It stays valid until the message is deleted.
type Status struct {
	ChatID    int64
	MessageID int
}

// Video describes an outbound video file
type Video struct {
	Path      string
	Caption   string
	ThumbPath string // optional, empty means no thumbnail
	Duration  int    // seconds, zero when unknown
}

// Audio describes an outbound audio file
type Audio struct {
	Path      string
	Title     string
	Performer string
}

// Messenger defines the chat-transport operations the pipeline needs
// This is a port implemented by the concrete transport adapter
type Messenger interface {
	// SendText posts a plain message (greetings, rejections)
	SendText(ctx context.Context, chatID int64, text string) error

	// SendStatus posts a status message and returns its handle
	SendStatus(ctx context.Context, chatID int64, text string) (Status, error)

	// EditStatus replaces the status message text in place
	EditStatus(ctx context.Context, status Status, text string) error

	// DeleteStatus removes the status message
	DeleteStatus(ctx context.Context, status Status) error

	// SendVideo uploads a local video file to the chat
	SendVideo(ctx context.Context, chatID int64, video Video) error

	// SendAudio uploads a local audio file to the chat
	SendAudio(ctx context.Context, chatID int64, audio Audio) error

	// SendPhotoGroup uploads local images as one media group.
	// Callers pass at most MaxGroupPhotos paths.
	SendPhotoGroup(ctx context.Context, chatID int64, paths []string) error
}

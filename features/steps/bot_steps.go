//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"tiksave-bot/application/deliver"
	"tiksave-bot/application/resolve"
	"tiksave-bot/domain/chat"
	"tiksave-bot/domain/platform"
	"tiksave-bot/infrastructure/filesystem"
	"tiksave-bot/infrastructure/storage"

	"github.com/cucumber/godog"
)

// mockChatMessenger records every outbound chat operation for
// verification
type mockChatMessenger struct {
	sentTexts  []string
	edits      []string
	sentVideos []chat.Video
	sentAudios []chat.Audio
	sentGroups [][]string
	deleted    []chat.Status

	nextMessageID int
}

func (m *mockChatMessenger) SendText(ctx context.Context, chatID int64, text string) error {
	m.sentTexts = append(m.sentTexts, text)
	return nil
}

func (m *mockChatMessenger) SendStatus(ctx context.Context, chatID int64, text string) (chat.Status, error) {
	m.nextMessageID++
	return chat.Status{ChatID: chatID, MessageID: m.nextMessageID}, nil
}

func (m *mockChatMessenger) EditStatus(ctx context.Context, status chat.Status, text string) error {
	m.edits = append(m.edits, text)
	return nil
}

func (m *mockChatMessenger) DeleteStatus(ctx context.Context, status chat.Status) error {
	m.deleted = append(m.deleted, status)
	return nil
}

func (m *mockChatMessenger) SendVideo(ctx context.Context, chatID int64, video chat.Video) error {
	m.sentVideos = append(m.sentVideos, video)
	return nil
}

func (m *mockChatMessenger) SendAudio(ctx context.Context, chatID int64, audio chat.Audio) error {
	m.sentAudios = append(m.sentAudios, audio)
	return nil
}

func (m *mockChatMessenger) SendPhotoGroup(ctx context.Context, chatID int64, paths []string) error {
	group := make([]string, len(paths))
	copy(group, paths)
	m.sentGroups = append(m.sentGroups, group)
	return nil
}

// mockCovers fails every cover extraction, matching a build without
// thumbnail support
type mockCovers struct{}

func (m *mockCovers) ExtractCover(ctx context.Context, videoPath, outPath string) error {
	return fmt.Errorf("thumbnails not available")
}

// botContext holds test state for bot scenarios
type botContext struct {
	tempDir     string
	store       *storage.Store
	messenger   *mockChatMessenger
	service     *deliver.Service
	inboundText string
	err         error
}

// SharedBotContext is reset before each scenario via Before hook
var SharedBotContext *botContext

func getBotContext() *botContext {
	return SharedBotContext
}

func InitializeBotScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "tiksave-features-")
		if err != nil {
			return c, err
		}

		store, err := storage.NewStore(tempDir, zerolog.Nop())
		if err != nil {
			return c, err
		}

		a := getAPIContext()
		resolver := resolve.NewService(a.extractor, a.fetcher, a.deriver, filesystem.NewChecker(), store, "128k", zerolog.Nop())

		messenger := &mockChatMessenger{}
		SharedBotContext = &botContext{
			tempDir:   tempDir,
			store:     store,
			messenger: messenger,
			service:   deliver.NewService(messenger, resolver, &mockCovers{}, store, zerolog.Nop()),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedBotContext != nil && SharedBotContext.tempDir != "" {
			os.RemoveAll(SharedBotContext.tempDir)
		}
		SharedBotContext = nil
		return c, nil
	})

	ctx.Step(`^the bot receives the message "([^"]*)"$`, theBotReceivesTheMessage)
	ctx.Step(`^the bot replies with the usage text$`, theBotRepliesWithUsage)
	ctx.Step(`^the bot replies that a link is required$`, theBotRepliesLinkRequired)
	ctx.Step(`^the bot replies that the link is not supported$`, theBotRepliesUnsupported)
	ctx.Step(`^the chat receives a video captioned "([^"]*)"$`, theChatReceivesVideo)
	ctx.Step(`^the chat receives an audio track performed by "([^"]*)"$`, theChatReceivesAudio)
	ctx.Step(`^the chat receives a photo album of (\d+) photos$`, theChatReceivesPhotoAlbum)
	ctx.Step(`^the status message is deleted$`, theStatusMessageIsDeleted)
	ctx.Step(`^the status message is not deleted$`, theStatusMessageIsNotDeleted)
	ctx.Step(`^the status message shows a failure mentioning "([^"]*)"$`, theStatusShowsFailure)
	ctx.Step(`^no temp files remain$`, noTempFilesRemain)
	ctx.Step(`^the links are resolved in message order$`, theLinksAreResolvedInOrder)
}

func theBotReceivesTheMessage(text string) error {
	b := getBotContext()
	b.inboundText = text
	b.err = b.service.HandleMessage(context.Background(), chat.Inbound{
		ChatID:    1,
		MessageID: 100,
		Text:      text,
	})
	if b.err != nil {
		return fmt.Errorf("unexpected error: %v", b.err)
	}
	return nil
}

func theBotRepliesWithUsage() error {
	b := getBotContext()
	if len(b.messenger.sentTexts) != 1 {
		return fmt.Errorf("expected one reply, got %d", len(b.messenger.sentTexts))
	}
	if !strings.Contains(b.messenger.sentTexts[0], "Привет") {
		return fmt.Errorf("expected the usage text, got: %q", b.messenger.sentTexts[0])
	}
	return nil
}

func theBotRepliesLinkRequired() error {
	b := getBotContext()
	if len(b.messenger.sentTexts) != 1 {
		return fmt.Errorf("expected one reply, got %d", len(b.messenger.sentTexts))
	}
	if !strings.Contains(b.messenger.sentTexts[0], "Пришлите ссылку") {
		return fmt.Errorf("expected the link-required reply, got: %q", b.messenger.sentTexts[0])
	}
	return nil
}

func theBotRepliesUnsupported() error {
	b := getBotContext()
	if len(b.messenger.sentTexts) != 1 {
		return fmt.Errorf("expected one reply, got %d", len(b.messenger.sentTexts))
	}
	if !strings.Contains(b.messenger.sentTexts[0], "не поддерживается") {
		return fmt.Errorf("expected the unsupported reply, got: %q", b.messenger.sentTexts[0])
	}
	return nil
}

func theChatReceivesVideo(caption string) error {
	b := getBotContext()
	if len(b.messenger.sentVideos) != 1 {
		return fmt.Errorf("expected one video, got %d", len(b.messenger.sentVideos))
	}
	if b.messenger.sentVideos[0].Caption != caption {
		return fmt.Errorf("expected video caption %q, got %q", caption, b.messenger.sentVideos[0].Caption)
	}
	return nil
}

func theChatReceivesAudio(performer string) error {
	b := getBotContext()
	if len(b.messenger.sentAudios) != 1 {
		return fmt.Errorf("expected one audio, got %d", len(b.messenger.sentAudios))
	}
	if b.messenger.sentAudios[0].Performer != performer {
		return fmt.Errorf("expected audio performer %q, got %q", performer, b.messenger.sentAudios[0].Performer)
	}
	return nil
}

func theChatReceivesPhotoAlbum(count int) error {
	b := getBotContext()
	if len(b.messenger.sentGroups) != 1 {
		return fmt.Errorf("expected one photo album, got %d", len(b.messenger.sentGroups))
	}
	if got := len(b.messenger.sentGroups[0]); got != count {
		return fmt.Errorf("expected %d photos in the album, got %d", count, got)
	}
	return nil
}

func theStatusMessageIsDeleted() error {
	b := getBotContext()
	if len(b.messenger.deleted) == 0 {
		return fmt.Errorf("expected the status message to be deleted")
	}
	return nil
}

func theStatusMessageIsNotDeleted() error {
	b := getBotContext()
	if len(b.messenger.deleted) != 0 {
		return fmt.Errorf("expected the status message to stay, but it was deleted")
	}
	return nil
}

func theStatusShowsFailure(fragment string) error {
	b := getBotContext()
	for _, edit := range b.messenger.edits {
		if strings.Contains(edit, "Не удалось") && strings.Contains(edit, fragment) {
			return nil
		}
	}
	return fmt.Errorf("no failure edit mentioning %q among: %v", fragment, b.messenger.edits)
}

func noTempFilesRemain() error {
	b := getBotContext()
	entries, err := os.ReadDir(b.store.Dir())
	if err != nil {
		return fmt.Errorf("failed to read temp dir: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		return fmt.Errorf("expected empty temp dir, found: %v", names)
	}
	return nil
}

func theLinksAreResolvedInOrder() error {
	b := getBotContext()
	a := getAPIContext()

	wantOrder := platform.FindLinks(b.inboundText)
	if len(a.extractor.gotURLs) != len(wantOrder) {
		return fmt.Errorf("expected %d lookups, got %d", len(wantOrder), len(a.extractor.gotURLs))
	}
	for i, url := range wantOrder {
		if a.extractor.gotURLs[i] != url {
			return fmt.Errorf("lookup %d was %q, want %q", i, a.extractor.gotURLs[i], url)
		}
	}
	return nil
}

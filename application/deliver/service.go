package deliver

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"tiksave-bot/domain/chat"
	"tiksave-bot/domain/media"
	"tiksave-bot/domain/platform"
	"tiksave-bot/infrastructure/storage"
)

// Resolver turns one link into local temp assets
type Resolver interface {
	Resolve(ctx context.Context, link string, p platform.Platform) (*media.Result, error)
}

// Service routes inbound chat messages and runs the delivery pipeline
// for each supported link they carry. Every link gets its own status
// message that tracks the pipeline phase, and every temp asset is gone
// by the time a link is finished with, delivered or not.
type Service struct {
	messenger chat.Messenger
	resolver  Resolver
	covers    media.CoverExtractor
	store     *storage.Store
	logger    zerolog.Logger
}

// NewService creates a delivery service
func NewService(
	messenger chat.Messenger,
	resolver Resolver,
	covers media.CoverExtractor,
	store *storage.Store,
	logger zerolog.Logger,
) *Service {
	return &Service{
		messenger: messenger,
		resolver:  resolver,
		covers:    covers,
		store:     store,
		logger:    logger,
	}
}

// HandleMessage processes one inbound message: commands get the usage
// reply, messages without links get a rejection, and each link is run
// through the pipeline strictly one after another. A failed link is
// reported on its own status message and never stops the rest.
func (s *Service) HandleMessage(ctx context.Context, msg chat.Inbound) error {
	text := strings.TrimSpace(msg.Text)

	if isCommand(text) {
		return s.messenger.SendText(ctx, msg.ChatID, msgGreeting)
	}

	links := platform.FindLinks(text)
	if len(links) == 0 {
		return s.messenger.SendText(ctx, msg.ChatID, msgLinkRequired)
	}

	for _, link := range links {
		if err := s.handleLink(ctx, msg.ChatID, link); err != nil {
			s.logger.Error().
				Err(err).
				Int64("chat_id", msg.ChatID).
				Str("link", link).
				Msg("link processing failed")
		}
	}

	return nil
}

func isCommand(text string) bool {
	return strings.HasPrefix(text, "/start") || strings.HasPrefix(text, "/help")
}

// handleLink runs the full pipeline for one link. Whatever happens after
// the resolve step, the resolved temp assets are removed before return.
func (s *Service) handleLink(ctx context.Context, chatID int64, link string) error {
	p, ok := platform.Detect(link)
	if !ok {
		return s.messenger.SendText(ctx, chatID, msgUnsupported)
	}

	status, err := s.messenger.SendStatus(ctx, chatID, msgDownloading)
	if err != nil {
		// No status message means nothing to edit; give up on this link
		return err
	}

	result, err := s.resolver.Resolve(ctx, link, p)
	if err != nil {
		s.reportFailure(ctx, status, err)
		return err
	}

	deliverErr := s.deliverResult(ctx, chatID, status, result)

	// Temp assets go regardless of how delivery went
	s.store.Remove(cleanupPaths(result)...)

	if deliverErr != nil {
		s.reportFailure(ctx, status, deliverErr)
		return deliverErr
	}

	if err := s.messenger.DeleteStatus(ctx, status); err != nil {
		s.logger.Warn().Err(err).Msg("failed to delete status message")
	}

	return nil
}

func (s *Service) deliverResult(ctx context.Context, chatID int64, status chat.Status, result *media.Result) error {
	switch result.Kind {
	case media.ResultGallery:
		return s.deliverGallery(ctx, chatID, status, result)
	case media.ResultVideo:
		return s.deliverVideo(ctx, chatID, status, result)
	}
	return fmt.Errorf("unknown result kind %q", result.Kind)
}

// deliverGallery sends the first MaxGroupPhotos images as one media
// group. Overflow images stay on disk only until the caller's cleanup.
func (s *Service) deliverGallery(ctx context.Context, chatID int64, status chat.Status, result *media.Result) error {
	if err := s.messenger.EditStatus(ctx, status, msgSendingPhotos); err != nil {
		return err
	}

	paths := result.Paths()
	if len(paths) > chat.MaxGroupPhotos {
		s.logger.Info().
			Int("total", len(paths)).
			Int("sent", chat.MaxGroupPhotos).
			Msg("gallery exceeds one media group, sending the first part")
		paths = paths[:chat.MaxGroupPhotos]
	}

	return s.messenger.SendPhotoGroup(ctx, chatID, paths)
}

// deliverVideo sends the video and then its derived audio track
func (s *Service) deliverVideo(ctx context.Context, chatID int64, status chat.Status, result *media.Result) error {
	if err := s.messenger.EditStatus(ctx, status, msgSendingVideo); err != nil {
		return err
	}

	video := chat.Video{
		Path:     result.Video.Path,
		Caption:  result.Meta.Title,
		Duration: result.Meta.Duration,
	}

	// Best effort: a missing cover frame never fails the delivery
	coverPath := media.CoverPathFor(result.Video.Path)
	if err := s.covers.ExtractCover(ctx, result.Video.Path, coverPath); err != nil {
		s.logger.Debug().Err(err).Msg("no cover frame for video")
	} else {
		video.ThumbPath = coverPath
	}

	if err := s.messenger.SendVideo(ctx, chatID, video); err != nil {
		return err
	}

	if err := s.messenger.EditStatus(ctx, status, msgSendingAudio); err != nil {
		return err
	}

	audio := chat.Audio{
		Path:      result.Audio.Path,
		Title:     result.Meta.Title,
		Performer: result.Meta.Author,
	}
	return s.messenger.SendAudio(ctx, chatID, audio)
}

// reportFailure rewrites the status message in place with the error.
// The message stays in the chat so the user sees what went wrong.
func (s *Service) reportFailure(ctx context.Context, status chat.Status, err error) {
	if editErr := s.messenger.EditStatus(ctx, status, failureText(err)); editErr != nil {
		s.logger.Error().Err(editErr).Msg("failed to report failure to chat")
	}
}

// cleanupPaths lists every temp file a result can own, including the
// cover frame that may have been extracted next to a video
func cleanupPaths(result *media.Result) []string {
	paths := result.Paths()
	if result.Kind == media.ResultVideo {
		paths = append(paths, media.CoverPathFor(result.Video.Path))
	}
	return paths
}

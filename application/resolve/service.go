package resolve

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"tiksave-bot/domain/media"
	"tiksave-bot/domain/platform"
	"tiksave-bot/infrastructure/storage"
)

// Service coordinates resolving one post link into local temp assets:
// extraction API lookup, media download, audio derivation.
type Service struct {
	extractor   media.Extractor
	fetcher     media.Fetcher
	deriver     media.AudioDeriver
	fileChecker media.FileChecker
	store       *storage.Store
	bitrate     string
	logger      zerolog.Logger
}

// NewService creates a resolve service
func NewService(
	extractor media.Extractor,
	fetcher media.Fetcher,
	deriver media.AudioDeriver,
	fileChecker media.FileChecker,
	store *storage.Store,
	bitrate string,
	logger zerolog.Logger,
) *Service {
	if bitrate == "" {
		bitrate = media.DefaultAudioBitrate
	}
	return &Service{
		extractor:   extractor,
		fetcher:     fetcher,
		deriver:     deriver,
		fileChecker: fileChecker,
		store:       store,
		bitrate:     bitrate,
		logger:      logger,
	}
}

// Resolve looks the link up through the extraction API and materializes
// the post in temp storage. On failure, every file this call created is
// removed before the error returns; callers only ever see paths from a
// successful resolve.
func (s *Service) Resolve(ctx context.Context, link string, p platform.Platform) (*media.Result, error) {
	lookup, err := s.extractor.Lookup(ctx, link)
	if err != nil {
		return nil, err
	}

	id, err := s.store.NewRequestID()
	if err != nil {
		return nil, err
	}

	if lookup.HasImages() {
		return s.resolveGallery(ctx, lookup, p, id)
	}
	return s.resolveVideo(ctx, lookup, p, id)
}

// resolveGallery downloads every image of a photo post sequentially,
// keeping the extraction API's order
func (s *Service) resolveGallery(ctx context.Context, lookup *media.Lookup, p platform.Platform, id string) (*media.Result, error) {
	images := make([]media.Asset, 0, len(lookup.Images))

	for i, url := range lookup.Images {
		path := s.store.ImagePath(p, id, i)
		if err := s.fetcher.Fetch(ctx, url, path); err != nil {
			s.store.Remove(assetPaths(images)...)
			return nil, fmt.Errorf("failed to download image %d of %d: %w", i+1, len(lookup.Images), err)
		}
		images = append(images, media.Asset{Path: path})
	}

	s.logger.Info().
		Str("title", lookup.Title).
		Int("images", len(images)).
		Msg("gallery downloaded")

	return media.NewGalleryResult(images, lookup.Meta())
}

// resolveVideo downloads the best video rendition and derives its mp3
// track next to it
func (s *Service) resolveVideo(ctx context.Context, lookup *media.Lookup, p platform.Platform, id string) (*media.Result, error) {
	videoURL := lookup.BestVideoURL()
	if videoURL == "" {
		return nil, media.ErrNoMedia
	}

	videoPath := s.store.VideoPath(p, id)
	if err := s.fetcher.Fetch(ctx, videoURL, videoPath); err != nil {
		return nil, fmt.Errorf("failed to download video: %w", err)
	}

	if !s.fileChecker.Exists(videoPath) {
		s.store.Remove(videoPath)
		return nil, fmt.Errorf("downloaded video does not exist: %s", videoPath)
	}

	req, err := media.NewDeriveRequest(videoPath, s.bitrate)
	if err != nil {
		s.store.Remove(videoPath)
		return nil, err
	}

	audioPath := req.OutputPath()
	if err := s.deriver.Derive(ctx, req, audioPath); err != nil {
		s.store.Remove(videoPath, audioPath)
		return nil, err
	}

	s.logger.Info().
		Str("video", videoPath).
		Str("audio", audioPath).
		Msg("video resolved")

	return media.NewVideoResult(media.Asset{Path: videoPath}, media.Asset{Path: audioPath}, lookup.Meta())
}

func assetPaths(assets []media.Asset) []string {
	paths := make([]string, len(assets))
	for i, a := range assets {
		paths[i] = a.Path
	}
	return paths
}

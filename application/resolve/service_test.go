package resolve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"tiksave-bot/domain/media"
	"tiksave-bot/domain/platform"
	"tiksave-bot/infrastructure/storage"
)

// --- Mock implementations for testing ---

// mockExtractor implements media.Extractor for testing
type mockExtractor struct {
	lookup     *media.Lookup
	shouldFail bool
	failError  error
	gotURL     string
}

func (m *mockExtractor) Lookup(ctx context.Context, url string) (*media.Lookup, error) {
	m.gotURL = url
	if m.shouldFail {
		return nil, m.failError
	}
	return m.lookup, nil
}

// mockFetcher implements media.Fetcher for testing. It writes a small
// file at destPath so cleanup behavior can be observed on disk.
type mockFetcher struct {
	failOnURL string
	failError error
	gotURLs   []string
	gotPaths  []string
}

func (m *mockFetcher) Fetch(ctx context.Context, url, destPath string) error {
	m.gotURLs = append(m.gotURLs, url)
	m.gotPaths = append(m.gotPaths, destPath)
	if m.failOnURL != "" && url == m.failOnURL {
		return m.failError
	}
	return os.WriteFile(destPath, []byte("payload"), 0644)
}

// mockDeriver implements media.AudioDeriver for testing
type mockDeriver struct {
	shouldFail bool
	failError  error
	called     bool
	gotSource  string
	gotBitrate string
	gotOutput  string
}

func (m *mockDeriver) Derive(ctx context.Context, req *media.DeriveRequest, outputPath string) error {
	m.called = true
	m.gotSource = req.SourceVideoPath
	m.gotBitrate = req.Bitrate
	m.gotOutput = outputPath
	if m.shouldFail {
		return m.failError
	}
	return os.WriteFile(outputPath, []byte("audio"), 0644)
}

// mockFileChecker implements media.FileChecker for testing
type mockFileChecker struct {
	exists bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.exists
}

// --- Helper functions ---

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func videoLookup() *media.Lookup {
	return &media.Lookup{
		Title:     "dance clip",
		Author:    "someauthor",
		Duration:  17,
		PlayURL:   "https://cdn.example.com/play.mp4",
		HDPlayURL: "https://cdn.example.com/hd.mp4",
	}
}

func galleryLookup(n int) *media.Lookup {
	lookup := &media.Lookup{
		Title:  "photo dump",
		Author: "someauthor",
	}
	for i := 0; i < n; i++ {
		lookup.Images = append(lookup.Images, fmt.Sprintf("https://cdn.example.com/img%d.jpg", i))
	}
	return lookup
}

func tempFileCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%q) error = %v", dir, err)
	}
	return len(entries)
}

// --- Tests ---

func TestResolve_VideoSuccess(t *testing.T) {
	store := newTestStore(t)
	extractor := &mockExtractor{lookup: videoLookup()}
	fetcher := &mockFetcher{}
	deriver := &mockDeriver{}

	service := NewService(extractor, fetcher, deriver, &mockFileChecker{exists: true}, store, "128k", zerolog.Nop())

	result, err := service.Resolve(context.Background(), "https://www.tiktok.com/@someauthor/video/1", platform.TikTok)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if result.Kind != media.ResultVideo {
		t.Errorf("result kind = %q, want %q", result.Kind, media.ResultVideo)
	}

	if extractor.gotURL != "https://www.tiktok.com/@someauthor/video/1" {
		t.Errorf("extractor got url %q", extractor.gotURL)
	}

	// HD rendition takes priority over the standard one
	if len(fetcher.gotURLs) != 1 || fetcher.gotURLs[0] != "https://cdn.example.com/hd.mp4" {
		t.Errorf("fetched urls = %v, want just the hd url", fetcher.gotURLs)
	}

	videoName := filepath.Base(result.Video.Path)
	if !strings.HasPrefix(videoName, "tiktok_") || !strings.HasSuffix(videoName, ".mp4") {
		t.Errorf("video file name = %q, want tiktok_<id>.mp4", videoName)
	}

	wantAudio := strings.TrimSuffix(result.Video.Path, ".mp4") + ".mp3"
	if result.Audio.Path != wantAudio {
		t.Errorf("audio path = %q, want %q", result.Audio.Path, wantAudio)
	}

	if deriver.gotSource != result.Video.Path {
		t.Errorf("deriver source = %q, want %q", deriver.gotSource, result.Video.Path)
	}
	if deriver.gotOutput != result.Audio.Path {
		t.Errorf("deriver output = %q, want %q", deriver.gotOutput, result.Audio.Path)
	}
	if deriver.gotBitrate != "128k" {
		t.Errorf("deriver bitrate = %q, want %q", deriver.gotBitrate, "128k")
	}

	if result.Meta.Title != "dance clip" || result.Meta.Author != "someauthor" || result.Meta.Duration != 17 {
		t.Errorf("meta = %+v, want title/author/duration carried over", result.Meta)
	}

	for _, path := range result.Paths() {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %q on disk: %v", path, err)
		}
	}
}

func TestResolve_VideoRenditionChoice(t *testing.T) {
	tests := []struct {
		name    string
		play    string
		hdPlay  string
		wantURL string
	}{
		{
			name:    "hd preferred when both present",
			play:    "https://cdn.example.com/play.mp4",
			hdPlay:  "https://cdn.example.com/hd.mp4",
			wantURL: "https://cdn.example.com/hd.mp4",
		},
		{
			name:    "falls back to standard rendition",
			play:    "https://cdn.example.com/play.mp4",
			hdPlay:  "",
			wantURL: "https://cdn.example.com/play.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			extractor := &mockExtractor{lookup: &media.Lookup{PlayURL: tt.play, HDPlayURL: tt.hdPlay}}
			fetcher := &mockFetcher{}

			service := NewService(extractor, fetcher, &mockDeriver{}, &mockFileChecker{exists: true}, store, "", zerolog.Nop())

			if _, err := service.Resolve(context.Background(), "https://vt.tiktok.com/abc/", platform.TikTok); err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}

			if len(fetcher.gotURLs) != 1 || fetcher.gotURLs[0] != tt.wantURL {
				t.Errorf("fetched urls = %v, want [%s]", fetcher.gotURLs, tt.wantURL)
			}
		})
	}
}

func TestResolve_DefaultBitrate(t *testing.T) {
	store := newTestStore(t)
	deriver := &mockDeriver{}

	service := NewService(&mockExtractor{lookup: videoLookup()}, &mockFetcher{}, deriver, &mockFileChecker{exists: true}, store, "", zerolog.Nop())

	if _, err := service.Resolve(context.Background(), "https://www.tiktok.com/@a/video/1", platform.TikTok); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if deriver.gotBitrate != media.DefaultAudioBitrate {
		t.Errorf("deriver bitrate = %q, want default %q", deriver.gotBitrate, media.DefaultAudioBitrate)
	}
}

func TestResolve_GallerySuccess(t *testing.T) {
	store := newTestStore(t)
	fetcher := &mockFetcher{}
	deriver := &mockDeriver{}

	service := NewService(&mockExtractor{lookup: galleryLookup(3)}, fetcher, deriver, &mockFileChecker{exists: true}, store, "", zerolog.Nop())

	result, err := service.Resolve(context.Background(), "https://www.tiktok.com/@a/photo/1", platform.TikTok)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if result.Kind != media.ResultGallery {
		t.Errorf("result kind = %q, want %q", result.Kind, media.ResultGallery)
	}
	if len(result.Images) != 3 {
		t.Fatalf("got %d images, want 3", len(result.Images))
	}

	// Download order and file numbering both follow the response order
	for i, img := range result.Images {
		wantURL := fmt.Sprintf("https://cdn.example.com/img%d.jpg", i)
		if fetcher.gotURLs[i] != wantURL {
			t.Errorf("fetch %d url = %q, want %q", i, fetcher.gotURLs[i], wantURL)
		}
		wantSuffix := fmt.Sprintf("_%d.jpg", i)
		if !strings.HasSuffix(img.Path, wantSuffix) {
			t.Errorf("image %d path = %q, want suffix %q", i, img.Path, wantSuffix)
		}
		if _, err := os.Stat(img.Path); err != nil {
			t.Errorf("expected %q on disk: %v", img.Path, err)
		}
	}

	if deriver.called {
		t.Error("deriver should not run for gallery posts")
	}
}

func TestResolve_NoMedia(t *testing.T) {
	store := newTestStore(t)
	fetcher := &mockFetcher{}

	service := NewService(&mockExtractor{lookup: &media.Lookup{Title: "empty"}}, fetcher, &mockDeriver{}, &mockFileChecker{exists: true}, store, "", zerolog.Nop())

	_, err := service.Resolve(context.Background(), "https://www.tiktok.com/@a/video/1", platform.TikTok)
	if !errors.Is(err, media.ErrNoMedia) {
		t.Errorf("Resolve() error = %v, want ErrNoMedia", err)
	}

	if len(fetcher.gotURLs) != 0 {
		t.Errorf("expected no fetches, got %v", fetcher.gotURLs)
	}
}

func TestResolve_LookupFailure(t *testing.T) {
	store := newTestStore(t)
	lookupErr := &media.ResolutionError{URL: "https://www.tiktok.com/@a/video/1", Reason: "Url parsing is failed"}

	service := NewService(&mockExtractor{shouldFail: true, failError: lookupErr}, &mockFetcher{}, &mockDeriver{}, &mockFileChecker{exists: true}, store, "", zerolog.Nop())

	_, err := service.Resolve(context.Background(), "https://www.tiktok.com/@a/video/1", platform.TikTok)

	var resErr *media.ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Resolve() error = %v, want *media.ResolutionError", err)
	}

	if got := tempFileCount(t, store.Dir()); got != 0 {
		t.Errorf("temp dir has %d files after lookup failure, want 0", got)
	}
}

func TestResolve_GalleryFetchFailureCleansUp(t *testing.T) {
	store := newTestStore(t)
	fetcher := &mockFetcher{
		failOnURL: "https://cdn.example.com/img2.jpg",
		failError: errors.New("connection reset"),
	}

	service := NewService(&mockExtractor{lookup: galleryLookup(4)}, fetcher, &mockDeriver{}, &mockFileChecker{exists: true}, store, "", zerolog.Nop())

	_, err := service.Resolve(context.Background(), "https://www.tiktok.com/@a/photo/1", platform.TikTok)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "image 3 of 4") {
		t.Errorf("error = %v, want mention of image 3 of 4", err)
	}

	// The two images fetched before the failure must be gone
	if got := tempFileCount(t, store.Dir()); got != 0 {
		t.Errorf("temp dir has %d files after gallery failure, want 0", got)
	}
}

func TestResolve_VideoFetchFailure(t *testing.T) {
	store := newTestStore(t)
	fetcher := &mockFetcher{
		failOnURL: "https://cdn.example.com/hd.mp4",
		failError: errors.New("status 403"),
	}

	service := NewService(&mockExtractor{lookup: videoLookup()}, fetcher, &mockDeriver{}, &mockFileChecker{exists: true}, store, "", zerolog.Nop())

	_, err := service.Resolve(context.Background(), "https://www.tiktok.com/@a/video/1", platform.TikTok)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "failed to download video") {
		t.Errorf("error = %v, want download failure message", err)
	}

	if got := tempFileCount(t, store.Dir()); got != 0 {
		t.Errorf("temp dir has %d files after fetch failure, want 0", got)
	}
}

func TestResolve_DownloadedVideoMissing(t *testing.T) {
	store := newTestStore(t)

	service := NewService(&mockExtractor{lookup: videoLookup()}, &mockFetcher{}, &mockDeriver{}, &mockFileChecker{exists: false}, store, "", zerolog.Nop())

	_, err := service.Resolve(context.Background(), "https://www.tiktok.com/@a/video/1", platform.TikTok)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("error = %v, want missing file message", err)
	}

	if got := tempFileCount(t, store.Dir()); got != 0 {
		t.Errorf("temp dir has %d files after precheck failure, want 0", got)
	}
}

func TestResolve_DeriveFailureCleansUp(t *testing.T) {
	store := newTestStore(t)
	deriver := &mockDeriver{
		shouldFail: true,
		failError:  &media.TranscodeError{Source: "x.mp4", Err: errors.New("exit status 1")},
	}

	service := NewService(&mockExtractor{lookup: videoLookup()}, &mockFetcher{}, deriver, &mockFileChecker{exists: true}, store, "", zerolog.Nop())

	_, err := service.Resolve(context.Background(), "https://www.tiktok.com/@a/video/1", platform.TikTok)

	var transcodeErr *media.TranscodeError
	if !errors.As(err, &transcodeErr) {
		t.Fatalf("Resolve() error = %v, want *media.TranscodeError", err)
	}

	// The downloaded video must not linger once derivation failed
	if got := tempFileCount(t, store.Dir()); got != 0 {
		t.Errorf("temp dir has %d files after derive failure, want 0", got)
	}
}

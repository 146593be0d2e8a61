package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"tiksave-bot/application/resolve"
	"tiksave-bot/domain/media"
	"tiksave-bot/domain/platform"
	"tiksave-bot/infrastructure/config"
	"tiksave-bot/infrastructure/fetch"
	"tiksave-bot/infrastructure/ffmpeg"
	"tiksave-bot/infrastructure/filesystem"
	"tiksave-bot/infrastructure/logging"
	"tiksave-bot/infrastructure/storage"
	"tiksave-bot/infrastructure/tikwm"

	"github.com/spf13/cobra"
)

var (
	downloadURL     string
	downloadOutput  string
	downloadBitrate string
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download one TikTok post to a local directory",
	Long: `Download one TikTok post without running the bot.

Videos are saved together with their extracted mp3 track; photo posts
are saved as numbered jpg files. Nothing is sent anywhere, the files
stay in the output directory.

Example:
  tiksave-bot download --url "https://vt.tiktok.com/ZS1234567/"
  tiksave-bot download --url "https://www.tiktok.com/@user/video/123" --output ./saved`,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().StringVar(&downloadURL, "url", "", "Post link to download (required)")
	downloadCmd.Flags().StringVar(&downloadOutput, "output", ".", "Directory to save files into")
	downloadCmd.Flags().StringVar(&downloadBitrate, "bitrate", "", "Audio bitrate (default from config or 128k)")
	downloadCmd.MarkFlagRequired("url")
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// Resolver turns one link into local files
type Resolver interface {
	Resolve(ctx context.Context, link string, p platform.Platform) (*media.Result, error)
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; check %s", config.DefaultConfigPath)
	}

	bitrate := downloadBitrate
	if bitrate == "" {
		bitrate = cfg.Audio.Bitrate
	}

	logger := logging.New(cfg.Log)

	// Verify ffmpeg is available before any network work
	deriver := ffmpeg.NewDeriver(ffmpeg.WithTimeout(cfg.Transcode.Timeout()))
	verifyCtx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	if err := deriver.VerifyInstalled(verifyCtx); err != nil {
		return fmt.Errorf("ffmpeg verification failed: %w", err)
	}

	store, err := storage.NewStore(downloadOutput, logger)
	if err != nil {
		return err
	}

	extractor := tikwm.NewClient(
		tikwm.WithBaseURL(cfg.API.BaseURL),
		tikwm.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout()}),
		tikwm.WithUserAgent(cfg.Fetch.UserAgent),
	)
	fetcher := fetch.NewFetcher(
		fetch.WithHTTPClient(&http.Client{Timeout: cfg.Fetch.Timeout()}),
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
	)

	resolver := resolve.NewService(extractor, fetcher, deriver, filesystem.NewChecker(), store, bitrate, logger)

	return RunDownloadWithDependencies(cmd.Context(), resolver, downloadURL, os.Stdout)
}

// RunDownloadWithDependencies runs the download command with injected
// dependencies (for testing)
func RunDownloadWithDependencies(ctx context.Context, resolver Resolver, url string, output OutputWriter) error {
	p, ok := platform.Detect(url)
	if !ok {
		return fmt.Errorf("unsupported link %s: %w", url, media.ErrUnsupportedPlatform)
	}

	fmt.Fprintf(output, "Resolving %s...\n", url)

	result, err := resolver.Resolve(ctx, url, p)
	if err != nil {
		return err
	}

	switch result.Kind {
	case media.ResultVideo:
		fmt.Fprintf(output, "Video: %s\n", result.Video.Path)
		fmt.Fprintf(output, "Audio: %s\n", result.Audio.Path)
	case media.ResultGallery:
		for i, img := range result.Images {
			fmt.Fprintf(output, "Photo %d: %s\n", i+1, img.Path)
		}
	}

	fmt.Fprintf(output, "Saved %d file(s)\n", len(result.Paths()))
	return nil
}

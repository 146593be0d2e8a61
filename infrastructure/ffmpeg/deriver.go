package ffmpeg

import (
	"context"
	"fmt"
	"time"

	"tiksave-bot/domain/media"
)

// Deriver implements media.AudioDeriver using ffmpeg
type Deriver struct {
	ffmpegPath string
	runner     CommandRunner
	timeout    time.Duration
}

// DeriverOption is a functional option for configuring Deriver
type DeriverOption func(*Deriver)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) DeriverOption {
	return func(d *Deriver) {
		d.ffmpegPath = path
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) DeriverOption {
	return func(d *Deriver) {
		d.runner = runner
	}
}

// WithTimeout bounds each transcode run. Zero means no limit.
func WithTimeout(timeout time.Duration) DeriverOption {
	return func(d *Deriver) {
		d.timeout = timeout
	}
}

// NewDeriver creates a new FFmpeg-based audio deriver
func NewDeriver(opts ...DeriverOption) *Deriver {
	d := &Deriver{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Derive implements media.AudioDeriver
func (d *Deriver) Derive(ctx context.Context, req *media.DeriveRequest, outputPath string) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	args := []string{
		"-i", req.SourceVideoPath,
		"-vn", // No video
		"-acodec", "libmp3lame", // MP3 codec
		"-ab", req.Bitrate, // Audio bitrate
		"-y", // Overwrite output file if it exists
		outputPath,
	}

	if err := d.runner.Run(ctx, d.ffmpegPath, args...); err != nil {
		// A killed process reports an opaque signal error; the context
		// error says why it was killed
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return &media.TranscodeError{Source: req.SourceVideoPath, Err: err}
	}

	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (d *Deriver) VerifyInstalled(ctx context.Context) error {
	_, err := d.runner.Output(ctx, d.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// Ensure Deriver implements media.AudioDeriver
var _ media.AudioDeriver = (*Deriver)(nil)

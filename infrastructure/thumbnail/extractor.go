//go:build thumbnail

package thumbnail

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"

	"tiksave-bot/domain/media"
)

// Extractor implements media.CoverExtractor using GoCV: it grabs the
// first frame of a downloaded video and writes it as a jpg
type Extractor struct{}

// NewExtractor creates a new GoCV-based cover extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractCover reads the first frame of videoPath and writes it to outPath
func (e *Extractor) ExtractCover(ctx context.Context, videoPath, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	capture, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		return fmt.Errorf("failed to open video %s: %w", videoPath, err)
	}
	defer capture.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	if ok := capture.Read(&frame); !ok || frame.Empty() {
		return fmt.Errorf("failed to read first frame of %s", videoPath)
	}

	if ok := gocv.IMWrite(outPath, frame); !ok {
		return fmt.Errorf("failed to write cover frame to %s", outPath)
	}

	return nil
}

// Ensure Extractor implements media.CoverExtractor
var _ media.CoverExtractor = (*Extractor)(nil)

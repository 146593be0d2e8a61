//go:build !thumbnail

package thumbnail

import (
	"context"
	"fmt"

	"tiksave-bot/domain/media"
)

// Extractor is a stub when GoCV/OpenCV is not available. Callers treat
// the error as "deliver without a thumbnail", so running without the
// tag only loses the video preview.
type Extractor struct{}

// NewExtractor creates a stub extractor (requires building with -tags=thumbnail)
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractCover returns an error indicating thumbnails are not available
func (e *Extractor) ExtractCover(ctx context.Context, videoPath, outPath string) error {
	return fmt.Errorf("thumbnails not available: build with '-tags=thumbnail' and install OpenCV/GoCV")
}

// Ensure Extractor implements media.CoverExtractor
var _ media.CoverExtractor = (*Extractor)(nil)

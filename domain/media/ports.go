package media

import "context"

// Extractor resolves a post link through the extraction API
// This is a port implemented by the concrete API client adapter
type Extractor interface {
	// Lookup resolves a link to its downloadable media URLs and metadata
	Lookup(ctx context.Context, url string) (*Lookup, error)
}

// Fetcher downloads a remote URL straight to a local file
type Fetcher interface {
	// Fetch streams url into destPath. On error no file remains at
	// destPath; the path is usable only when Fetch returned nil.
	Fetch(ctx context.Context, url, destPath string) error
}

// AudioDeriver derives an mp3 track from a downloaded video
// This is a port implemented by the external transcoder adapter
type AudioDeriver interface {
	// Derive transcodes the request's source video into outputPath
	Derive(ctx context.Context, req *DeriveRequest, outputPath string) error
}

// FileChecker defines the interface for checking file existence
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}

// CoverExtractor grabs a representative frame from a downloaded video.
// Implementations may be unavailable at runtime; callers treat any
// error as "deliver without a thumbnail".
type CoverExtractor interface {
	ExtractCover(ctx context.Context, videoPath, outPath string) error
}

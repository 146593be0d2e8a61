package media

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultAudioBitrate is the bitrate for derived audio tracks
const DefaultAudioBitrate = "128k"

// DeriveRequest represents a request to derive an mp3 track from a
// downloaded video
type DeriveRequest struct {
	SourceVideoPath string
	Bitrate         string
}

// NewDeriveRequest creates a DeriveRequest with validation
func NewDeriveRequest(sourcePath, bitrate string) (*DeriveRequest, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("source video path is required")
	}

	if bitrate == "" {
		bitrate = DefaultAudioBitrate
	}

	return &DeriveRequest{
		SourceVideoPath: sourcePath,
		Bitrate:         bitrate,
	}, nil
}

// OutputPath returns where the derived track lives: next to the source
// video, same base name, .mp3 extension
func (r *DeriveRequest) OutputPath() string {
	return AudioPathFor(r.SourceVideoPath)
}

// AudioPathFor maps a video path to its derived audio path
func AudioPathFor(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".mp3"
}

// CoverPathFor maps a video path to the temp path of its extracted
// cover frame
func CoverPathFor(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + "_cover.jpg"
}

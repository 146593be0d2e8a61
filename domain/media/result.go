package media

import "fmt"

// AssetKind classifies a file held in temp storage
type AssetKind string

const (
	AssetVideo AssetKind = "video"
	AssetAudio AssetKind = "audio"
	AssetImage AssetKind = "image"
)

// Asset is a reference to one file in temp storage
type Asset struct {
	Path string
	Kind AssetKind
}

// Meta carries post metadata used when presenting results in chat
type Meta struct {
	Title    string
	Author   string
	Duration int // seconds, zero when unknown
}

// ResultKind discriminates the two shapes a resolved post can take
type ResultKind string

const (
	ResultVideo   ResultKind = "video"
	ResultGallery ResultKind = "gallery"
)

// Result is the materialized outcome of resolving one link: either a
// video together with its derived audio track, or an ordered image
// gallery. Use the constructors; they enforce the shape invariants.
type Result struct {
	Kind   ResultKind
	Video  Asset
	Audio  Asset
	Images []Asset
	Meta   Meta
}

// NewVideoResult creates a video result. Both assets are required:
// a video post is always delivered together with its audio track.
func NewVideoResult(video, audio Asset, meta Meta) (*Result, error) {
	if video.Path == "" {
		return nil, fmt.Errorf("video asset path is required")
	}
	if audio.Path == "" {
		return nil, fmt.Errorf("audio asset path is required")
	}

	video.Kind = AssetVideo
	audio.Kind = AssetAudio

	return &Result{
		Kind:  ResultVideo,
		Video: video,
		Audio: audio,
		Meta:  meta,
	}, nil
}

// NewGalleryResult creates a gallery result. Image order is preserved
// as given (the extraction API's response order).
func NewGalleryResult(images []Asset, meta Meta) (*Result, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("at least one image is required")
	}

	tagged := make([]Asset, len(images))
	for i, img := range images {
		if img.Path == "" {
			return nil, fmt.Errorf("image %d has no path", i)
		}
		img.Kind = AssetImage
		tagged[i] = img
	}

	return &Result{
		Kind:   ResultGallery,
		Images: tagged,
		Meta:   meta,
	}, nil
}

// Assets returns every temp file the result owns, in delivery order.
// Cleanup must cover all of them, including gallery images past the
// per-group send limit.
func (r *Result) Assets() []Asset {
	switch r.Kind {
	case ResultVideo:
		return []Asset{r.Video, r.Audio}
	case ResultGallery:
		return r.Images
	}
	return nil
}

// Paths returns the file paths of Assets, in the same order
func (r *Result) Paths() []string {
	assets := r.Assets()
	paths := make([]string, len(assets))
	for i, a := range assets {
		paths[i] = a.Path
	}
	return paths
}

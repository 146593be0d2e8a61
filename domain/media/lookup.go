package media

// Lookup is the parsed extraction-API payload for one post. It carries
// remote URLs and metadata only; nothing has been downloaded yet.
type Lookup struct {
	Title     string
	Author    string
	Cover     string
	Duration  int // seconds
	PlayURL   string
	HDPlayURL string
	Images    []string
}

// HasImages reports whether the post is a photo gallery
func (l *Lookup) HasImages() bool {
	return len(l.Images) > 0
}

// BestVideoURL returns the preferred downloadable rendition: the HD
// field when the API provides one, the standard field otherwise.
// An empty string means the payload has no video rendition at all.
func (l *Lookup) BestVideoURL() string {
	if l.HDPlayURL != "" {
		return l.HDPlayURL
	}
	return l.PlayURL
}

// Meta extracts the presentation metadata carried by the payload
func (l *Lookup) Meta() Meta {
	return Meta{
		Title:    l.Title,
		Author:   l.Author,
		Duration: l.Duration,
	}
}

package platform

import (
	"regexp"
	"strings"
)

// Platform identifies a supported short-video platform. Its string form
// is used as the prefix of temp file names.
type Platform string

const (
	// TikTok covers canonical and short-link TikTok URLs
	TikTok Platform = "tiktok"
)

// domains maps each platform to the URL substrings that identify it,
// canonical form first, short-link forms after
var domains = map[Platform][]string{
	TikTok: {"tiktok.com", "vt.tiktok.com"},
}

var linkPattern = regexp.MustCompile(`https?://\S+`)

// String returns the platform name
func (p Platform) String() string {
	return string(p)
}

// Detect reports which supported platform a piece of text belongs to.
// Matching is a case-insensitive substring check against each platform's
// domain list, so bare links, short links and links embedded in
// surrounding text are all accepted. Unknown domains fail closed.
func Detect(text string) (Platform, bool) {
	lower := strings.ToLower(text)
	for p, subs := range domains {
		for _, sub := range subs {
			if strings.Contains(lower, sub) {
				return p, true
			}
		}
	}
	return "", false
}

// FindLinks extracts http(s) URLs from free-form message text in order
// of appearance. Text without links yields nil.
func FindLinks(text string) []string {
	return linkPattern.FindAllString(text, -1)
}

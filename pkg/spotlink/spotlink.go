// Package spotlink recognizes Spotify share links and derives download filenames.
package spotlink

import (
	"regexp"
	"strings"
)

const (
	// FallbackFilename is used when no item ID can be derived from the source URL.
	FallbackFilename = "Downloaded_Track.mp3"
	// filenamePrefix labels files named after a recognized item ID.
	filenamePrefix = "Track_"
)

// linkRegex matches Spotify track, album and playlist share links. The scheme
// is mandatory; the ?si= share parameter and the &nd=1 suffix are tolerated.
// The remote conversion service expects links in exactly this shape, so the
// pattern must not be loosened.
var linkRegex = regexp.MustCompile(
	`https?://open\.spotify\.com/(track|album|playlist)/[a-zA-Z0-9]+(\?si=[a-zA-Z0-9]+)?(&nd=1)?`)

// Match returns the first Spotify link contained anywhere in text, or false
// when text contains none. The returned string is the exact matched substring.
func Match(text string) (string, bool) {
	m := linkRegex.FindString(text)
	return m, m != ""
}

// ItemID extracts the opaque item identifier from a Spotify link: the last
// path segment with any query string stripped. It returns the empty string
// when no segment can be extracted. Never fails.
func ItemID(rawURL string) string {
	if idx := strings.IndexAny(rawURL, "?#"); idx != -1 {
		rawURL = rawURL[:idx]
	}
	rawURL = strings.TrimRight(rawURL, "/")
	if rawURL == "" {
		return ""
	}
	return rawURL[strings.LastIndex(rawURL, "/")+1:]
}

// SuggestedFilename derives the attachment filename for a converted track from
// its source URL. Extraction failures degrade to FallbackFilename; this
// function has no error path.
func SuggestedFilename(rawURL string) string {
	id := ItemID(rawURL)
	if id == "" {
		return FallbackFilename
	}
	return filenamePrefix + id + ".mp3"
}

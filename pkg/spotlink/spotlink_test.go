package spotlink

import (
	"testing"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		ok       bool
	}{
		{
			name:     "Bare track link",
			text:     "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC",
			expected: "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC",
			ok:       true,
		},
		{
			name:     "Track link with share parameter",
			text:     "https://open.spotify.com/track/abc123?si=xyz789",
			expected: "https://open.spotify.com/track/abc123?si=xyz789",
			ok:       true,
		},
		{
			name:     "Track link with share parameter and nd suffix",
			text:     "https://open.spotify.com/track/abc123?si=xyz789&nd=1",
			expected: "https://open.spotify.com/track/abc123?si=xyz789&nd=1",
			ok:       true,
		},
		{
			name:     "Link embedded in surrounding text",
			text:     "check this out https://open.spotify.com/album/5zi7WsKlIiUXv09tbGLKsE and more text",
			expected: "https://open.spotify.com/album/5zi7WsKlIiUXv09tbGLKsE",
			ok:       true,
		},
		{
			name:     "Playlist link",
			text:     "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			expected: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			ok:       true,
		},
		{
			name:     "Plain http scheme",
			text:     "http://open.spotify.com/track/abc",
			expected: "http://open.spotify.com/track/abc",
			ok:       true,
		},
		{
			name:     "First of two links wins",
			text:     "https://open.spotify.com/track/first https://open.spotify.com/track/second",
			expected: "https://open.spotify.com/track/first",
			ok:       true,
		},
		{
			name: "Missing scheme is rejected",
			text: "check this out open.spotify.com/track/abc123?si=xyz and more text",
			ok:   false,
		},
		{
			name: "Wrong host is rejected",
			text: "https://play.spotify.com/track/abc123",
			ok:   false,
		},
		{
			name: "Artist links are not supported",
			text: "https://open.spotify.com/artist/4gzpq5DPGxSnKTe4SA8HAU",
			ok:   false,
		},
		{
			name: "Free text without link",
			text: "play some arctic monkeys please",
			ok:   false,
		},
		{
			name: "Empty string",
			text: "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Match(tt.text)
			if ok != tt.ok {
				t.Fatalf("Match() ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("Match() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestMatchIsPure(t *testing.T) {
	text := "listen to https://open.spotify.com/track/abc123?si=xyz789 tonight"

	first, ok1 := Match(text)
	second, ok2 := Match(text)

	if !ok1 || !ok2 || first != second {
		t.Errorf("Match() is not stable: %q/%v vs %q/%v", first, ok1, second, ok2)
	}
}

func TestItemID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"Track URL", "https://open.spotify.com/track/xyz789", "xyz789"},
		{"Track URL with share parameter", "https://open.spotify.com/track/abc123?si=xyz789", "abc123"},
		{"Trailing slash", "https://open.spotify.com/track/abc123/", "abc123"},
		{"Fragment stripped", "https://open.spotify.com/track/abc123#frag", "abc123"},
		{"Empty string", "", ""},
		{"Only a query string", "?si=xyz", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ItemID(tt.url); got != tt.expected {
				t.Errorf("ItemID(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestSuggestedFilename(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "Name derived from track ID",
			url:      "https://open.spotify.com/track/xyz789",
			expected: "Track_xyz789.mp3",
		},
		{
			name:     "Query string does not leak into the name",
			url:      "https://open.spotify.com/track/abc123?si=xyz789",
			expected: "Track_abc123.mp3",
		},
		{
			name:     "Empty URL falls back to generic name",
			url:      "",
			expected: FallbackFilename,
		},
		{
			name:     "Bare query string falls back to generic name",
			url:      "?si=only",
			expected: FallbackFilename,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuggestedFilename(tt.url); got != tt.expected {
				t.Errorf("SuggestedFilename(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}

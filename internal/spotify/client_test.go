package spotify

import (
	"context"
	"testing"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"

	"spotfetch/internal/core"
)

func TestJoinArtists(t *testing.T) {
	tests := []struct {
		name     string
		artists  []spotify.SimpleArtist
		expected string
	}{
		{
			name:     "No artists",
			artists:  nil,
			expected: UnknownArtist,
		},
		{
			name:     "Single artist",
			artists:  []spotify.SimpleArtist{{Name: "Rick Astley"}},
			expected: "Rick Astley",
		},
		{
			name: "Multiple artists",
			artists: []spotify.SimpleArtist{
				{Name: "Daft Punk"},
				{Name: "Pharrell Williams"},
			},
			expected: "Daft Punk, Pharrell Williams",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinArtists(tt.artists); got != tt.expected {
				t.Errorf("joinArtists() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestLookupTrackRequiresAuthentication(t *testing.T) {
	client := NewClient(&core.SpotifyConfig{}, zap.NewNop())

	if _, err := client.LookupTrack(context.Background(), "4uLU6hMCjMI75M1A2tKUQC"); err == nil {
		t.Error("expected error from unauthenticated client")
	}
}

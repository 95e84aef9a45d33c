package text

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Plain text unchanged",
			input:    "https://open.spotify.com/track/abc123",
			expected: "https://open.spotify.com/track/abc123",
		},
		{
			name:     "Surrounding whitespace trimmed",
			input:    "  hello world  ",
			expected: "hello world",
		},
		{
			name:     "Multiple spaces collapsed",
			input:    "hello    world",
			expected: "hello world",
		},
		{
			name:     "Newlines joined",
			input:    "line one\nline two",
			expected: "line one line two",
		},
		{
			name:     "Fullwidth characters folded",
			input:    "ｈｔｔｐｓ",
			expected: "https",
		},
		{
			name:     "Empty string stays empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// Package text provides text normalization for inbound chat messages.
package text

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var spaceRegex = regexp.MustCompile(`[ \t]+`)

// Normalize prepares raw message text for link matching: Unicode NFKC
// normalization, whitespace collapsing and line joining. Telegram clients on
// some platforms paste links with full-width punctuation or stray newlines.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	text = norm.NFKC.String(text)
	text = spaceRegex.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	var normalizedLines []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			normalizedLines = append(normalizedLines, line)
		}
	}

	return strings.Join(normalizedLines, " ")
}

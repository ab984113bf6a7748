package security

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

// Length limits for user-supplied text
const (
	MaxTitleLength = 100
	MaxNameLength  = 50
)

// SanitizeString removes potentially dangerous characters and limits length in runes
func SanitizeString(input string, maxLen int) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Trim whitespace
	input = strings.TrimSpace(input)

	if maxLen > 0 && utf8.RuneCountInString(input) > maxLen {
		input = string([]rune(input)[:maxLen])
	}

	return input
}

// SanitizeHTML removes all HTML tags
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// SanitizeText strips markup from display text such as room titles and names
func SanitizeText(input string, maxLen int) string {
	// StrictPolicy escapes entities; display text is stored unescaped.
	return SanitizeString(html.UnescapeString(SanitizeHTML(input)), maxLen)
}

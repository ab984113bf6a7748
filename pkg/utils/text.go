package utils

import "strings"

// NormalizeKey lowercases and trims an enum-like input ("  Korean " -> "korean").
func NormalizeKey(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// FirstNonEmpty returns the first value that is not blank after trimming.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

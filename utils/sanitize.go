package utils

import "github.com/microcosm-cc/bluemonday"

// Post and comment bodies are plain text, so every tag gets stripped rather
// than whitelisted.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize removes HTML markup from user supplied text to prevent XSS.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.UGCPolicy()

// Sanitize cleans HTML content to prevent XSS attacks and trims surrounding whitespace.
func Sanitize(input string) string {
	return strings.TrimSpace(sanitizer.Sanitize(input))
}

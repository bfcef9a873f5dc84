package services

import (
	"regexp"
	"strings"
)

var (
	reTrailingSpace = regexp.MustCompile(`[ \t]+\n`)
	reMultiNewLine  = regexp.MustCompile(`\n{3,}`)
)

// cleanText normalizes user-written text before it is validated and compared:
// CRLF becomes LF, trailing spaces are dropped and blank-line runs collapse to one.
func cleanText(text string) string {
	cleaned := strings.ReplaceAll(text, "\r\n", "\n")
	cleaned = reTrailingSpace.ReplaceAllString(cleaned, "\n")
	cleaned = reMultiNewLine.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}

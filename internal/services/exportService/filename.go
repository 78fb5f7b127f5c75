package exportservice

import (
	"net/url"
	"strings"
)

const maxFilenameRunes = 100

var illegalFilenameChars = []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}

// SanitizeFilename makes a chat title safe to use as a filename.
// Illegal characters become underscores and over-long titles are
// truncated with a trailing ellipsis.
func SanitizeFilename(title string) string {
	name := title
	for _, c := range illegalFilenameChars {
		name = strings.ReplaceAll(name, c, "_")
	}

	runes := []rune(name)
	if len(runes) > maxFilenameRunes {
		name = string(runes[:maxFilenameRunes-3]) + "..."
	}

	if strings.TrimSpace(name) == "" {
		name = "untitled"
	}

	return name
}

// EncodeFilename percent-encodes a filename for use in a Markdown link.
func EncodeFilename(filename string) string {
	return url.PathEscape(filename)
}

package exportservice

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var dataURLPattern = regexp.MustCompile(`^data:image/(\w+);base64,(.+)$`)

// extractImage writes an image attachment under imagesPath/<chatID>/ and
// returns the relative Markdown link for a chat file living three levels
// deep (chats/YYYY/MM). Unknown URL forms return an empty link.
func extractImage(file MessageFile, chatID, imagesPath, dbDir string) (string, error) {
	chatImages := filepath.Join(imagesPath, chatID)
	if err := os.MkdirAll(chatImages, 0750); err != nil {
		return "", err
	}

	switch {
	case strings.HasPrefix(file.URL, "data:image/"):
		return saveDataURL(file.URL, chatID, chatImages)
	case strings.HasPrefix(file.URL, "/cache/"):
		return saveCacheImage(file.URL, chatID, chatImages, dbDir)
	default:
		return "", nil
	}
}

// saveDataURL decodes a base64 data URL. The filename is a hash of the
// encoded payload so re-exports never duplicate files.
func saveDataURL(url, chatID, chatImages string) (string, error) {
	m := dataURLPattern.FindStringSubmatch(url)
	if m == nil {
		return "", nil
	}
	format, payload := m[1], m[2]

	hash := sha256.Sum256([]byte(payload))
	filename := fmt.Sprintf("%x.%s", hash[:8], format)
	dest := filepath.Join(chatImages, filename)

	if _, err := os.Stat(dest); os.IsNotExist(err) {
		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", fmt.Errorf("invalid base64 image: %w", err)
		}
		if err := os.WriteFile(dest, raw, 0640); err != nil {
			return "", err
		}
	}

	return relImageLink(chatID, filename), nil
}

// saveCacheImage copies an image out of OpenWebUI's cache directory,
// which lives next to the database file.
func saveCacheImage(url, chatID, chatImages, dbDir string) (string, error) {
	src := filepath.Join(dbDir, strings.TrimPrefix(url, "/"))
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	raw, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(raw)
	ext := strings.TrimPrefix(filepath.Ext(src), ".")
	if ext == "" {
		ext = "png"
	}
	filename := fmt.Sprintf("%x.%s", hash[:8], ext)
	dest := filepath.Join(chatImages, filename)

	if _, err := os.Stat(dest); os.IsNotExist(err) {
		if err := os.WriteFile(dest, raw, 0640); err != nil {
			return "", err
		}
	}

	return relImageLink(chatID, filename), nil
}

// Chat files live at chats/YYYY/MM/<file>.md, images at images/<chat id>/.
func relImageLink(chatID, filename string) string {
	return fmt.Sprintf("../../../images/%s/%s", chatID, filename)
}

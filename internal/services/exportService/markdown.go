package exportservice

import (
	"fmt"
	"sort"
	"strings"
)

const defaultModelName = "Assistant"

// RenderMarkdown converts one chat into a Markdown document. Image
// attachments are extracted into imagesPath/<chat id>/ and referenced
// with relative links; dbDir resolves OpenWebUI /cache/ image URLs.
func RenderMarkdown(chat ChatRecord, imagesPath, dbDir string) (string, error) {
	var md strings.Builder

	md.WriteString(fmt.Sprintf("# %s\n\n", chat.Title))
	md.WriteString("---\n")
	md.WriteString(fmt.Sprintf("Created: %s\n", chat.CreatedAt.Format("2006-01-02 15:04:05")))
	md.WriteString(fmt.Sprintf("Updated: %s\n\n", chat.UpdatedAt.Format("2006-01-02 15:04:05")))

	messages := make([]Message, len(chat.Messages))
	copy(messages, chat.Messages)
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp < messages[j].Timestamp
	})

	modelName := defaultModelName

	for _, msg := range messages {
		content := msg.Content

		for _, file := range msg.Files {
			if !strings.HasPrefix(file.Type, "image") {
				continue
			}
			link, err := extractImage(file, chat.ID, imagesPath, dbDir)
			if err != nil || link == "" {
				// A broken attachment should not sink the whole export
				continue
			}
			content += fmt.Sprintf("\n\n![%s](%s)\n", imageLabel(file, link), link)
		}

		switch msg.Role {
		case "user":
			md.WriteString(fmt.Sprintf("## 🧑 User\n\n%s\n\n", content))
		case "assistant":
			if msg.ModelName != "" {
				modelName = msg.ModelName
			}
			md.WriteString(fmt.Sprintf("## 🤖 %s\n\n%s\n\n", modelName, content))
		}
		// system messages are skipped
	}

	return md.String(), nil
}

func imageLabel(file MessageFile, link string) string {
	if file.Name != "" {
		return file.Name
	}
	parts := strings.Split(link, "/")
	return parts[len(parts)-1]
}

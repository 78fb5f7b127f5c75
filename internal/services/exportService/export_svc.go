// Package exportservice renders OpenWebUI chats to Markdown.
// It reads the chat table of the live database (read-only) and writes
// one file per chat under chats/YYYY/MM inside the backup directory,
// plus an index.md linking all of them.
package exportservice

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Message is one entry of a chat transcript.
type Message struct {
	Role      string        `json:"role"`
	Content   string        `json:"content"`
	Timestamp int64         `json:"timestamp"`
	ModelName string        `json:"modelName"`
	Files     []MessageFile `json:"files"`
}

// MessageFile is an attachment reference inside a message.
type MessageFile struct {
	Type string `json:"type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type chatBody struct {
	Messages []Message `json:"messages"`
}

// ChatRecord is one row of the chat table with its transcript decoded.
type ChatRecord struct {
	ID        string
	UserID    string
	Title     string
	Archived  bool
	Pinned    bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  []Message
}

// Exporter reads chats from an OpenWebUI database.
type Exporter struct {
	db     *sql.DB
	dbPath string
}

// NewExporter opens the database read-only.
func NewExporter(dbPath string) (*Exporter, error) {
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Exporter{db: db, dbPath: dbPath}, nil
}

// Close closes the DB
func (e *Exporter) Close() error {
	return e.db.Close()
}

// Chats returns every chat, newest first. A non-empty userID restricts
// the result to that user's chats.
func (e *Exporter) Chats(userID string) ([]ChatRecord, error) {
	query := `SELECT id, user_id, title, archived, pinned, created_at, updated_at, chat
	          FROM chat`
	var args []interface{}
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := e.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	var chats []ChatRecord
	for rows.Next() {
		var (
			id, userID, title string
			archived, pinned  sql.NullInt64
			created, updated  int64
			body              sql.NullString
		)
		if err := rows.Scan(&id, &userID, &title, &archived, &pinned, &created, &updated, &body); err != nil {
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}

		chat := ChatRecord{
			ID:        id,
			UserID:    userID,
			Title:     title,
			Archived:  archived.Int64 != 0,
			Pinned:    pinned.Int64 != 0,
			CreatedAt: time.Unix(created, 0),
			UpdatedAt: time.Unix(updated, 0),
		}

		if body.Valid && body.String != "" {
			var parsed chatBody
			if err := json.Unmarshal([]byte(body.String), &parsed); err == nil {
				chat.Messages = parsed.Messages
			}
		}

		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return chats, nil
}

// Export renders every chat into backupPath and returns the number of
// chats written.
func (e *Exporter) Export(backupPath, userID string) (int, error) {
	chats, err := e.Chats(userID)
	if err != nil {
		return 0, err
	}

	imagesPath := filepath.Join(backupPath, "images")
	if err := os.MkdirAll(imagesPath, 0750); err != nil {
		return 0, fmt.Errorf("failed to create images dir: %w", err)
	}

	var index strings.Builder
	index.WriteString("# Index\n\n")

	// Oldest chats first keeps the index stable run over run
	sorted := make([]ChatRecord, len(chats))
	copy(sorted, chats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	// Chats with the same title in the same month must not overwrite
	// each other, so repeats get a numeric suffix.
	seen := make(map[string]int)

	for _, chat := range sorted {
		yearMonth := chat.CreatedAt.Format("2006/01")
		chatDir := filepath.Join(backupPath, "chats", yearMonth)
		if err := os.MkdirAll(chatDir, 0750); err != nil {
			return 0, fmt.Errorf("failed to create chat dir: %w", err)
		}

		base := SanitizeFilename(chat.Title)
		filename := base + ".md"
		key := filepath.Join(yearMonth, filename)
		if n := seen[key]; n > 0 {
			filename = fmt.Sprintf("%s_%d.md", base, n+1)
		}
		seen[key]++

		markdown, err := RenderMarkdown(chat, imagesPath, filepath.Dir(e.dbPath))
		if err != nil {
			return 0, fmt.Errorf("failed to render chat %s: %w", chat.ID, err)
		}

		if err := os.WriteFile(filepath.Join(chatDir, filename), []byte(markdown), 0640); err != nil {
			return 0, fmt.Errorf("failed to write chat file: %w", err)
		}

		index.WriteString(fmt.Sprintf("- [%s](./chats/%s/%s)\n",
			chat.Title, yearMonth, EncodeFilename(filename)))
	}

	if err := os.WriteFile(filepath.Join(backupPath, "index.md"), []byte(index.String()), 0640); err != nil {
		return 0, fmt.Errorf("failed to write index: %w", err)
	}

	return len(sorted), nil
}

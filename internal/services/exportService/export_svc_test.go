package exportservice

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatSchema = `
CREATE TABLE chat (
	id TEXT PRIMARY KEY,
	user_id TEXT,
	title TEXT,
	archived INTEGER,
	pinned INTEGER,
	created_at INTEGER,
	updated_at INTEGER,
	chat TEXT
);`

// newFixtureDB builds a small OpenWebUI-shaped database on disk.
func newFixtureDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "webui.db")

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(chatSchema)
	require.NoError(t, err)

	jan := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC).Unix()
	mar := time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC).Unix()

	rows := []struct {
		id, userID, title string
		created, updated  int64
		body              interface{}
	}{
		{
			"chat-a", "user-1", "Older chat", jan, jan,
			`{"messages":[{"role":"user","content":"ping","timestamp":1},{"role":"assistant","content":"pong","timestamp":2,"modelName":"llama3.1"}]}`,
		},
		{
			"chat-b", "user-2", "Newer chat", mar, mar,
			`{"messages":[{"role":"user","content":"hello","timestamp":1}]}`,
		},
		{
			"chat-c", "user-1", "Empty body", mar, mar, nil,
		},
	}
	for _, r := range rows {
		_, err := db.Exec(
			`INSERT INTO chat (id, user_id, title, archived, pinned, created_at, updated_at, chat)
			 VALUES (?, ?, ?, 0, 0, ?, ?, ?)`,
			r.id, r.userID, r.title, r.created, r.updated, r.body,
		)
		require.NoError(t, err)
	}

	return dbPath
}

func TestChats(t *testing.T) {
	exp, err := NewExporter(newFixtureDB(t))
	require.NoError(t, err)
	defer exp.Close()

	t.Run("all users, newest first", func(t *testing.T) {
		chats, err := exp.Chats("")
		require.NoError(t, err)
		require.Len(t, chats, 3)

		assert.Equal(t, "Older chat", chats[len(chats)-1].Title)
		assert.True(t, chats[0].UpdatedAt.After(chats[len(chats)-1].UpdatedAt))
	})

	t.Run("filtered by user id", func(t *testing.T) {
		chats, err := exp.Chats("user-1")
		require.NoError(t, err)
		require.Len(t, chats, 2)
		for _, c := range chats {
			assert.Equal(t, "user-1", c.UserID)
		}
	})

	t.Run("transcript is decoded", func(t *testing.T) {
		chats, err := exp.Chats("user-2")
		require.NoError(t, err)
		require.Len(t, chats, 1)
		require.Len(t, chats[0].Messages, 1)
		assert.Equal(t, "hello", chats[0].Messages[0].Content)
	})

	t.Run("null chat body yields no messages", func(t *testing.T) {
		chats, err := exp.Chats("")
		require.NoError(t, err)
		for _, c := range chats {
			if c.ID == "chat-c" {
				assert.Empty(t, c.Messages)
			}
		}
	})
}

func TestExport(t *testing.T) {
	exp, err := NewExporter(newFixtureDB(t))
	require.NoError(t, err)
	defer exp.Close()

	backupPath := t.TempDir()

	n, err := exp.Export(backupPath, "")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Files are grouped by creation year/month
	assert.FileExists(t, filepath.Join(backupPath, "chats", "2025", "01", "Older chat.md"))
	assert.FileExists(t, filepath.Join(backupPath, "chats", "2025", "03", "Newer chat.md"))
	assert.DirExists(t, filepath.Join(backupPath, "images"))

	index, err := os.ReadFile(filepath.Join(backupPath, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "[Older chat](./chats/2025/01/Older%20chat.md)")
	assert.Contains(t, string(index), "[Newer chat](./chats/2025/03/Newer%20chat.md)")

	older, err := os.ReadFile(filepath.Join(backupPath, "chats", "2025", "01", "Older chat.md"))
	require.NoError(t, err)
	assert.Contains(t, string(older), "## 🤖 llama3.1")
}

func TestExportFilteredByUser(t *testing.T) {
	exp, err := NewExporter(newFixtureDB(t))
	require.NoError(t, err)
	defer exp.Close()

	backupPath := t.TempDir()

	n, err := exp.Export(backupPath, "user-2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.FileExists(t, filepath.Join(backupPath, "chats", "2025", "03", "Newer chat.md"))
	assert.NoFileExists(t, filepath.Join(backupPath, "chats", "2025", "01", "Older chat.md"))
}

func TestExportCollidingTitles(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "webui.db")
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)

	_, err = db.Exec(chatSchema)
	require.NoError(t, err)

	// Two distinct chats with the same title in the same month
	created := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC).Unix()
	for i, id := range []string{"chat-x", "chat-y"} {
		_, err := db.Exec(
			`INSERT INTO chat (id, user_id, title, archived, pinned, created_at, updated_at, chat)
			 VALUES (?, 'user-1', 'Notes', 0, 0, ?, ?, ?)`,
			id, created+int64(i), created+int64(i),
			`{"messages":[{"role":"user","content":"body of `+id+`","timestamp":1}]}`,
		)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	exp, err := NewExporter(dbPath)
	require.NoError(t, err)
	defer exp.Close()

	backupPath := t.TempDir()
	n, err := exp.Export(backupPath, "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	first := filepath.Join(backupPath, "chats", "2025", "05", "Notes.md")
	second := filepath.Join(backupPath, "chats", "2025", "05", "Notes_2.md")
	assert.FileExists(t, first)
	assert.FileExists(t, second, "a colliding title must not overwrite the earlier chat")

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	index, err := os.ReadFile(filepath.Join(backupPath, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "Notes.md")
	assert.Contains(t, string(index), "Notes_2.md")
}

func TestExportIsRepeatable(t *testing.T) {
	exp, err := NewExporter(newFixtureDB(t))
	require.NoError(t, err)
	defer exp.Close()

	backupPath := t.TempDir()

	_, err = exp.Export(backupPath, "")
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(backupPath, "index.md"))
	require.NoError(t, err)

	_, err = exp.Export(backupPath, "")
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(backupPath, "index.md"))
	require.NoError(t, err)

	assert.Equal(t, first, second, "re-exports must produce the same index")
}

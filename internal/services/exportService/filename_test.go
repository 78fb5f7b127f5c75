package exportservice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "plain title", title: "Weekly sync notes", want: "Weekly sync notes"},
		{name: "path separators", title: "a/b\\c", want: "a_b_c"},
		{name: "windows-illegal chars", title: `q: *what?* "x" <y> |z|`, want: "q_ _what__ _x_ _y_ _z_"},
		{name: "empty title", title: "", want: "untitled"},
		{name: "whitespace only", title: "   ", want: "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.title))
		})
	}

	t.Run("long titles are truncated", func(t *testing.T) {
		got := SanitizeFilename(strings.Repeat("x", 250))
		assert.Len(t, []rune(got), 100)
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("multibyte titles count runes not bytes", func(t *testing.T) {
		got := SanitizeFilename(strings.Repeat("日", 150))
		assert.Len(t, []rune(got), 100)
	})
}

func TestEncodeFilename(t *testing.T) {
	assert.Equal(t, "Weekly%20sync%20notes.md", EncodeFilename("Weekly sync notes.md"))
	assert.Equal(t, "plain.md", EncodeFilename("plain.md"))
}

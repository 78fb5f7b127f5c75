package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	exportservice "github.com/owui-tools/chatbak/internal/services/exportService"
)

var (
	keyQuit    = key.NewBinding(key.WithKeys("q", "ctrl+c"))
	keyOpen    = key.NewBinding(key.WithKeys("enter"))
	keyBack    = key.NewBinding(key.WithKeys("esc"))
	keyRefresh = key.NewBinding(key.WithKeys("r"))
)

func (m UIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.vp = viewport.New(msg.Width-4, msg.Height-6)
		if !m.loading {
			m.tableComp = m.buildTable()
		}
		return m, nil

	case chatsLoadedMsg:
		m.chats = msg.chats
		m.loading = false
		m.errMsg = ""
		m.tableComp = m.buildTable()
		return m, nil

	case errMsg:
		m.errMsg = msg.err.Error()
		m.loading = false
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keyQuit):
			return m, tea.Quit

		case key.Matches(msg, keyBack):
			if m.mode == modePreview {
				m.mode = modeList
			}
			return m, nil

		case key.Matches(msg, keyRefresh):
			if m.mode == modeList {
				m.loading = true
				return m, m.loadChatsCmd()
			}

		case key.Matches(msg, keyOpen):
			if m.mode == modeList && len(m.chats) > 0 {
				if i, ok := m.highlightedChat(); ok {
					chat := m.chats[i]
					m.previewTitle = chat.Title
					m.vp.SetContent(renderTranscript(chat))
					m.vp.GotoTop()
					m.mode = modePreview
				}
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeList:
		if !m.loading {
			m.tableComp, cmd = m.tableComp.Update(msg)
		}
	case modePreview:
		m.vp, cmd = m.vp.Update(msg)
	}

	return m, cmd
}

func (m UIModel) highlightedChat() (int, bool) {
	row := m.tableComp.HighlightedRow()
	idx, ok := row.Data[colIndex].(int)
	if !ok || idx < 0 || idx >= len(m.chats) {
		return 0, false
	}
	return idx, true
}

func renderTranscript(chat exportservice.ChatRecord) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Created %s, updated %s\n\n",
		chat.CreatedAt.Format("2006-01-02 15:04"),
		chat.UpdatedAt.Format("2006-01-02 15:04")))

	for _, msg := range chat.Messages {
		switch msg.Role {
		case "user":
			b.WriteString("🧑 User\n")
		case "assistant":
			name := msg.ModelName
			if name == "" {
				name = "Assistant"
			}
			b.WriteString(fmt.Sprintf("🤖 %s\n", name))
		default:
			continue
		}
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	}

	return b.String()
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))
)

func (m UIModel) View() string {
	if m.loading {
		return "Loading chats...\n"
	}

	if m.errMsg != "" {
		return errorStyle.Render("Error: "+m.errMsg) + "\n\n" + helpStyle.Render("q: quit")
	}

	var content strings.Builder

	switch m.mode {
	case modeList:
		content.WriteString(titleStyle.Render(fmt.Sprintf("Chats (%d)", len(m.chats))))
		content.WriteString("\n\n")
		content.WriteString(m.tableComp.View())
		content.WriteString("\n")
		content.WriteString(helpStyle.Render("↑/↓: navigate • enter: preview • r: reload • q: quit"))

	case modePreview:
		content.WriteString(titleStyle.Render(m.previewTitle))
		content.WriteString("\n\n")
		content.WriteString(m.vp.View())
		content.WriteString("\n")
		content.WriteString(helpStyle.Render("↑/↓: scroll • esc: back • q: quit"))
	}

	return content.String()
}

package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m UIModel) loadChatsCmd() tea.Cmd {
	return func() tea.Msg {
		chats, err := m.svc.Chats(m.userID)
		if err != nil {
			return errMsg{err}
		}
		return chatsLoadedMsg{chats: chats}
	}
}

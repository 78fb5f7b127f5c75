// Interactive browser over the chats in an OpenWebUI database.
// Read-only: nothing here writes to the database or the backup dir.
package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	t "github.com/evertras/bubble-table/table"

	exportservice "github.com/owui-tools/chatbak/internal/services/exportService"
)

type viewMode int

const (
	modeList viewMode = iota
	modePreview
)

type UIModel struct {
	// service
	svc    *exportservice.Exporter
	userID string

	// mode / navigation
	mode viewMode

	// loaded chats, newest first
	chats []exportservice.ChatRecord

	// quick state
	errMsg  string
	loading bool

	// preview (scrollable)
	previewTitle string
	vp           viewport.Model

	// table component and terminal size
	tableComp  t.Model
	termWidth  int
	termHeight int
}

func NewUIModel(svc *exportservice.Exporter, userID string) UIModel {
	return UIModel{
		svc:     svc,
		userID:  userID,
		mode:    modeList,
		loading: true,
		vp:      viewport.Model{},
	}
}

func (m UIModel) Init() tea.Cmd {
	return m.loadChatsCmd()
}

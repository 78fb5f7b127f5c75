package ui

import (
	exportservice "github.com/owui-tools/chatbak/internal/services/exportService"
)

type chatsLoadedMsg struct {
	chats []exportservice.ChatRecord
}

type errMsg struct {
	err error
}

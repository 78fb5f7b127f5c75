package ui

import (
	"fmt"

	t "github.com/evertras/bubble-table/table"
)

const (
	colTitle    = "title"
	colMessages = "messages"
	colCreated  = "created"
	colUpdated  = "updated"

	// carried in row data but never shown
	colIndex = "__index__"
)

func (m UIModel) buildTable() t.Model {
	titleWidth := 40
	if m.termWidth > 90 {
		titleWidth = m.termWidth - 50
	}

	columns := []t.Column{
		t.NewColumn(colTitle, "Title", titleWidth),
		t.NewColumn(colMessages, "Msgs", 6),
		t.NewColumn(colCreated, "Created", 18),
		t.NewColumn(colUpdated, "Updated", 18),
	}

	rows := make([]t.Row, 0, len(m.chats))
	for i, chat := range m.chats {
		rows = append(rows, t.NewRow(t.RowData{
			colTitle:    chat.Title,
			colMessages: fmt.Sprintf("%d", len(chat.Messages)),
			colCreated:  chat.CreatedAt.Format("2006-01-02 15:04"),
			colUpdated:  chat.UpdatedAt.Format("2006-01-02 15:04"),
			colIndex:    i,
		}))
	}

	pageSize := 15
	if m.termHeight > 22 {
		pageSize = m.termHeight - 7
	}

	return t.New(columns).
		WithRows(rows).
		WithPageSize(pageSize).
		Focused(true)
}

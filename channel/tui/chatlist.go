package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type sessionItem struct{ SessionSummary }

func (i sessionItem) Title() string {
	if i.SessionSummary.Title != "" {
		return i.SessionSummary.Title
	}
	return i.Key
}

func (i sessionItem) Description() string {
	if i.Preview != "" {
		return i.Preview
	}
	if !i.UpdatedAt.IsZero() {
		return i.UpdatedAt.Format("2006-01-02 15:04")
	}
	return ""
}

func (i sessionItem) FilterValue() string { return i.Title() + " " + i.Preview }

// ChatList shows stored chats. Enter emits SessionSelectedMsg.
type ChatList struct {
	list    list.Model
	focused bool
}

// NewChatList creates an empty chat list.
func NewChatList() *ChatList {
	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Chats"
	l.Styles.Title = listTitleStyle
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return &ChatList{list: l}
}

// Len returns the number of chats listed.
func (p *ChatList) Len() int { return len(p.list.Items()) }

// Selected returns the highlighted chat, if any.
func (p *ChatList) Selected() (SessionSummary, bool) {
	item, ok := p.list.SelectedItem().(sessionItem)
	if !ok {
		return SessionSummary{}, false
	}
	return item.SessionSummary, true
}

func (p *ChatList) Focus() tea.Cmd {
	p.focused = true
	return nil
}

func (p *ChatList) Blur() { p.focused = false }

func (p *ChatList) Focused() bool { return p.focused }

func (p *ChatList) Update(msg tea.Msg) (Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case SessionsMsg:
		items := make([]list.Item, len(msg.Sessions))
		for i, s := range msg.Sessions {
			items[i] = sessionItem{s}
		}
		return p, p.list.SetItems(items)
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		if msg.Type == tea.KeyEnter {
			s, ok := p.Selected()
			if !ok {
				return p, nil
			}
			return p, func() tea.Msg { return SessionSelectedMsg{Key: s.Key} }
		}
	}
	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

func (p *ChatList) View() string {
	return p.list.View()
}

func (p *ChatList) SetSize(width, height int) {
	p.list.SetSize(width, height)
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/linanwx/nagochat/termmd"
)

const emptyChatHint = "No messages yet. Type below and press ctrl+r to send."

// ChatPanel shows the transcript of the current chat. Assistant replies are
// rendered as Markdown; rendered blocks are cached until the width changes.
type ChatPanel struct {
	viewport viewport.Model
	messages []ChatMsg
	blocks   []string
	width    int
}

// NewChatPanel creates an empty chat panel.
func NewChatPanel() *ChatPanel {
	p := &ChatPanel{viewport: viewport.New(0, 0)}
	p.show()
	return p
}

// Len returns the number of messages shown.
func (p *ChatPanel) Len() int { return len(p.messages) }

func (p *ChatPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case ChatMsg:
		p.messages = append(p.messages, msg)
		p.blocks = append(p.blocks, p.render(msg))
		p.show()
		return p, nil
	case TranscriptMsg:
		p.messages = append([]ChatMsg(nil), msg.Messages...)
		p.rerender()
		return p, nil
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *ChatPanel) rerender() {
	p.blocks = p.blocks[:0]
	for _, m := range p.messages {
		p.blocks = append(p.blocks, p.render(m))
	}
	p.show()
}

func (p *ChatPanel) show() {
	if len(p.blocks) == 0 {
		p.viewport.SetContent(placeholderStyle.Render(emptyChatHint))
		return
	}
	p.viewport.SetContent(strings.Join(p.blocks, "\n\n"))
	p.viewport.GotoBottom()
}

func (p *ChatPanel) render(m ChatMsg) string {
	if m.IsUser {
		return userMsgStyle.Width(max(p.width-2, 1)).Render("> " + m.Text)
	}
	return termmd.Render(m.Text, max(p.width-2, 20))
}

func (p *ChatPanel) View() string {
	return p.viewport.View()
}

func (p *ChatPanel) SetSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
	if width != p.width {
		p.width = width
		p.rerender()
	}
}

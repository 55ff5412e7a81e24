package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultMaxLogLines = 500

// LogPanel shows the logger output while the TUI owns the terminal. Records
// arrive one line each as LogLineMsg and are coloured by their slog level.
type LogPanel struct {
	viewport viewport.Model
	lines    []string
	styled   []string
	maxLines int
}

// NewLogPanel creates a log panel.
func NewLogPanel() *LogPanel {
	return &LogPanel{
		viewport: viewport.New(0, 0),
		maxLines: defaultMaxLogLines,
	}
}

// Lines returns the buffered log lines without styling.
func (p *LogPanel) Lines() []string {
	return append([]string(nil), p.lines...)
}

func (p *LogPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if msg, ok := msg.(LogLineMsg); ok {
		p.append(strings.TrimRight(msg.Line, "\r\n"))
		return p, nil
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *LogPanel) append(line string) {
	p.lines = append(p.lines, line)
	p.styled = append(p.styled, levelStyle(line).Render(line))
	if over := len(p.lines) - p.maxLines; over > 0 {
		p.lines = p.lines[over:]
		p.styled = p.styled[over:]
	}
	atBottom := p.viewport.AtBottom()
	p.viewport.SetContent(strings.Join(p.styled, "\n"))
	if atBottom {
		p.viewport.GotoBottom()
	}
}

// levelStyle picks a colour from the level attribute of a text or JSON
// slog record.
func levelStyle(line string) lipgloss.Style {
	switch {
	case strings.Contains(line, "level=ERROR"), strings.Contains(line, `"level":"ERROR"`):
		return logErrorStyle
	case strings.Contains(line, "level=WARN"), strings.Contains(line, `"level":"WARN"`):
		return logWarnStyle
	}
	return logLineStyle
}

func (p *LogPanel) View() string {
	return p.viewport.View()
}

func (p *LogPanel) SetSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
}

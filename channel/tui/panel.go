// Package tui provides the terminal chat interface: a submittable multi-line
// input, a toggleable chat list and the transcript, composed by App.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Panel is a composable TUI region with its own state, update logic, and view.
// The root App model orchestrates panels without knowing their internals.
type Panel interface {
	Update(tea.Msg) (Panel, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Focusable panels accept keyboard input only while focused.
type Focusable interface {
	Focus() tea.Cmd
	Blur()
	Focused() bool
}

// SubmittedMsg is posted when the user submits the text area.
type SubmittedMsg struct {
	TextArea *ChatTextArea
}

// Control returns the text area that sent the message.
func (m SubmittedMsg) Control() *ChatTextArea { return m.TextArea }

// FocusNextMsg asks the host to move focus to the next focusable panel.
type FocusNextMsg struct{}

// LogLineMsg carries a single log line from the logger writer.
type LogLineMsg struct{ Line string }

// ChatMsg carries a chat message to display in the conversation panel.
// A non-empty SessionKey for a chat that is not on screen is dropped.
type ChatMsg struct {
	SessionKey string
	Text       string
	IsUser     bool
}

// TranscriptMsg replaces the conversation panel with a stored session.
type TranscriptMsg struct {
	SessionKey string
	Messages   []ChatMsg
}

// SessionSummary describes one stored chat for the chat list.
type SessionSummary struct {
	Key       string
	Title     string
	Preview   string
	UpdatedAt time.Time
}

// SessionsMsg refreshes the chat list.
type SessionsMsg struct{ Sessions []SessionSummary }

// SessionSelectedMsg is emitted when a chat is picked from the list.
type SessionSelectedMsg struct{ Key string }

// ReplyPendingMsg toggles the "thinking" indicator in the status bar.
type ReplyPendingMsg struct{ Pending bool }

// Input is a user action forwarded from the TUI to the channel consumer.
type Input struct {
	SessionKey string
	Text       string
	Open       bool // load SessionKey instead of sending Text
}

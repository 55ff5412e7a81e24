package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/linanwx/nagochat/logger"
	"github.com/linanwx/nagochat/tokens"
)

const (
	defaultLogRatio     = 0.3
	defaultSidebarWidth = 30
	inputHeight         = 6
	statusHeight        = 1
)

const (
	ActionNewChat Action = "new_chat"
	ActionQuit    Action = "quit"
)

// AppBindings are handled by App itself after the focused widget and the
// chat list container had their chance.
var AppBindings = []Binding{
	{Keys: []string{"tab"}, Action: ActionFocusNext, Description: "Next Pane"},
	{Keys: []string{"ctrl+n"}, Action: ActionNewChat, Description: "New Chat", Show: true},
	{Keys: []string{"ctrl+c"}, Action: ActionQuit, Description: "Quit", Show: true},
}

var appKeys = mustKeyMap(AppBindings)

// Options configures the root model.
type Options struct {
	ShowChatList bool
	ShowLogPanel bool
	SidebarWidth int
	LogRatio     float64
	SessionKey   string
}

// App is the root bubbletea model that orchestrates panels and layout.
type App struct {
	container *ListContainer
	chatList  *ChatList
	chatPanel *ChatPanel
	logPanel  *LogPanel
	input     *ChatTextArea
	help      help.Model

	opts       Options
	focusRing  []Focusable
	focus      int
	sessionKey string
	pending    bool

	width, height int

	// InputCh receives submitted text and chat selections.
	InputCh chan Input
}

// NewApp creates the root TUI model.
func NewApp(opts Options) *App {
	if opts.SidebarWidth <= 0 {
		opts.SidebarWidth = defaultSidebarWidth
	}
	if opts.LogRatio <= 0 || opts.LogRatio >= 1 {
		opts.LogRatio = defaultLogRatio
	}
	if opts.SessionKey == "" {
		opts.SessionKey = NewSessionKey()
	}

	chatList := NewChatList()
	m := &App{
		chatList:   chatList,
		container:  NewListContainer(chatList),
		chatPanel:  NewChatPanel(),
		logPanel:   NewLogPanel(),
		input:      NewChatTextArea(),
		help:       help.New(),
		opts:       opts,
		sessionKey: opts.SessionKey,
		InputCh:    make(chan Input, 16),
	}
	m.container.SetShowChatList(opts.ShowChatList)
	m.focusRing = []Focusable{m.input, m.chatList}
	m.input.Focus()
	return m
}

// NewSessionKey returns a fresh key for a new chat.
func NewSessionKey() string {
	return "chat-" + uuid.NewString()[:8]
}

// Input returns the chat input widget.
func (m *App) Input() *ChatTextArea { return m.input }

// Container returns the chat list container.
func (m *App) Container() *ListContainer { return m.container }

// SessionKey returns the chat currently shown.
func (m *App) SessionKey() string { return m.sessionKey }

func (m *App) Init() tea.Cmd {
	return nil
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.recalcLayout()
		return m, cmd

	case SubmittedMsg:
		m.submit(msg)

	case FocusNextMsg:
		m.focusNext()

	case SessionSelectedMsg:
		m.sessionKey = msg.Key
		m.pending = false
		m.forward(Input{SessionKey: msg.Key, Open: true})
		m.setFocus(0)

	case TranscriptMsg:
		m.sessionKey = msg.SessionKey
		_, cmd := m.chatPanel.Update(msg)
		cmds = append(cmds, cmd)

	case ChatMsg:
		if msg.SessionKey != "" && msg.SessionKey != m.sessionKey {
			break
		}
		if !msg.IsUser {
			m.pending = false
		}
		_, cmd := m.chatPanel.Update(msg)
		cmds = append(cmds, cmd)

	case ReplyPendingMsg:
		m.pending = msg.Pending

	case LogLineMsg:
		_, cmd := m.logPanel.Update(msg)
		cmds = append(cmds, cmd)

	case SessionsMsg:
		_, cmd := m.container.Update(msg)
		cmds = append(cmds, cmd)

	default:
		// Mouse wheel and other framework messages scroll the transcript.
		_, cmd := m.chatPanel.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey routes a key press the way a widget tree bubbles it: the focused
// widget first, then the chat list container, then App bindings.
func (m *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.input.Focused() && m.input.Binds(msg) {
		_, cmd := m.input.Update(msg)
		return cmd
	}
	if m.container.Binds(msg) {
		_, cmd := m.container.Update(msg)
		if !m.sidebarShown() && m.chatList.Focused() {
			m.setFocus(0)
		}
		return cmd
	}
	if b, ok := appKeys.Lookup(msg); ok {
		switch b.Action {
		case ActionQuit:
			return tea.Quit
		case ActionFocusNext:
			m.focusNext()
		case ActionNewChat:
			m.newChat()
		}
		return nil
	}
	if m.chatList.Focused() {
		_, cmd := m.container.Update(msg)
		return cmd
	}
	return nil
}

func (m *App) submit(msg SubmittedMsg) {
	if msg.TextArea != m.input {
		return
	}
	text := strings.TrimSpace(msg.TextArea.Text())
	if text == "" {
		return
	}
	m.chatPanel.Update(ChatMsg{Text: text, IsUser: true})
	m.input.Reset()
	m.pending = true
	m.forward(Input{SessionKey: m.sessionKey, Text: text})
}

// forward hands input to the channel consumer without blocking the UI.
func (m *App) forward(in Input) {
	select {
	case m.InputCh <- in:
	default:
		logger.Warn("tui input buffer full, input dropped", "session", in.SessionKey)
	}
}

func (m *App) newChat() {
	m.sessionKey = NewSessionKey()
	m.chatPanel.Update(TranscriptMsg{SessionKey: m.sessionKey})
	m.input.Reset()
	m.pending = false
	m.setFocus(0)
}

func (m *App) focusNext() {
	for step := 1; step <= len(m.focusRing); step++ {
		next := (m.focus + step) % len(m.focusRing)
		if m.focusRing[next] == Focusable(m.chatList) && !m.sidebarShown() {
			continue
		}
		m.setFocus(next)
		return
	}
}

func (m *App) setFocus(i int) {
	for j, f := range m.focusRing {
		if j == i {
			f.Focus()
		} else {
			f.Blur()
		}
	}
	m.focus = i
}

func (m *App) sidebarShown() bool {
	return displayed(m.container, sidebarRules)
}

func (m *App) View() string {
	if m.width == 0 || m.height == 0 {
		return "initializing..."
	}

	mainW := m.mainWidth()
	parts := make([]string, 0, 5)
	if m.opts.ShowLogPanel {
		parts = append(parts,
			m.logPanel.View(),
			separatorStyle.Render(strings.Repeat("─", mainW)),
		)
	}
	parts = append(parts, m.chatPanel.View(), m.input.View(), m.statusView(mainW))
	main := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if !m.sidebarShown() {
		return main
	}
	frame := sidebarStyle
	if m.chatList.Focused() {
		frame = sidebarFocusedStyle
	}
	side := frame.Height(m.height).Render(m.container.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, side, main)
}

func (m *App) statusView(width int) string {
	bindings := make([]key.Binding, 0, 4)
	bindings = append(bindings, m.input.KeyMap().ShortHelp()...)
	bindings = append(bindings, m.container.KeyMap().ShortHelp()...)
	bindings = append(bindings, appKeys.ShortHelp()...)
	m.help.Width = width

	status := m.help.ShortHelpView(bindings)
	info := fmt.Sprintf("%d tokens", tokens.Count(m.input.Text()))
	if m.pending {
		info = pendingStyle.Render("thinking...") + "  " + info
	}
	gap := max(width-lipgloss.Width(status)-lipgloss.Width(info), 1)
	return status + strings.Repeat(" ", gap) + statusStyle.Render(info)
}

func (m *App) mainWidth() int {
	if m.sidebarShown() {
		return max(m.width-m.opts.SidebarWidth, 1)
	}
	return m.width
}

func (m *App) recalcLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	mainW := m.mainWidth()
	m.container.SetSize(max(m.opts.SidebarWidth-1, 1), m.height)

	usable := max(m.height-inputHeight-statusHeight, 2)
	chatH := usable
	if m.opts.ShowLogPanel {
		logH := max(int(float64(usable)*m.opts.LogRatio), 1)
		chatH = max(usable-logH-1, 1)
		m.logPanel.SetSize(mainW, logH)
	}
	m.chatPanel.SetSize(mainW, chatH)
	m.input.SetSize(mainW, inputHeight)
}

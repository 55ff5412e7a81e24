package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestApp(t *testing.T, opts Options) *App {
	t.Helper()
	if opts.SessionKey == "" {
		opts.SessionKey = "chat-test"
	}
	m := NewApp(opts)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func TestAppSubmitForwardsInput(t *testing.T) {
	m := newTestApp(t, Options{ShowChatList: true})
	m.Input().Editor().SetText("  hello\nworld  ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd == nil {
		t.Fatal("ctrl+r returned no command")
	}
	m.Update(cmd())

	select {
	case in := <-m.InputCh:
		if in.SessionKey != "chat-test" || in.Text != "hello\nworld" || in.Open {
			t.Fatalf("forwarded %+v", in)
		}
	default:
		t.Fatal("nothing forwarded")
	}
	if m.Input().Text() != "" {
		t.Fatalf("draft not cleared: %q", m.Input().Text())
	}
	if m.chatPanel.Len() != 1 {
		t.Fatalf("transcript len = %d, want 1", m.chatPanel.Len())
	}
}

func TestAppIgnoresBlankSubmit(t *testing.T) {
	m := newTestApp(t, Options{ShowChatList: true})
	m.Input().Editor().SetText(" \n ")
	m.Update(SubmittedMsg{TextArea: m.Input()})
	select {
	case in := <-m.InputCh:
		t.Fatalf("blank submit forwarded %+v", in)
	default:
	}
	if m.Input().Text() != " \n " {
		t.Fatal("blank submit modified the draft")
	}
}

func TestAppCtrlLHidesSidebar(t *testing.T) {
	m := newTestApp(t, Options{ShowChatList: true})
	m.Update(SessionsMsg{Sessions: []SessionSummary{{Key: "chat-a", Title: "Sidebar chat"}}})
	if !strings.Contains(m.View(), "Chats") {
		t.Fatal("sidebar not rendered while shown")
	}

	m.Update(ctrlL)
	if m.Container().HasClass(ClassShowChatList) {
		t.Fatal("class still present after ctrl+l")
	}
	if strings.Contains(m.View(), "Chats") {
		t.Fatal("sidebar rendered while hidden")
	}
	if m.Input().Text() != "" {
		t.Fatal("ctrl+l reached the text area")
	}
}

func TestAppStartsHiddenFromOptions(t *testing.T) {
	m := newTestApp(t, Options{ShowChatList: false})
	if m.Container().ShowChatList() || m.sidebarShown() {
		t.Fatal("ShowChatList option ignored")
	}
	if m.mainWidth() != 100 {
		t.Fatalf("mainWidth = %d, want full width", m.mainWidth())
	}
}

func TestAppFocusCycle(t *testing.T) {
	m := newTestApp(t, Options{ShowChatList: true})
	if !m.Input().Focused() {
		t.Fatal("input should start focused")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.Input().Focused() || !m.chatList.Focused() {
		t.Fatal("tab should move focus to the chat list")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !m.Input().Focused() {
		t.Fatal("tab should wrap back to the input")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m.Update(cmd())
	if !m.chatList.Focused() {
		t.Fatal("escape should move focus to the chat list")
	}

	m.Update(ctrlL)
	if !m.Input().Focused() || m.chatList.Focused() {
		t.Fatal("hiding the list should return focus to the input")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !m.Input().Focused() {
		t.Fatal("hidden chat list must not take focus")
	}
}

func TestAppSessionSelection(t *testing.T) {
	m := newTestApp(t, Options{ShowChatList: true})
	m.Update(SessionsMsg{Sessions: []SessionSummary{{Key: "chat-a"}, {Key: "chat-b"}}})
	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on the chat list returned no command")
	}
	m.Update(cmd())

	in := <-m.InputCh
	if !in.Open || in.SessionKey != "chat-a" {
		t.Fatalf("forwarded %+v, want open chat-a", in)
	}
	if m.SessionKey() != "chat-a" || !m.Input().Focused() {
		t.Fatal("selection did not switch session and focus")
	}

	m.Update(TranscriptMsg{SessionKey: "chat-a", Messages: []ChatMsg{{Text: "hi", IsUser: true}, {Text: "hello"}}})
	if m.chatPanel.Len() != 2 {
		t.Fatalf("transcript len = %d, want 2", m.chatPanel.Len())
	}
}

func TestAppNewChat(t *testing.T) {
	m := newTestApp(t, Options{ShowChatList: true})
	m.Update(ChatMsg{Text: "old"})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.SessionKey() == "chat-test" || !strings.HasPrefix(m.SessionKey(), "chat-") {
		t.Fatalf("SessionKey = %q after new chat", m.SessionKey())
	}
	if m.chatPanel.Len() != 0 {
		t.Fatal("new chat kept the old transcript")
	}
}

func TestAppPendingIndicator(t *testing.T) {
	m := newTestApp(t, Options{ShowChatList: false})
	m.Update(ReplyPendingMsg{Pending: true})
	if !strings.Contains(m.View(), "thinking...") {
		t.Fatal("pending indicator missing")
	}
	m.Update(ReplyPendingMsg{Pending: false})
	if strings.Contains(m.View(), "thinking...") {
		t.Fatal("pending indicator still shown")
	}
}

func TestAppLogPanel(t *testing.T) {
	m := newTestApp(t, Options{ShowLogPanel: true})
	m.Update(LogLineMsg{Line: "level=INFO msg=started"})
	if got := m.logPanel.Lines(); len(got) != 1 {
		t.Fatalf("log lines = %v", got)
	}
}

func TestAppDropsRepliesForOtherChats(t *testing.T) {
	m := newTestApp(t, Options{ShowChatList: false})
	m.Update(ReplyPendingMsg{Pending: true})

	m.Update(ChatMsg{SessionKey: "chat-elsewhere", Text: "stale"})
	if m.chatPanel.Len() != 0 || !m.pending {
		t.Fatal("reply for another chat was shown")
	}

	m.Update(ChatMsg{SessionKey: "chat-test", Text: "fresh"})
	if m.chatPanel.Len() != 1 || m.pending {
		t.Fatalf("reply for the current chat: len=%d pending=%v", m.chatPanel.Len(), m.pending)
	}
}

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rivo/uniseg"

	"github.com/linanwx/nagochat/textbuf"
)

// Editor is the editing surface the chat input drives. *textbuf.Buffer is the
// production implementation.
type Editor interface {
	Text() string
	SetText(text string)
	InsertText(text string)
	Lines() []string
	Cursor() textbuf.Pos
	Selection() (textbuf.Range, bool)

	CursorUp(extend bool)
	CursorDown(extend bool)
	CursorLeft(extend bool)
	CursorRight(extend bool)
	CursorWordLeft(extend bool)
	CursorWordRight(extend bool)
	CursorLineStart(extend bool)
	CursorLineEnd(extend bool)
	CursorPageUp(rows int, extend bool)
	CursorPageDown(rows int, extend bool)
	SelectLine()
	SelectAll()

	DeleteLeft()
	DeleteRight()
	DeleteWordLeft()
	DeleteWordRight()
	DeleteLine()
	DeleteToLineStart()
	DeleteToLineEnd()
}

var _ Editor = (*textbuf.Buffer)(nil)

// ChatTextArea is a multi-line input. Enter inserts a newline; the submit
// chord posts a SubmittedMsg and leaves the text alone so the listener
// decides what to do with it.
type ChatTextArea struct {
	editor Editor
	keys   *KeyMap

	Placeholder string

	focused       bool
	width, height int
	offset        int // first visible row
}

// NewChatTextArea creates an empty chat input backed by a textbuf.Buffer.
func NewChatTextArea() *ChatTextArea {
	return NewChatTextAreaWithEditor(textbuf.New(""))
}

// NewChatTextAreaWithEditor creates a chat input over an existing editor.
func NewChatTextAreaWithEditor(ed Editor) *ChatTextArea {
	return &ChatTextArea{
		editor:      ed,
		keys:        textAreaKeys,
		Placeholder: "Write a message... (ctrl+r to send)",
	}
}

// Editor exposes the underlying editing surface.
func (t *ChatTextArea) Editor() Editor { return t.editor }

// KeyMap returns the binding table.
func (t *ChatTextArea) KeyMap() *KeyMap { return t.keys }

// Text returns the current draft.
func (t *ChatTextArea) Text() string { return t.editor.Text() }

// Reset clears the draft.
func (t *ChatTextArea) Reset() {
	t.editor.SetText("")
	t.offset = 0
}

func (t *ChatTextArea) Focus() tea.Cmd {
	t.focused = true
	return nil
}

func (t *ChatTextArea) Blur() { t.focused = false }

func (t *ChatTextArea) Focused() bool { return t.focused }

// Binds reports whether the text area handles msg, either through its
// binding table or as text input.
func (t *ChatTextArea) Binds(msg tea.KeyMsg) bool {
	if _, ok := t.keys.Lookup(msg); ok {
		return true
	}
	_, ok := insertableText(msg)
	return ok
}

func (t *ChatTextArea) Update(msg tea.Msg) (Panel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || !t.focused {
		return t, nil
	}
	if b, ok := t.keys.Lookup(km); ok {
		return t, t.Run(b)
	}
	if s, ok := insertableText(km); ok {
		t.editor.InsertText(s)
		t.syncScroll()
	}
	return t, nil
}

// Run performs the operation named by b.
func (t *ChatTextArea) Run(b Binding) tea.Cmd {
	ed, sel := t.editor, b.Select
	switch b.Action {
	case ActionFocusNext:
		return func() tea.Msg { return FocusNextMsg{} }
	case ActionSubmitText:
		return t.SubmitText()
	case ActionCursorUp:
		ed.CursorUp(sel)
	case ActionCursorDown:
		ed.CursorDown(sel)
	case ActionCursorLeft:
		ed.CursorLeft(sel)
	case ActionCursorRight:
		ed.CursorRight(sel)
	case ActionCursorWordLeft:
		ed.CursorWordLeft(sel)
	case ActionCursorWordRight:
		ed.CursorWordRight(sel)
	case ActionCursorLineStart:
		ed.CursorLineStart(sel)
	case ActionCursorLineEnd:
		ed.CursorLineEnd(sel)
	case ActionCursorPageUp:
		ed.CursorPageUp(t.visibleRows(), sel)
	case ActionCursorPageDown:
		ed.CursorPageDown(t.visibleRows(), sel)
	case ActionSelectLine:
		ed.SelectLine()
	case ActionSelectAll:
		ed.SelectAll()
	case ActionDeleteLeft:
		ed.DeleteLeft()
	case ActionDeleteRight:
		ed.DeleteRight()
	case ActionDeleteWordLeft:
		ed.DeleteWordLeft()
	case ActionDeleteWordRight:
		ed.DeleteWordRight()
	case ActionDeleteLine:
		ed.DeleteLine()
	case ActionDeleteToLineStart:
		ed.DeleteToLineStart()
	case ActionDeleteToLineEnd:
		ed.DeleteToLineEnd()
	default:
		return nil
	}
	t.syncScroll()
	return nil
}

// SubmitText posts a SubmittedMsg carrying this text area. The draft is not
// touched.
func (t *ChatTextArea) SubmitText() tea.Cmd {
	return func() tea.Msg { return SubmittedMsg{TextArea: t} }
}

func insertableText(msg tea.KeyMsg) (string, bool) {
	if msg.Alt {
		return "", false
	}
	switch msg.Type {
	case tea.KeyRunes:
		return string(msg.Runes), true
	case tea.KeySpace:
		return " ", true
	case tea.KeyEnter:
		return "\n", true
	}
	return "", false
}

func (t *ChatTextArea) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.syncScroll()
}

func (t *ChatTextArea) visibleRows() int {
	return max(t.height-inputFrameRows, 1)
}

// syncScroll keeps the cursor row inside the visible window.
func (t *ChatTextArea) syncScroll() {
	row := t.editor.Cursor().Row
	rows := t.visibleRows()
	if row < t.offset {
		t.offset = row
	}
	if row >= t.offset+rows {
		t.offset = row - rows + 1
	}
}

func (t *ChatTextArea) View() string {
	frame := inputStyle
	if t.focused {
		frame = inputFocusedStyle
	}
	if t.width > 0 {
		frame = frame.Width(max(t.width-inputFrameCols, 1))
	}

	lines := t.editor.Lines()
	if len(lines) == 1 && lines[0] == "" && !t.focused {
		return frame.Render(placeholderStyle.Render(t.Placeholder))
	}

	cur := t.editor.Cursor()
	sel, hasSel := t.editor.Selection()
	end := min(len(lines), t.offset+t.visibleRows())

	rendered := make([]string, 0, end-t.offset)
	for row := t.offset; row < end; row++ {
		rendered = append(rendered, t.renderLine(row, lines[row], cur, sel, hasSel))
	}
	return frame.Render(strings.Join(rendered, "\n"))
}

func (t *ChatTextArea) renderLine(row int, line string, cur textbuf.Pos, sel textbuf.Range, hasSel bool) string {
	var sb strings.Builder
	col := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		cluster := g.Str()
		p := textbuf.Pos{Row: row, Col: col}
		switch {
		case t.focused && p == cur:
			sb.WriteString(cursorStyle.Render(cluster))
		case hasSel && inRange(p, sel):
			sb.WriteString(selectionStyle.Render(cluster))
		default:
			sb.WriteString(cluster)
		}
		col++
	}
	if t.focused && cur.Row == row && cur.Col >= col {
		sb.WriteString(cursorStyle.Render(" "))
	}
	return sb.String()
}

func inRange(p textbuf.Pos, r textbuf.Range) bool {
	return textbuf.ComparePos(p, r.Start) >= 0 && textbuf.ComparePos(p, r.End) < 0
}

package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action names the operation a binding triggers.
type Action string

const (
	ActionFocusNext         Action = "screen.focus_next"
	ActionCursorUp          Action = "cursor_up"
	ActionCursorDown        Action = "cursor_down"
	ActionCursorLeft        Action = "cursor_left"
	ActionCursorRight       Action = "cursor_right"
	ActionCursorWordLeft    Action = "cursor_word_left"
	ActionCursorWordRight   Action = "cursor_word_right"
	ActionCursorLineStart   Action = "cursor_line_start"
	ActionCursorLineEnd     Action = "cursor_line_end"
	ActionCursorPageUp      Action = "cursor_page_up"
	ActionCursorPageDown    Action = "cursor_page_down"
	ActionSelectLine        Action = "select_line"
	ActionSelectAll         Action = "select_all"
	ActionDeleteLeft        Action = "delete_left"
	ActionDeleteWordLeft    Action = "delete_word_left"
	ActionDeleteRight       Action = "delete_right"
	ActionDeleteWordRight   Action = "delete_word_right"
	ActionDeleteLine        Action = "delete_line"
	ActionDeleteToLineStart Action = "delete_to_start_of_line"
	ActionDeleteToLineEnd   Action = "delete_to_end_of_line"
	ActionSubmitText        Action = "submit_text"
	ActionToggleChatList    Action = "toggle_chat_list"
)

// ErrDuplicateChord is returned when two bindings in one table share a chord.
var ErrDuplicateChord = errors.New("duplicate chord")

// Binding ties one or more chords to an action.
type Binding struct {
	Keys        []string
	Action      Action
	Select      bool // extend the selection while moving
	Description string
	Show        bool // list in the help bar
}

// Operation renders the action with its argument, e.g. "cursor_up(select)".
func (b Binding) Operation() string {
	if b.Select {
		return string(b.Action) + "(select)"
	}
	return string(b.Action)
}

// HelpBinding converts b for bubbles/help rendering.
func (b Binding) HelpBinding() key.Binding {
	keys := make([]string, len(b.Keys))
	for i, k := range b.Keys {
		keys[i] = teaKeyName(k)
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(b.Keys, "/"), b.Description),
	)
}

// KeyMap is an ordered binding table with chord lookup.
type KeyMap struct {
	bindings []Binding
	index    map[string]int
}

// NewKeyMap indexes bindings by chord. Chords must be unique.
func NewKeyMap(bindings []Binding) (*KeyMap, error) {
	m := &KeyMap{
		bindings: slices.Clone(bindings),
		index:    make(map[string]int, len(bindings)),
	}
	for i, b := range m.bindings {
		for _, k := range b.Keys {
			chord := NormalizeChord(k)
			if prev, ok := m.index[chord]; ok {
				return nil, fmt.Errorf("%w %q: %s and %s", ErrDuplicateChord, chord,
					m.bindings[prev].Operation(), b.Operation())
			}
			m.index[chord] = i
		}
	}
	return m, nil
}

func mustKeyMap(bindings []Binding) *KeyMap {
	m, err := NewKeyMap(bindings)
	if err != nil {
		panic(err)
	}
	return m
}

// Lookup finds the binding for a key press.
func (m *KeyMap) Lookup(msg tea.KeyMsg) (Binding, bool) {
	return m.LookupChord(msg.String())
}

// LookupChord finds the binding for a chord string such as "ctrl+r".
func (m *KeyMap) LookupChord(chord string) (Binding, bool) {
	i, ok := m.index[NormalizeChord(chord)]
	if !ok {
		return Binding{}, false
	}
	return m.bindings[i], true
}

// Bindings returns the table in declaration order.
func (m *KeyMap) Bindings() []Binding {
	return slices.Clone(m.bindings)
}

// ShortHelp implements help.KeyMap with the bindings marked Show.
func (m *KeyMap) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, b := range m.bindings {
		if b.Show {
			out = append(out, b.HelpBinding())
		}
	}
	return out
}

// FullHelp implements help.KeyMap.
func (m *KeyMap) FullHelp() [][]key.Binding {
	all := make([]key.Binding, 0, len(m.bindings))
	for _, b := range m.bindings {
		all = append(all, b.HelpBinding())
	}
	return [][]key.Binding{all}
}

// Bubble Tea names a few keys differently from the chord vocabulary used in
// the binding tables.
var chordAliases = map[string]string{
	"esc":    "escape",
	"pgup":   "pageup",
	"pgdown": "pagedown",
	"del":    "delete",
}

// NormalizeChord lowercases a chord and maps framework key names onto the
// table vocabulary ("esc" -> "escape", "pgup" -> "pageup").
func NormalizeChord(chord string) string {
	chord = strings.TrimSpace(chord)
	if len(chord) > 1 {
		chord = strings.ToLower(chord)
	}
	if alias, ok := chordAliases[chord]; ok {
		return alias
	}
	return chord
}

func teaKeyName(chord string) string {
	chord = NormalizeChord(chord)
	for teaName, alias := range chordAliases {
		if alias == chord && teaName != "del" {
			return teaName
		}
	}
	return chord
}

// TextAreaBindings is the chat input's binding table.
var TextAreaBindings = []Binding{
	{Keys: []string{"escape"}, Action: ActionFocusNext, Description: "Shift Focus"},
	// Cursor movement
	{Keys: []string{"up"}, Action: ActionCursorUp, Description: "cursor up"},
	{Keys: []string{"down"}, Action: ActionCursorDown, Description: "cursor down"},
	{Keys: []string{"left"}, Action: ActionCursorLeft, Description: "cursor left"},
	{Keys: []string{"right"}, Action: ActionCursorRight, Description: "cursor right"},
	{Keys: []string{"ctrl+left"}, Action: ActionCursorWordLeft, Description: "cursor word left"},
	{Keys: []string{"ctrl+right"}, Action: ActionCursorWordRight, Description: "cursor word right"},
	{Keys: []string{"home", "ctrl+a"}, Action: ActionCursorLineStart, Description: "cursor line start"},
	{Keys: []string{"end", "ctrl+e"}, Action: ActionCursorLineEnd, Description: "cursor line end"},
	{Keys: []string{"pageup"}, Action: ActionCursorPageUp, Description: "cursor page up"},
	{Keys: []string{"pagedown"}, Action: ActionCursorPageDown, Description: "cursor page down"},
	// Selection
	{Keys: []string{"ctrl+shift+left"}, Action: ActionCursorWordLeft, Select: true, Description: "cursor left word select"},
	{Keys: []string{"ctrl+shift+right"}, Action: ActionCursorWordRight, Select: true, Description: "cursor right word select"},
	{Keys: []string{"shift+home"}, Action: ActionCursorLineStart, Select: true, Description: "cursor line start select"},
	{Keys: []string{"shift+end"}, Action: ActionCursorLineEnd, Select: true, Description: "cursor line end select"},
	{Keys: []string{"shift+up"}, Action: ActionCursorUp, Select: true, Description: "cursor up select"},
	{Keys: []string{"shift+down"}, Action: ActionCursorDown, Select: true, Description: "cursor down select"},
	{Keys: []string{"shift+left"}, Action: ActionCursorLeft, Select: true, Description: "cursor left select"},
	{Keys: []string{"shift+right"}, Action: ActionCursorRight, Select: true, Description: "cursor right select"},
	{Keys: []string{"f6"}, Action: ActionSelectLine, Description: "select line"},
	{Keys: []string{"f7"}, Action: ActionSelectAll, Description: "select all"},
	// Deletion
	{Keys: []string{"backspace"}, Action: ActionDeleteLeft, Description: "delete left"},
	{Keys: []string{"ctrl+w"}, Action: ActionDeleteWordLeft, Description: "delete left to start of word"},
	{Keys: []string{"delete", "ctrl+d"}, Action: ActionDeleteRight, Description: "delete right"},
	{Keys: []string{"ctrl+f"}, Action: ActionDeleteWordRight, Description: "delete right to start of word"},
	{Keys: []string{"ctrl+x"}, Action: ActionDeleteLine, Description: "delete line"},
	{Keys: []string{"ctrl+u"}, Action: ActionDeleteToLineStart, Description: "delete to line start"},
	{Keys: []string{"ctrl+k"}, Action: ActionDeleteToLineEnd, Description: "delete to line end"},
	{Keys: []string{"ctrl+r"}, Action: ActionSubmitText, Description: "Submit Text", Show: true},
}

// ListContainerBindings is the chat list container's binding table.
var ListContainerBindings = []Binding{
	{Keys: []string{"ctrl+l"}, Action: ActionToggleChatList, Description: "Toggle Chat List", Show: true},
}

var (
	textAreaKeys      = mustKeyMap(TextAreaBindings)
	listContainerKeys = mustKeyMap(ListContainerBindings)
)

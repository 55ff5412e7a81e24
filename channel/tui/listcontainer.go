package tui

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"
)

// ClassShowChatList is present on a ListContainer while its list is shown.
const ClassShowChatList = "-show-chat-list"

// ListContainer wraps the chat list and carries its visibility as a
// presentation class. It never adds, removes or resizes its content; the
// layout reacts to the class.
type ListContainer struct {
	content Panel
	keys    *KeyMap

	showChatList bool
	classes      []string
}

// NewListContainer wraps content. The list starts visible.
func NewListContainer(content Panel) *ListContainer {
	c := &ListContainer{
		content: content,
		keys:    listContainerKeys,
	}
	c.SetShowChatList(true)
	return c
}

// Content returns the wrapped panel.
func (c *ListContainer) Content() Panel { return c.content }

// KeyMap returns the binding table.
func (c *ListContainer) KeyMap() *KeyMap { return c.keys }

// ShowChatList reports the visibility flag.
func (c *ListContainer) ShowChatList() bool { return c.showChatList }

// SetShowChatList assigns the flag and updates the class.
func (c *ListContainer) SetShowChatList(show bool) {
	c.showChatList = show
	c.watchShowChatList(show)
}

func (c *ListContainer) watchShowChatList(show bool) {
	c.SetClass(show, ClassShowChatList)
}

// ToggleChatList inverts the visibility flag.
func (c *ListContainer) ToggleChatList() {
	c.SetShowChatList(!c.showChatList)
}

// SetClass adds name when add is true and removes it otherwise.
func (c *ListContainer) SetClass(add bool, name string) {
	has := slices.Contains(c.classes, name)
	switch {
	case add && !has:
		c.classes = append(c.classes, name)
	case !add && has:
		c.classes = slices.DeleteFunc(c.classes, func(s string) bool { return s == name })
	}
}

// HasClass reports whether name is applied.
func (c *ListContainer) HasClass(name string) bool {
	return slices.Contains(c.classes, name)
}

// Classes returns the applied classes.
func (c *ListContainer) Classes() []string {
	return slices.Clone(c.classes)
}

// Binds reports whether msg is one of the container's chords.
func (c *ListContainer) Binds(msg tea.KeyMsg) bool {
	_, ok := c.keys.Lookup(msg)
	return ok
}

func (c *ListContainer) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		if b, ok := c.keys.Lookup(km); ok {
			if b.Action == ActionToggleChatList {
				c.ToggleChatList()
			}
			return c, nil
		}
	}
	var cmd tea.Cmd
	c.content, cmd = c.content.Update(msg)
	return c, cmd
}

func (c *ListContainer) View() string {
	return c.content.View()
}

func (c *ListContainer) SetSize(width, height int) {
	c.content.SetSize(width, height)
}

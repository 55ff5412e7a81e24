package tui

import "github.com/charmbracelet/lipgloss"

const (
	inputFrameRows = 2 // top and bottom border
	inputFrameCols = 2 // left and right border; lipgloss widths exclude borders
)

var (
	separatorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userMsgStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // cyan
	logLineStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // dim gray
	logWarnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	logErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	cursorStyle      = lipgloss.NewStyle().Reverse(true)
	selectionStyle   = lipgloss.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15"))
	listTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	inputFocusedStyle = inputStyle.BorderForeground(lipgloss.Color("6"))

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("8"))
	sidebarFocusedStyle = sidebarStyle.BorderForeground(lipgloss.Color("6"))
)

// classRule is how the layout responds to a presentation class.
type classRule struct {
	class   string
	display bool
}

// sidebarRules decide whether the chat list column is laid out at all.
// A container without any matching class is hidden.
var sidebarRules = []classRule{
	{class: ClassShowChatList, display: true},
}

type classed interface {
	HasClass(name string) bool
}

func displayed(c classed, rules []classRule) bool {
	for _, r := range rules {
		if c.HasClass(r.class) {
			return r.display
		}
	}
	return false
}

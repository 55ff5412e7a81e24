package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/linanwx/nagochat/channel/tui"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the chat key bindings",
	Long: `List every chord the chat interface understands, grouped by the widget
that handles it. The listing is generated from the binding tables.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return renderKeys(cmd.OutOrStdout(), keysPlain)
	},
}

var keysPlain bool

func init() {
	keysCmd.Flags().BoolVar(&keysPlain, "plain", false, "Print tab-separated rows without borders")
	rootCmd.AddCommand(keysCmd)
}

type keyGroup struct {
	title    string
	bindings []tui.Binding
}

func keyGroups() []keyGroup {
	return []keyGroup{
		{"Chat input", tui.TextAreaBindings},
		{"Chat list", tui.ListContainerBindings},
		{"Application", tui.AppBindings},
	}
}

var keysTitleStyle = lipgloss.NewStyle().Bold(true)

func renderKeys(w io.Writer, plain bool) error {
	for i, g := range keyGroups() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		rows := make([][]string, 0, len(g.bindings))
		for _, b := range g.bindings {
			rows = append(rows, []string{strings.Join(b.Keys, ", "), b.Operation(), b.Description})
		}

		if plain {
			fmt.Fprintf(w, "# %s\n", g.title)
			for _, r := range rows {
				fmt.Fprintln(w, strings.Join(r, "\t"))
			}
			continue
		}

		tbl := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("Keys", "Operation", "Description").
			Rows(rows...)
		fmt.Fprintln(w, keysTitleStyle.Render(g.title))
		fmt.Fprintln(w, tbl.Render())
	}
	return nil
}

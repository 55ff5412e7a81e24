package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/linanwx/nagochat/channel/tui"
)

func TestRenderKeysPlainListsEveryBinding(t *testing.T) {
	var buf bytes.Buffer
	if err := renderKeys(&buf, true); err != nil {
		t.Fatalf("renderKeys() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Chat input",
		"ctrl+r\tsubmit_text\tSubmit Text",
		"shift+left\tcursor_left(select)\tcursor left select",
		"home, ctrl+a\tcursor_line_start\tcursor line start",
		"# Chat list",
		"ctrl+l\ttoggle_chat_list\tToggle Chat List",
		"# Application",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("renderKeys() missing %q in\n%s", want, out)
		}
	}

	rows := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.Count(line, "\t") == 2 {
			rows++
		}
	}
	want := len(tui.TextAreaBindings) + len(tui.ListContainerBindings) + len(tui.AppBindings)
	if rows != want {
		t.Fatalf("renderKeys() rows = %d, want %d", rows, want)
	}
}

func TestRenderKeysTable(t *testing.T) {
	var buf bytes.Buffer
	if err := renderKeys(&buf, false); err != nil {
		t.Fatalf("renderKeys() error = %v", err)
	}
	out := ansi.Strip(buf.String())
	for _, want := range []string{"Keys", "Operation", "Description", "Submit Text", "Toggle Chat List"} {
		if !strings.Contains(out, want) {
			t.Fatalf("renderKeys() missing %q", want)
		}
	}
	if strings.Contains(out, "\t") {
		t.Fatal("table output should not contain tabs")
	}
}

package tui

import (
	"fmt"
	"testing"
)

func TestLogPanelKeepsNewestLines(t *testing.T) {
	p := NewLogPanel()
	p.SetSize(40, 5)
	for i := 0; i < defaultMaxLogLines+10; i++ {
		p.Update(LogLineMsg{Line: fmt.Sprintf("level=INFO msg=line-%d\n", i)})
	}
	lines := p.Lines()
	if len(lines) != defaultMaxLogLines {
		t.Fatalf("Lines() len = %d, want %d", len(lines), defaultMaxLogLines)
	}
	if lines[0] != "level=INFO msg=line-10" {
		t.Fatalf("oldest line = %q, want line-10", lines[0])
	}
	if len(p.styled) != len(p.lines) {
		t.Fatalf("styled len = %d, lines len = %d", len(p.styled), len(p.lines))
	}
}

func TestLevelStyle(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{`time=now level=ERROR msg="turn failed"`, "error"},
		{`{"time":"now","level":"ERROR","msg":"x"}`, "error"},
		{`time=now level=WARN msg=slow`, "warn"},
		{`{"level":"WARN"}`, "warn"},
		{`time=now level=INFO msg=ok`, "plain"},
		{`time=now level=DEBUG msg=ok`, "plain"},
	}
	names := map[string]string{
		fmt.Sprint(logErrorStyle.GetForeground()): "error",
		fmt.Sprint(logWarnStyle.GetForeground()):  "warn",
		fmt.Sprint(logLineStyle.GetForeground()):  "plain",
	}
	for _, tt := range tests {
		got := names[fmt.Sprint(levelStyle(tt.line).GetForeground())]
		if got != tt.want {
			t.Fatalf("levelStyle(%q) = %s, want %s", tt.line, got, tt.want)
		}
	}
}

package textbuf

import "testing"

func TestHorizontalMovesWrapLines(t *testing.T) {
	t.Parallel()

	b := New("ab\ncd")
	b.SetCursor(Pos{Row: 1, Col: 0})
	b.CursorLeft(false)
	if got := b.Cursor(); got != (Pos{Row: 0, Col: 2}) {
		t.Fatalf("CursorLeft at col 0 = %+v, want {0 2}", got)
	}
	b.CursorRight(false)
	if got := b.Cursor(); got != (Pos{Row: 1, Col: 0}) {
		t.Fatalf("CursorRight at line end = %+v, want {1 0}", got)
	}

	b.SetCursor(Pos{})
	b.CursorLeft(false)
	if got := b.Cursor(); got != (Pos{}) {
		t.Fatalf("CursorLeft at origin = %+v, want {0 0}", got)
	}
}

func TestVerticalMovesRememberColumn(t *testing.T) {
	t.Parallel()

	b := New("long line\nab\nanother long")
	b.SetCursor(Pos{Row: 0, Col: 7})
	b.CursorDown(false)
	if got := b.Cursor(); got != (Pos{Row: 1, Col: 2}) {
		t.Fatalf("CursorDown = %+v, want {1 2}", got)
	}
	b.CursorDown(false)
	if got := b.Cursor(); got != (Pos{Row: 2, Col: 7}) {
		t.Fatalf("second CursorDown = %+v, want {2 7}", got)
	}
	b.CursorLeft(false)
	b.CursorUp(false)
	if got := b.Cursor(); got != (Pos{Row: 1, Col: 2}) {
		t.Fatalf("CursorUp after horizontal move = %+v, want {1 2}", got)
	}
}

func TestPageMovesClamp(t *testing.T) {
	t.Parallel()

	b := New("1\n2\n3\n4\n5")
	b.SetCursor(Pos{Row: 4, Col: 1})
	b.CursorPageUp(3, false)
	if got := b.Cursor().Row; got != 1 {
		t.Fatalf("CursorPageUp(3) row = %d, want 1", got)
	}
	b.CursorPageUp(3, false)
	if got := b.Cursor().Row; got != 0 {
		t.Fatalf("CursorPageUp past top row = %d, want 0", got)
	}
	b.CursorPageDown(0, false)
	if got := b.Cursor().Row; got != 1 {
		t.Fatalf("CursorPageDown(0) row = %d, want 1", got)
	}
}

func TestWordMoves(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		start Pos
		left  bool
		want  Pos
	}{
		{name: "left from word end", start: Pos{Row: 0, Col: 11}, left: true, want: Pos{Row: 0, Col: 6}},
		{name: "left skips spaces", start: Pos{Row: 0, Col: 6}, left: true, want: Pos{Row: 0, Col: 0}},
		{name: "left at col 0 wraps", start: Pos{Row: 1, Col: 0}, left: true, want: Pos{Row: 0, Col: 11}},
		{name: "right from start", start: Pos{Row: 0, Col: 0}, want: Pos{Row: 0, Col: 5}},
		{name: "right skips spaces", start: Pos{Row: 0, Col: 5}, want: Pos{Row: 0, Col: 11}},
		{name: "right at line end wraps", start: Pos{Row: 0, Col: 11}, want: Pos{Row: 1, Col: 0}},
		{name: "right at doc end stays", start: Pos{Row: 1, Col: 3}, want: Pos{Row: 1, Col: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("hello world\nfoo")
			b.SetCursor(tt.start)
			if tt.left {
				b.CursorWordLeft(false)
			} else {
				b.CursorWordRight(false)
			}
			if got := b.Cursor(); got != tt.want {
				t.Fatalf("cursor = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtendingMovesBuildSelection(t *testing.T) {
	t.Parallel()

	b := New("hello world")
	b.SetCursor(Pos{Row: 0, Col: 5})
	b.CursorLineStart(true)
	r, ok := b.Selection()
	if !ok {
		t.Fatal("expected a selection after shift+home")
	}
	if r != (Range{Start: Pos{}, End: Pos{Row: 0, Col: 5}}) {
		t.Fatalf("Selection() = %+v", r)
	}

	b.CursorLineEnd(true)
	if got := b.SelectedText(); got != " world" {
		t.Fatalf("SelectedText() after shift+end = %q, want %q", got, " world")
	}

	b.CursorRight(false)
	if _, ok := b.Selection(); ok {
		t.Fatal("plain move should clear the selection")
	}
}

func TestSelectLineAndAll(t *testing.T) {
	t.Parallel()

	b := New("one\ntwo\nthree")
	b.SetCursor(Pos{Row: 1, Col: 1})
	b.SelectLine()
	if got := b.SelectedText(); got != "two" {
		t.Fatalf("SelectLine() text = %q, want %q", got, "two")
	}
	b.SelectAll()
	if got := b.SelectedText(); got != "one\ntwo\nthree" {
		t.Fatalf("SelectAll() text = %q", got)
	}
}

func TestSelectLineOnEmptyLineSelectsNothing(t *testing.T) {
	t.Parallel()

	b := New("a\n\nb")
	b.SetCursor(Pos{Row: 1})
	b.SelectLine()
	if _, ok := b.Selection(); ok {
		t.Fatal("empty line should not produce a selection")
	}
}

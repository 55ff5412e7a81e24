package textbuf

import "testing"

func TestNewPlacesCursorAtEnd(t *testing.T) {
	t.Parallel()

	b := New("hello\nworld")
	if got := b.LineCount(); got != 2 {
		t.Fatalf("LineCount() = %d, want 2", got)
	}
	if got := b.Cursor(); got != (Pos{Row: 1, Col: 5}) {
		t.Fatalf("Cursor() = %+v, want {1 5}", got)
	}
	if got := b.Text(); got != "hello\nworld" {
		t.Fatalf("Text() = %q", got)
	}
}

func TestEmptyBuffer(t *testing.T) {
	t.Parallel()

	b := New("")
	if !b.IsEmpty() {
		t.Fatal("new empty buffer should report IsEmpty")
	}
	if got := b.Lines(); len(got) != 1 || got[0] != "" {
		t.Fatalf("Lines() = %q, want one empty line", got)
	}
}

func TestGraphemeClustersCountAsOneColumn(t *testing.T) {
	t.Parallel()

	// "e" + combining acute, then a flag made of two regional indicators.
	b := New("e\u0301\U0001F1EF\U0001F1F5x")
	if got := b.LineLen(0); got != 3 {
		t.Fatalf("LineLen(0) = %d, want 3", got)
	}
	b.DeleteLeft()
	b.DeleteLeft()
	if got := b.Text(); got != "e\u0301" {
		t.Fatalf("Text() = %q, want %q", got, "e\u0301")
	}
}

func TestInsertCombiningMarkJoinsCluster(t *testing.T) {
	t.Parallel()

	b := New("e")
	b.InsertText("\u0301")
	if got := b.LineLen(0); got != 1 {
		t.Fatalf("LineLen(0) = %d, want 1", got)
	}
	if got := b.Cursor(); got != (Pos{Row: 0, Col: 1}) {
		t.Fatalf("Cursor() = %+v, want {0 1}", got)
	}
}

func TestSelectedText(t *testing.T) {
	t.Parallel()

	b := New("alpha\nbeta\ngamma")
	b.SetCursor(Pos{Row: 0, Col: 2})
	b.CursorDown(true)
	b.CursorDown(true)
	if got := b.SelectedText(); got != "pha\nbeta\nga" {
		t.Fatalf("SelectedText() = %q", got)
	}
}

func TestSetTextResetsSelection(t *testing.T) {
	t.Parallel()

	b := New("abc")
	b.SelectAll()
	b.SetText("xy\nz")
	if _, ok := b.Selection(); ok {
		t.Fatal("SetText should clear the selection")
	}
	if got := b.Cursor(); got != (Pos{Row: 1, Col: 1}) {
		t.Fatalf("Cursor() = %+v, want {1 1}", got)
	}
}

func TestVersionOnlyMovesOnChange(t *testing.T) {
	t.Parallel()

	b := New("abc")
	v := b.Version()
	b.CursorRight(false) // already at end
	b.DeleteRight()
	b.CursorDown(false)
	if b.Version() != v {
		t.Fatalf("Version() = %d, want unchanged %d", b.Version(), v)
	}
	b.CursorLeft(false)
	if b.Version() == v {
		t.Fatal("Version() should advance after a cursor move")
	}
}

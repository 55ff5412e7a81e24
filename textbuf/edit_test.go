package textbuf

import "testing"

func TestInsertTextMultiline(t *testing.T) {
	t.Parallel()

	b := New("ad")
	b.SetCursor(Pos{Row: 0, Col: 1})
	b.InsertText("b\nc")
	if got := b.Text(); got != "ab\ncd" {
		t.Fatalf("Text() = %q, want %q", got, "ab\ncd")
	}
	if got := b.Cursor(); got != (Pos{Row: 1, Col: 1}) {
		t.Fatalf("Cursor() = %+v, want {1 1}", got)
	}
}

func TestInsertTextReplacesSelection(t *testing.T) {
	t.Parallel()

	b := New("hello world")
	b.SetCursor(Pos{Row: 0, Col: 6})
	b.CursorLineEnd(true)
	b.InsertText("there")
	if got := b.Text(); got != "hello there" {
		t.Fatalf("Text() = %q, want %q", got, "hello there")
	}
}

func TestDeleteOperations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		cursor Pos
		op     func(*Buffer)
		want   string
		cur    Pos
	}{
		{"left mid line", "abc", Pos{0, 2}, (*Buffer).DeleteLeft, "ac", Pos{0, 1}},
		{"left joins lines", "ab\ncd", Pos{1, 0}, (*Buffer).DeleteLeft, "abcd", Pos{0, 2}},
		{"left at origin", "ab", Pos{0, 0}, (*Buffer).DeleteLeft, "ab", Pos{0, 0}},
		{"right mid line", "abc", Pos{0, 1}, (*Buffer).DeleteRight, "ac", Pos{0, 1}},
		{"right joins lines", "ab\ncd", Pos{0, 2}, (*Buffer).DeleteRight, "abcd", Pos{0, 2}},
		{"right at end", "ab", Pos{0, 2}, (*Buffer).DeleteRight, "ab", Pos{0, 2}},
		{"word left", "foo bar", Pos{0, 7}, (*Buffer).DeleteWordLeft, "foo ", Pos{0, 4}},
		{"word left over space", "foo bar", Pos{0, 4}, (*Buffer).DeleteWordLeft, "bar", Pos{0, 0}},
		{"word left at col 0 joins", "foo\nbar", Pos{1, 0}, (*Buffer).DeleteWordLeft, "foobar", Pos{0, 3}},
		{"word right", "foo bar", Pos{0, 0}, (*Buffer).DeleteWordRight, " bar", Pos{0, 0}},
		{"word right over space", "foo bar", Pos{0, 3}, (*Buffer).DeleteWordRight, "foo", Pos{0, 3}},
		{"to line start", "foo bar", Pos{0, 4}, (*Buffer).DeleteToLineStart, "bar", Pos{0, 0}},
		{"to line start at col 0", "foo", Pos{0, 0}, (*Buffer).DeleteToLineStart, "foo", Pos{0, 0}},
		{"to line end", "foo bar", Pos{0, 3}, (*Buffer).DeleteToLineEnd, "foo", Pos{0, 3}},
		{"to line end second line", "a\nbcd\ne", Pos{1, 1}, (*Buffer).DeleteToLineEnd, "a\nb\ne", Pos{1, 1}},
		{"line middle", "a\nbb\nc", Pos{1, 1}, (*Buffer).DeleteLine, "a\nc", Pos{1, 1}},
		{"line last", "a\nbb", Pos{1, 2}, (*Buffer).DeleteLine, "a", Pos{0, 1}},
		{"line only", "abc", Pos{0, 1}, (*Buffer).DeleteLine, "", Pos{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(tt.text)
			b.SetCursor(tt.cursor)
			tt.op(b)
			if got := b.Text(); got != tt.want {
				t.Fatalf("Text() = %q, want %q", got, tt.want)
			}
			if got := b.Cursor(); got != tt.cur {
				t.Fatalf("Cursor() = %+v, want %+v", got, tt.cur)
			}
		})
	}
}

func TestDeletesRemoveSelectionFirst(t *testing.T) {
	t.Parallel()

	ops := map[string]func(*Buffer){
		"DeleteLeft":        (*Buffer).DeleteLeft,
		"DeleteRight":       (*Buffer).DeleteRight,
		"DeleteWordLeft":    (*Buffer).DeleteWordLeft,
		"DeleteWordRight":   (*Buffer).DeleteWordRight,
		"DeleteToLineStart": (*Buffer).DeleteToLineStart,
		"DeleteToLineEnd":   (*Buffer).DeleteToLineEnd,
	}
	for name, op := range ops {
		b := New("one two three")
		b.SetCursor(Pos{Row: 0, Col: 4})
		b.CursorWordRight(true)
		op(b)
		if got := b.Text(); got != "one  three" {
			t.Fatalf("%s with selection: Text() = %q, want %q", name, got, "one  three")
		}
	}
}

func TestDeleteLineWithSelectionSpansRows(t *testing.T) {
	t.Parallel()

	b := New("a\nb\nc\nd")
	b.SetCursor(Pos{Row: 1})
	b.CursorDown(true)
	b.DeleteLine()
	if got := b.Text(); got != "a\nd" {
		t.Fatalf("Text() = %q, want %q", got, "a\nd")
	}
}

func TestDeleteLineOnEmptyDocIsNoop(t *testing.T) {
	t.Parallel()

	b := New("")
	v := b.Version()
	b.DeleteLine()
	if b.Version() != v {
		t.Fatal("DeleteLine on empty document should not change the buffer")
	}
}

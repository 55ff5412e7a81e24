package textbuf

import "strings"

// Buffer is the document state: text, cursor and selection.
type Buffer struct {
	lines [][]string

	cursor    Pos
	anchor    Pos
	selecting bool

	// wantCol is the column vertical moves try to return to; -1 when unset.
	wantCol int

	version uint64
}

// New returns a buffer holding text with the cursor at the end.
func New(text string) *Buffer {
	b := &Buffer{wantCol: -1}
	b.lines = splitLines(text)
	b.cursor = b.endPos()
	return b
}

// Text returns the document joined with '\n'.
func (b *Buffer) Text() string {
	var sb strings.Builder
	for i, line := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, g := range line {
			sb.WriteString(g)
		}
	}
	return sb.String()
}

// Lines returns a copy of every line as a string.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	for i, line := range b.lines {
		out[i] = strings.Join(line, "")
	}
	return out
}

// LineCount is always at least 1.
func (b *Buffer) LineCount() int { return len(b.lines) }

// LineLen returns the number of grapheme clusters on row.
func (b *Buffer) LineLen(row int) int {
	if row < 0 || row >= len(b.lines) {
		return 0
	}
	return len(b.lines[row])
}

// Version increases on every observable change to text, cursor or selection.
func (b *Buffer) Version() uint64 { return b.version }

// IsEmpty reports whether the document has no text.
func (b *Buffer) IsEmpty() bool {
	return len(b.lines) == 1 && len(b.lines[0]) == 0
}

// SetText replaces the whole document and parks the cursor at the end.
func (b *Buffer) SetText(text string) {
	b.lines = splitLines(text)
	b.cursor = b.endPos()
	b.selecting = false
	b.wantCol = -1
	b.version++
}

// Cursor returns the cursor position.
func (b *Buffer) Cursor() Pos { return b.cursor }

// SetCursor moves the cursor to p (clamped) and clears the selection.
func (b *Buffer) SetCursor(p Pos) {
	b.moveTo(p, false, false)
}

// Selection returns the normalized selection, if one is active and non-empty.
func (b *Buffer) Selection() (Range, bool) {
	if !b.selecting {
		return Range{}, false
	}
	r := NormalizeRange(Range{Start: b.anchor, End: b.cursor})
	if r.IsEmpty() {
		return Range{}, false
	}
	return r, true
}

// SelectedText returns the text covered by the selection, or "".
func (b *Buffer) SelectedText() string {
	r, ok := b.Selection()
	if !ok {
		return ""
	}
	return b.textInRange(r)
}

func (b *Buffer) textInRange(r Range) string {
	var sb strings.Builder
	for row := r.Start.Row; row <= r.End.Row; row++ {
		line := b.lines[row]
		from, to := 0, len(line)
		if row == r.Start.Row {
			from = r.Start.Col
		}
		if row == r.End.Row {
			to = r.End.Col
		}
		if row > r.Start.Row {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.Join(line[from:to], ""))
	}
	return sb.String()
}

func (b *Buffer) endPos() Pos {
	last := len(b.lines) - 1
	return Pos{Row: last, Col: len(b.lines[last])}
}

func (b *Buffer) clamp(p Pos) Pos {
	last := len(b.lines) - 1
	p.Row = clampInt(p.Row, 0, last)
	p.Col = clampInt(p.Col, 0, len(b.lines[p.Row]))
	return p
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package textbuf

import "strings"

// InsertText inserts text at the cursor, replacing the selection if any.
func (b *Buffer) InsertText(text string) {
	r, ok := b.Selection()
	if !ok {
		if text == "" {
			return
		}
		r = Range{Start: b.cursor, End: b.cursor}
	}
	b.replace(r, text)
}

// DeleteLeft is backspace: it removes the selection or the cluster before the
// cursor, joining with the previous line at column 0.
func (b *Buffer) DeleteLeft() {
	if b.deleteSelection() {
		return
	}
	end := b.cursor
	start := end
	switch {
	case end.Col > 0:
		start.Col--
	case end.Row > 0:
		start = Pos{Row: end.Row - 1, Col: len(b.lines[end.Row-1])}
	default:
		return
	}
	b.replace(Range{Start: start, End: end}, "")
}

// DeleteRight is the delete key: it removes the selection or the cluster under
// the cursor, joining with the next line at line end.
func (b *Buffer) DeleteRight() {
	if b.deleteSelection() {
		return
	}
	start := b.cursor
	end := start
	switch {
	case start.Col < len(b.lines[start.Row]):
		end.Col++
	case start.Row < len(b.lines)-1:
		end = Pos{Row: start.Row + 1}
	default:
		return
	}
	b.replace(Range{Start: start, End: end}, "")
}

// DeleteWordLeft removes from the cursor back to the start of the word.
func (b *Buffer) DeleteWordLeft() {
	if b.deleteSelection() {
		return
	}
	b.deleteSpan(b.wordLeftOf(b.cursor), b.cursor)
}

// DeleteWordRight removes from the cursor forward to the end of the word.
func (b *Buffer) DeleteWordRight() {
	if b.deleteSelection() {
		return
	}
	b.deleteSpan(b.cursor, b.wordRightOf(b.cursor))
}

// DeleteToLineStart removes from column 0 to the cursor.
func (b *Buffer) DeleteToLineStart() {
	if b.deleteSelection() {
		return
	}
	b.deleteSpan(Pos{Row: b.cursor.Row}, b.cursor)
}

// DeleteToLineEnd removes from the cursor to the end of the line.
func (b *Buffer) DeleteToLineEnd() {
	if b.deleteSelection() {
		return
	}
	b.deleteSpan(b.cursor, Pos{Row: b.cursor.Row, Col: len(b.lines[b.cursor.Row])})
}

// DeleteLine removes every line touched by the cursor or selection. The last
// remaining line is emptied rather than removed.
func (b *Buffer) DeleteLine() {
	first, last := b.cursor.Row, b.cursor.Row
	if r, ok := b.Selection(); ok {
		first, last = r.Start.Row, r.End.Row
	}
	col := b.cursor.Col

	if first == 0 && last == len(b.lines)-1 {
		if b.IsEmpty() {
			return
		}
		b.lines = [][]string{{}}
		b.cursor = Pos{}
		b.selecting = false
		b.wantCol = -1
		b.version++
		return
	}

	next := make([][]string, 0, len(b.lines)-(last-first+1))
	next = append(next, b.lines[:first]...)
	next = append(next, b.lines[last+1:]...)
	b.lines = next
	b.selecting = false
	b.wantCol = -1
	b.cursor = b.clamp(Pos{Row: first, Col: col})
	b.version++
}

func (b *Buffer) deleteSelection() bool {
	r, ok := b.Selection()
	if !ok {
		return false
	}
	b.replace(r, "")
	return true
}

func (b *Buffer) deleteSpan(start, end Pos) {
	r := Range{Start: start, End: end}
	if r.IsEmpty() {
		return
	}
	b.replace(r, "")
}

// replace swaps the text in r for text and leaves the cursor after the
// inserted text. Affected lines are re-segmented so combining marks join the
// cluster before them.
func (b *Buffer) replace(r Range, text string) {
	r = NormalizeRange(Range{Start: b.clamp(r.Start), End: b.clamp(r.End)})
	text = strings.ReplaceAll(text, "\r\n", "\n")

	prefix := strings.Join(b.lines[r.Start.Row][:r.Start.Col], "")
	suffix := strings.Join(b.lines[r.End.Row][r.End.Col:], "")

	parts := strings.Split(text, "\n")
	repl := make([][]string, len(parts))
	var cursor Pos
	for i, part := range parts {
		if i == 0 {
			part = prefix + part
		}
		if i == len(parts)-1 {
			cursor = Pos{Row: r.Start.Row + i, Col: len(splitGraphemes(part))}
			part += suffix
		}
		repl[i] = splitGraphemes(part)
	}

	next := make([][]string, 0, len(b.lines)-(r.End.Row-r.Start.Row)+len(repl)-1)
	next = append(next, b.lines[:r.Start.Row]...)
	next = append(next, repl...)
	next = append(next, b.lines[r.End.Row+1:]...)

	b.lines = next
	b.cursor = b.clamp(cursor)
	b.selecting = false
	b.wantCol = -1
	b.version++
}

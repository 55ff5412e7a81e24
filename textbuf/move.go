package textbuf

// moveTo places the cursor at next. With extend the selection grows from the
// existing anchor (or the old cursor); without it the selection is dropped.
// keepCol preserves the preferred column for consecutive vertical moves.
func (b *Buffer) moveTo(next Pos, extend, keepCol bool) {
	prevCursor, prevAnchor, prevSel := b.cursor, b.anchor, b.selecting
	next = b.clamp(next)

	if extend {
		if !b.selecting {
			b.anchor = prevCursor
			b.selecting = true
		}
	} else {
		b.selecting = false
	}
	b.cursor = next
	if b.selecting && b.anchor == b.cursor {
		b.selecting = false
	}
	if !keepCol {
		b.wantCol = -1
	}

	if prevCursor != b.cursor || prevSel != b.selecting || (b.selecting && prevAnchor != b.anchor) {
		b.version++
	}
}

// CursorLeft moves one cluster left, wrapping to the previous line end.
func (b *Buffer) CursorLeft(extend bool) {
	p := b.cursor
	switch {
	case p.Col > 0:
		p.Col--
	case p.Row > 0:
		p.Row--
		p.Col = len(b.lines[p.Row])
	}
	b.moveTo(p, extend, false)
}

// CursorRight moves one cluster right, wrapping to the next line start.
func (b *Buffer) CursorRight(extend bool) {
	p := b.cursor
	switch {
	case p.Col < len(b.lines[p.Row]):
		p.Col++
	case p.Row < len(b.lines)-1:
		p.Row++
		p.Col = 0
	}
	b.moveTo(p, extend, false)
}

// CursorUp moves one line up, keeping the preferred column.
func (b *Buffer) CursorUp(extend bool) {
	b.vertical(-1, extend)
}

// CursorDown moves one line down, keeping the preferred column.
func (b *Buffer) CursorDown(extend bool) {
	b.vertical(1, extend)
}

// CursorPageUp moves rows lines up.
func (b *Buffer) CursorPageUp(rows int, extend bool) {
	b.vertical(-max(rows, 1), extend)
}

// CursorPageDown moves rows lines down.
func (b *Buffer) CursorPageDown(rows int, extend bool) {
	b.vertical(max(rows, 1), extend)
}

func (b *Buffer) vertical(delta int, extend bool) {
	col := b.cursor.Col
	if b.wantCol >= 0 {
		col = b.wantCol
	}
	row := clampInt(b.cursor.Row+delta, 0, len(b.lines)-1)
	if row == b.cursor.Row {
		return
	}
	b.moveTo(Pos{Row: row, Col: col}, extend, true)
	b.wantCol = col
}

// CursorWordLeft moves to the start of the current or previous word.
func (b *Buffer) CursorWordLeft(extend bool) {
	b.moveTo(b.wordLeftOf(b.cursor), extend, false)
}

// CursorWordRight moves to the end of the current or next word.
func (b *Buffer) CursorWordRight(extend bool) {
	b.moveTo(b.wordRightOf(b.cursor), extend, false)
}

// CursorLineStart moves to column 0.
func (b *Buffer) CursorLineStart(extend bool) {
	b.moveTo(Pos{Row: b.cursor.Row}, extend, false)
}

// CursorLineEnd moves past the last cluster of the line.
func (b *Buffer) CursorLineEnd(extend bool) {
	b.moveTo(Pos{Row: b.cursor.Row, Col: len(b.lines[b.cursor.Row])}, extend, false)
}

// SelectLine selects the cursor's line.
func (b *Buffer) SelectLine() {
	row := b.cursor.Row
	b.selectRange(Pos{Row: row}, Pos{Row: row, Col: len(b.lines[row])})
}

// SelectAll selects the whole document.
func (b *Buffer) SelectAll() {
	b.selectRange(Pos{}, b.endPos())
}

func (b *Buffer) selectRange(anchor, cursor Pos) {
	b.moveTo(anchor, false, false)
	b.moveTo(cursor, true, false)
}

// Word boundaries: skip whitespace, then skip non-whitespace. A line edge
// counts as one step, so word motion at column 0 lands on the previous line end.
func (b *Buffer) wordLeftOf(p Pos) Pos {
	if p.Col == 0 {
		if p.Row == 0 {
			return p
		}
		return Pos{Row: p.Row - 1, Col: len(b.lines[p.Row-1])}
	}
	line := b.lines[p.Row]
	i := p.Col
	for i > 0 && isSpace(line[i-1]) {
		i--
	}
	for i > 0 && !isSpace(line[i-1]) {
		i--
	}
	return Pos{Row: p.Row, Col: i}
}

func (b *Buffer) wordRightOf(p Pos) Pos {
	line := b.lines[p.Row]
	if p.Col >= len(line) {
		if p.Row >= len(b.lines)-1 {
			return p
		}
		return Pos{Row: p.Row + 1}
	}
	i := p.Col
	for i < len(line) && isSpace(line[i]) {
		i++
	}
	for i < len(line) && !isSpace(line[i]) {
		i++
	}
	return Pos{Row: p.Row, Col: i}
}

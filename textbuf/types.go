// Package textbuf is the editing engine behind the chat input: a multi-line
// document of grapheme clusters with a cursor and an optional selection.
//
// Widgets compose a Buffer and map key chords onto its operations. Every
// operation is total: moves clamp at document edges and deletes at an edge
// are no-ops.
package textbuf

// Pos addresses a grapheme cluster boundary. Row and Col are 0-based and Col
// counts clusters, not bytes.
type Pos struct {
	Row int
	Col int
}

// Range is a half-open span [Start, End) in document order.
type Range struct {
	Start Pos
	End   Pos
}

// ComparePos orders positions by row, then column.
func ComparePos(a, b Pos) int {
	switch {
	case a.Row < b.Row:
		return -1
	case a.Row > b.Row:
		return 1
	case a.Col < b.Col:
		return -1
	case a.Col > b.Col:
		return 1
	}
	return 0
}

// NormalizeRange swaps Start and End when they are out of order.
func NormalizeRange(r Range) Range {
	if ComparePos(r.Start, r.End) <= 0 {
		return r
	}
	return Range{Start: r.End, End: r.Start}
}

// IsEmpty reports whether the range covers nothing.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

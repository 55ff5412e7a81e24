// Package termmd renders Markdown replies as styled terminal text.
//
// The terminal has no real typography, so Markdown features are mapped to
// approximations:
//   - Headings become bold (level 1 also underlined)
//   - Code spans and fenced blocks get a distinct colour, blocks are indented
//   - Block quotes are prefixed with a bar
//   - Links render as "label (url)"
//   - GFM tables are drawn with lipgloss/table
//   - Raw HTML is reduced to its text
package termmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var (
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	titleStyle    = headingStyle.Underline(true)
	boldStyle     = lipgloss.NewStyle().Bold(true)
	italicStyle   = lipgloss.NewStyle().Italic(true)
	strikeStyle   = lipgloss.NewStyle().Strikethrough(true)
	codeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	codeBlockPad  = "    "
	linkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Underline(true)
	quoteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tableBorder   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tableHeadCell = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCell     = lipgloss.NewStyle().Padding(0, 1)
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Render converts Markdown into terminal text wrapped to width columns.
// width <= 0 disables wrapping.
func Render(markdown string, width int) string {
	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	r := &renderer{source: source, width: width}
	r.walkBlock(doc)
	out := strings.TrimRight(r.buf.String(), "\n ")
	return out
}

type renderer struct {
	source    []byte
	buf       bytes.Buffer
	width     int
	listDepth int
}

func (r *renderer) walkBlock(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.block(c)
	}
}

func (r *renderer) block(node ast.Node) {
	switch n := node.(type) {
	case *ast.Document:
		r.walkBlock(n)

	case *ast.Heading:
		style := headingStyle
		if n.Level == 1 {
			style = titleStyle
		}
		r.buf.WriteString(style.Render(r.inlineString(n)))
		r.buf.WriteString("\n\n")

	case *ast.Paragraph:
		r.buf.WriteString(r.wrap(r.inlineString(n)))
		r.buf.WriteString("\n\n")

	case *ast.TextBlock:
		r.buf.WriteString(r.inlineString(n))
		r.buf.WriteString("\n")

	case *ast.Blockquote:
		sub := &renderer{source: r.source, width: max(r.width-2, 0)}
		sub.walkBlock(n)
		body := strings.TrimRight(sub.buf.String(), "\n ")
		for _, line := range strings.Split(body, "\n") {
			r.buf.WriteString(quoteStyle.Render("│ "))
			r.buf.WriteString(line)
			r.buf.WriteByte('\n')
		}
		r.buf.WriteByte('\n')

	case *ast.List:
		r.list(n)

	case *ast.ListItem:
		r.walkBlock(n)

	case *ast.FencedCodeBlock:
		if lang := string(n.Language(r.source)); lang != "" {
			r.buf.WriteString(quoteStyle.Render(codeBlockPad + lang))
			r.buf.WriteByte('\n')
		}
		r.codeLines(n)
		r.buf.WriteByte('\n')

	case *ast.CodeBlock:
		r.codeLines(n)
		r.buf.WriteByte('\n')

	case *ast.ThematicBreak:
		r.buf.WriteString(quoteStyle.Render(strings.Repeat("─", max(min(r.width, 40), 10))))
		r.buf.WriteString("\n\n")

	case *ast.HTMLBlock:
		r.rawLines(n)
		r.buf.WriteByte('\n')

	default:
		if t, ok := node.(*east.Table); ok {
			r.table(t)
			return
		}
		if node.HasChildren() {
			r.walkBlock(node)
		}
	}
}

func (r *renderer) wrap(s string) string {
	if r.width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(r.width).Render(s)
}

func (r *renderer) codeLines(n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(r.source)), "\n")
		r.buf.WriteString(codeBlockPad)
		r.buf.WriteString(codeStyle.Render(line))
		r.buf.WriteByte('\n')
	}
}

func (r *renderer) rawLines(n ast.Node) {
	var raw bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		raw.Write(seg.Value(r.source))
	}
	if text := htmlText(raw.String()); text != "" {
		r.buf.WriteString(r.wrap(text))
		r.buf.WriteByte('\n')
	}
}

// htmlText returns the visible text of an HTML fragment. Script and style
// contents are dropped and <br> becomes a newline.
func htmlText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	return strings.TrimSpace(doc.Text())
}

// inlineString renders the inline children of n into a string.
func (r *renderer) inlineString(n ast.Node) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.inline(&sb, c)
	}
	return sb.String()
}

func (r *renderer) inline(sb *strings.Builder, node ast.Node) {
	switch n := node.(type) {
	case *ast.Text:
		sb.Write(n.Text(r.source))
		if n.SoftLineBreak() {
			sb.WriteByte(' ')
		}
		if n.HardLineBreak() {
			sb.WriteByte('\n')
		}

	case *ast.String:
		sb.Write(n.Value)

	case *ast.Emphasis:
		style := italicStyle
		if n.Level == 2 {
			style = boldStyle
		}
		sb.WriteString(style.Render(r.inlineString(n)))

	case *ast.CodeSpan:
		sb.WriteString(codeStyle.Render(r.textContent(n)))

	case *ast.Link:
		label := r.inlineString(n)
		dest := string(n.Destination)
		sb.WriteString(linkStyle.Render(label))
		if dest != "" && dest != label {
			fmt.Fprintf(sb, " (%s)", dest)
		}

	case *ast.AutoLink:
		sb.WriteString(linkStyle.Render(string(n.URL(r.source))))

	case *ast.Image:
		alt := r.textContent(n)
		if alt == "" {
			alt = "image"
		}
		fmt.Fprintf(sb, "[%s] (%s)", alt, n.Destination)

	case *ast.RawHTML:
		// inline tags carry no text of their own
		var raw strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			raw.Write(seg.Value(r.source))
		}
		if strings.HasPrefix(strings.ToLower(raw.String()), "<br") {
			sb.WriteByte('\n')
		}

	default:
		switch v := node.(type) {
		case *east.Strikethrough:
			sb.WriteString(strikeStyle.Render(r.inlineString(v)))
		case *east.TaskCheckBox:
			if v.IsChecked {
				sb.WriteString("[x] ")
			} else {
				sb.WriteString("[ ] ")
			}
		default:
			if node.HasChildren() {
				sb.WriteString(r.inlineString(node))
			}
		}
	}
}

// textContent returns the plain-text content of a node tree.
func (r *renderer) textContent(n ast.Node) string {
	var buf bytes.Buffer
	r.collectText(n, &buf)
	return buf.String()
}

func (r *renderer) collectText(node ast.Node, buf *bytes.Buffer) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Text(r.source))
		case *ast.String:
			buf.Write(t.Value)
		default:
			r.collectText(c, buf)
		}
	}
}

func (r *renderer) list(n *ast.List) {
	idx := 0
	if n.Start > 0 {
		idx = n.Start - 1
	}
	indent := strings.Repeat("  ", r.listDepth)

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		item, ok := child.(*ast.ListItem)
		if !ok {
			continue
		}
		r.buf.WriteString(indent)
		if n.IsOrdered() {
			idx++
			fmt.Fprintf(&r.buf, "%d. ", idx)
		} else {
			r.buf.WriteString("• ")
		}
		r.listItem(item)
		r.buf.WriteByte('\n')
	}
	if r.listDepth == 0 {
		r.buf.WriteByte('\n')
	}
}

func (r *renderer) listItem(item *ast.ListItem) {
	first := true
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		switch n := c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			if !first {
				r.buf.WriteByte('\n')
				r.buf.WriteString(strings.Repeat("  ", r.listDepth+1))
			}
			r.buf.WriteString(r.inlineString(n))
			first = false
		case *ast.List:
			r.buf.WriteByte('\n')
			r.listDepth++
			r.list(n)
			r.listDepth--
		default:
			r.block(c)
			first = false
		}
	}
}

func (r *renderer) table(t *east.Table) {
	var headers []string
	var rows [][]string

	for child := t.FirstChild(); child != nil; child = child.NextSibling() {
		var cells []string
		for cell := child.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, r.textContent(cell))
		}
		switch child.(type) {
		case *east.TableHeader:
			headers = cells
		case *east.TableRow:
			rows = append(rows, cells)
		}
	}
	if len(headers) == 0 && len(rows) == 0 {
		return
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeadCell
			}
			return tableCell
		})
	r.buf.WriteString(tbl.Render())
	r.buf.WriteString("\n\n")
}

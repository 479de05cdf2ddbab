package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/metrics"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// Corner selects where the first drawn entry goes.
type Corner int

const (
	// TopLeft stacks entries downward from the top edge.
	TopLeft Corner = iota
	// BottomLeft stacks entries upward from the bottom edge.
	BottomLeft
)

// ParseCorner maps a config value to a Corner; unknown values are TopLeft.
func ParseCorner(s string) Corner {
	if s == config.CornerBottomLeft {
		return BottomLeft
	}
	return TopLeft
}

// Glyphs are the expansion markers drawn in front of each entry.
type Glyphs struct {
	Open   string // expanded node with children
	Closed string // collapsed node with children
	Leaf   string // no children
}

// DefaultGlyphs are the down and right pointing triangles.
var DefaultGlyphs = Glyphs{Open: "▼", Closed: "▶", Leaf: " "}

// Widget draws a tree.Frame. It holds only presentation options; the
// navigation state is passed to Render.
type Widget struct {
	Style           lipgloss.Style // base style of every row
	HighlightStyle  lipgloss.Style // patched over the selected entry
	HighlightSymbol string         // drawn in front of the selected entry
	StartCorner     Corner
	Border          bool
	BorderStyle     lipgloss.Style
	Title           string
	TitleStyle      lipgloss.Style // the title embedded in the top border
	Indent          int // cells per depth level
	Glyphs          Glyphs
}

// NewWidget returns a widget styled with theme.
func NewWidget(theme Theme) Widget {
	return Widget{
		Style:          theme.Base,
		HighlightStyle: theme.Selected,
		BorderStyle:    theme.BorderStyle,
		TitleStyle:     theme.Title,
		Indent:         2,
		Glyphs:         DefaultGlyphs,
	}
}

// WithConfig applies the ui section of the config file.
func (w Widget) WithConfig(c config.UIConfig) Widget {
	w.HighlightSymbol = c.HighlightSymbol
	w.StartCorner = ParseCorner(c.StartCorner)
	w.Border = c.Border
	if c.Title != "" {
		w.Title = c.Title
	}
	w.Indent = c.Indent
	return w
}

// Render draws items into a width x height block (border included) and
// stores the new scroll offset in s.
func (w Widget) Render(s *tree.State, items []tree.Item, width, height int) string {
	if width < 1 || height < 1 {
		return ""
	}
	defer metrics.Timer(metrics.FrameRender)()

	innerW, innerH := width, height
	if w.Border {
		innerW, innerH = width-2, height-2
	}

	var body []string
	if innerW >= 1 && innerH >= 1 {
		body = w.renderBody(tree.Layout(s, items, innerH), innerW, innerH)
	}

	if !w.Border {
		return strings.Join(body, "\n")
	}
	return strings.Join(w.frame(body, width, height), "\n")
}

// RenderStateless draws items with a throwaway state: nothing selected,
// nothing expanded.
func (w Widget) RenderStateless(items []tree.Item, width, height int) string {
	return w.Render(tree.NewState(), items, width, height)
}

// renderBody returns exactly height lines of exactly width cells.
func (w Widget) renderBody(f tree.Frame, width, height int) []string {
	blankLine := w.Style.Render(strings.Repeat(" ", width))

	var blocks [][]string
	used := 0
	for _, row := range f.Rows {
		block := w.renderRow(row, width)
		// An entry taller than the viewport is cut at the far edge.
		if used+len(block) > height {
			block = block[:height-used]
		}
		used += len(block)
		blocks = append(blocks, block)
		if used >= height {
			break
		}
	}

	lines := make([]string, 0, height)
	if w.StartCorner == BottomLeft {
		for i := used; i < height; i++ {
			lines = append(lines, blankLine)
		}
		for i := len(blocks) - 1; i >= 0; i-- {
			lines = append(lines, blocks[i]...)
		}
		return lines
	}

	for _, b := range blocks {
		lines = append(lines, b...)
	}
	for len(lines) < height {
		lines = append(lines, blankLine)
	}
	return lines
}

// renderRow draws one entry: highlight symbol, indentation, glyph, then the
// payload lines. Continuation lines are aligned under the first.
func (w Widget) renderRow(row tree.Row, width int) []string {
	var prefix string
	if row.HasSelection {
		if row.Selected {
			prefix = w.HighlightSymbol
		} else {
			prefix = blank(w.HighlightSymbol)
		}
	}

	glyph := w.Glyphs.Leaf
	if row.HasChildren() {
		glyph = w.Glyphs.Closed
		if row.Expanded {
			glyph = w.Glyphs.Open
		}
	}
	prefix += strings.Repeat(" ", row.Depth*max(w.Indent, 0)) + glyph + " "

	style := w.Style
	if row.Item != nil {
		style = row.Item.Style().Inherit(w.Style)
	}
	if row.Selected {
		style = w.HighlightStyle.Inherit(style)
	}

	lines := []string{""}
	if row.Item != nil {
		lines = row.Item.Lines()
	}
	n := max(row.Height, 1)
	out := make([]string, n)
	indent := strings.Repeat(" ", runewidth.StringWidth(prefix))
	for i := range n {
		text := ""
		if i < len(lines) {
			text = lines[i]
		}
		lead := indent
		if i == 0 {
			lead = prefix
		}
		out[i] = style.Render(fit(lead+text, width))
	}
	return out
}

// frame surrounds body with a rounded border, writing the title into the
// top edge.
func (w Widget) frame(body []string, width, height int) []string {
	b := lipgloss.RoundedBorder()
	innerW := max(width-2, 0)

	lines := make([]string, 0, height)
	if w.Title != "" && innerW > 2 {
		title := clip(" "+w.Title+" ", innerW-1)
		rest := strings.Repeat(b.Top, innerW-1-runewidth.StringWidth(title))
		lines = append(lines, w.BorderStyle.Render(b.TopLeft+b.Top)+
			w.TitleStyle.Render(title)+
			w.BorderStyle.Render(rest+b.TopRight))
	} else {
		top := strings.Repeat(b.Top, innerW)
		lines = append(lines, w.BorderStyle.Render(clip(b.TopLeft+top+b.TopRight, width)))
	}
	side := w.BorderStyle.Render(b.Left)
	rightSide := w.BorderStyle.Render(b.Right)
	for i := 0; i < height-2; i++ {
		content := strings.Repeat(" ", innerW)
		if i < len(body) {
			content = body[i]
		}
		if width >= 2 {
			lines = append(lines, side+content+rightSide)
		} else {
			lines = append(lines, side)
		}
	}
	if height >= 2 {
		lines = append(lines, w.BorderStyle.Render(clip(b.BottomLeft+strings.Repeat(b.Bottom, innerW)+b.BottomRight, width)))
	}
	return lines
}

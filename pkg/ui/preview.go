package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/treeview/pkg/debug"
	"github.com/vanderheijden86/treeview/pkg/metrics"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// previewCache keeps the last glamour renderer and output; the model is
// copied on every update so the cache lives behind a pointer.
type previewCache struct {
	width    int
	renderer *glamour.TermRenderer
	source   string
	out      string
}

// previewMarkdown returns the markdown shown for the selected item.
func previewMarkdown(it *tree.Item) string {
	if it == nil {
		return "_Nothing selected_"
	}
	if d, ok := it.Payload().(tree.Describer); ok {
		return d.Describe()
	}
	return strings.Join(it.Lines(), "\n\n")
}

func (m Model) glamourRenderer(width int) *glamour.TermRenderer {
	c := m.preview
	if c.renderer != nil && c.width == width {
		return c.renderer
	}
	style := glamour.WithAutoStyle()
	if m.previewStyle != "auto" && m.previewStyle != "" {
		style = glamour.WithStandardStyle(m.previewStyle)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		debug.Log("ui: glamour renderer unavailable: %v", err)
		return nil
	}
	c.renderer, c.width, c.source = r, width, ""
	return r
}

// renderMarkdown renders md for a pane width cells wide, falling back to the
// raw text when glamour fails.
func (m Model) renderMarkdown(md string, width int) string {
	c := m.preview
	if c.source == md && c.width == width && c.out != "" {
		metrics.PreviewCache.Hit()
		return c.out
	}
	metrics.PreviewCache.Miss()
	defer metrics.Timer(metrics.PreviewRender)()
	r := m.glamourRenderer(width)
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		debug.Log("ui: preview render failed: %v", err)
		return md
	}
	// Strip the blank margin glamour puts around the document
	out = strings.Trim(out, "\n")
	c.source, c.out = md, out
	return out
}

// renderPreview draws the preview pane, border included, in width x height.
func (m Model) renderPreview(width, height int) string {
	innerW := max(width-4, 1) // border and horizontal padding
	innerH := max(height-2, 1)

	md := previewMarkdown(m.state.SelectedItem(m.items))
	lines := strings.Split(m.renderMarkdown(md, innerW), "\n")
	lines = fitLines(lines, innerH)
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, innerW, "")
	}

	return m.theme.Preview.
		Width(max(width-2, 1)).
		Height(innerH).
		Render(strings.Join(lines, "\n"))
}

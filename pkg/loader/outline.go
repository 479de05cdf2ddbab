package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// Outline is a hand-written tree document. The top level is either a
// mapping with a title and items, or a bare list of nodes.
//
//	title: Plan
//	items:
//	  - title: Design
//	    note: |
//	      whiteboard first
//	    children:
//	      - title: Review
type Outline struct {
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
	Nodes []Node `yaml:"items" json:"items"`
}

// Node is one outline entry.
type Node struct {
	Title    string `yaml:"title" json:"title"`
	Note     string `yaml:"note,omitempty" json:"note,omitempty"`
	Color    string `yaml:"color,omitempty" json:"color,omitempty"` // lipgloss color, e.g. "212" or "#ff8800"
	Bold     bool   `yaml:"bold,omitempty" json:"bold,omitempty"`
	Children []Node `yaml:"children,omitempty" json:"children,omitempty"`
}

// Topic is the payload of an outline item: the title line followed by the
// note's lines.
type Topic struct {
	Title string
	Note  string
}

// Lines returns the title followed by each line of the note.
func (t Topic) Lines() []string {
	lines := []string{t.Title}
	if note := strings.TrimRight(t.Note, "\n"); note != "" {
		lines = append(lines, strings.Split(note, "\n")...)
	}
	return lines
}

// RowHeight is the number of lines.
func (t Topic) RowHeight() int { return len(t.Lines()) }

// CopyText is the title.
func (t Topic) CopyText() string { return t.Title }

// Describe returns a markdown rendering for the preview pane.
func (t Topic) Describe() string {
	if t.Note == "" {
		return "# " + t.Title + "\n"
	}
	return "# " + t.Title + "\n\n" + t.Note
}

// LoadOutline reads an outline document; the format is chosen by extension
// (.yaml, .yml or .json).
func LoadOutline(path string) (*Outline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading outline: %w", err)
	}
	return ParseOutline(data, filepath.Ext(path))
}

// ParseOutline decodes data in the format named by ext.
func ParseOutline(data []byte, ext string) (*Outline, error) {
	data = stripBOM(data)

	var unmarshal func([]byte, any) error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	case ".json":
		unmarshal = json.Unmarshal
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	var doc Outline
	if err := unmarshal(data, &doc); err != nil {
		// A bare list of nodes is accepted as well.
		var nodes []Node
		if listErr := unmarshal(data, &nodes); listErr != nil {
			return nil, fmt.Errorf("parsing outline: %w", err)
		}
		doc = Outline{Nodes: nodes}
	}
	// An outline without items is valid and shows as an empty tree.
	return &doc, nil
}

// Build converts the outline into tree items.
func (o *Outline) Build() []tree.Item {
	items := make([]tree.Item, len(o.Nodes))
	for i, n := range o.Nodes {
		items[i] = n.item()
	}
	return items
}

func (n Node) item() tree.Item {
	children := make([]tree.Item, len(n.Children))
	for i, c := range n.Children {
		children[i] = c.item()
	}
	it := tree.New(Topic{Title: n.Title, Note: n.Note}, children...)

	if n.Color == "" && !n.Bold {
		return it
	}
	style := lipgloss.NewStyle()
	if n.Color != "" {
		style = style.Foreground(lipgloss.Color(n.Color))
	}
	if n.Bold {
		style = style.Bold(true)
	}
	return it.WithStyle(style)
}

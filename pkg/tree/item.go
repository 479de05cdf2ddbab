package tree

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Payload is the externally meaningful content of an Item. The tree never
// interprets the text, it only counts rows.
type Payload interface {
	// Lines returns the display lines, top to bottom.
	Lines() []string
	// RowHeight returns how many rows the payload occupies. Values below 1
	// are treated as 1.
	RowHeight() int
}

// Describer is an optional Payload extension providing a longer markdown
// description (used by the preview pane).
type Describer interface {
	Describe() string
}

// Text is the simplest Payload: a string whose lines are separated by "\n".
type Text string

// Lines splits the text on newlines.
func (t Text) Lines() []string {
	return strings.Split(string(t), "\n")
}

// RowHeight is the number of lines.
func (t Text) RowHeight() int {
	return strings.Count(string(t), "\n") + 1
}

// Item is one node of the tree. It exclusively owns its children.
type Item struct {
	payload  Payload
	style    lipgloss.Style
	children []Item
}

// NewLeaf creates an item without children.
func NewLeaf(p Payload) Item {
	return Item{payload: p}
}

// New creates an item with the given children.
func New(p Payload, children ...Item) Item {
	return Item{payload: p, children: children}
}

// WithStyle returns a copy of the item using style for its row.
func (it Item) WithStyle(style lipgloss.Style) Item {
	it.style = style
	return it
}

// Payload returns the item's content.
func (it *Item) Payload() Payload { return it.payload }

// SetPayload replaces the item's content in place.
func (it *Item) SetPayload(p Payload) { it.payload = p }

// Style returns the item's row style.
func (it *Item) Style() lipgloss.Style { return it.style }

// Children returns the owned children. Mutating elements writes through.
func (it *Item) Children() []Item { return it.children }

// ChildCount returns the number of direct children.
func (it *Item) ChildCount() int { return len(it.children) }

// Child returns the i-th child, or nil when i is out of range.
func (it *Item) Child(i int) *Item {
	if i < 0 || i >= len(it.children) {
		return nil
	}
	return &it.children[i]
}

// AddChild appends a child. Pointers previously returned by Child or Resolve
// for this item's children may be invalidated.
func (it *Item) AddChild(child Item) {
	it.children = append(it.children, child)
}

// Height returns the number of rows this item occupies (at least 1).
func (it *Item) Height() int {
	if it.payload == nil {
		return 1
	}
	if h := it.payload.RowHeight(); h > 1 {
		return h
	}
	return 1
}

// Lines returns the payload's display lines.
func (it *Item) Lines() []string {
	if it.payload == nil {
		return []string{""}
	}
	return it.payload.Lines()
}

// Resolve walks id one index per depth level. It returns nil as soon as an
// index is out of range or id is empty. The returned pointer aliases the
// owned tree, so it doubles as the mutable accessor.
func Resolve(items []Item, id Identifier) *Item {
	if len(id) == 0 {
		return nil
	}
	level := items
	var node *Item
	for _, idx := range id {
		if idx < 0 || idx >= len(level) {
			return nil
		}
		node = &level[idx]
		level = node.children
	}
	return node
}

// Count returns the total number of items in the forest.
func Count(items []Item) int {
	n := len(items)
	for i := range items {
		n += Count(items[i].children)
	}
	return n
}

// Walk visits every item in pre-order regardless of the opened set. It stops
// early when fn returns false.
func Walk(items []Item, fn func(id Identifier, it *Item) bool) {
	walk(items, nil, fn)
}

func walk(level []Item, parent Identifier, fn func(Identifier, *Item) bool) bool {
	for i := range level {
		id := parent.Child(i)
		if !fn(id, &level[i]) {
			return false
		}
		if !walk(level[i].children, id, fn) {
			return false
		}
	}
	return true
}

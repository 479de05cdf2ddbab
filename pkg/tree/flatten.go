package tree

// Entry is one visible row of the flattened tree. Entries are rebuilt on
// every render and must not be kept across tree mutations.
type Entry struct {
	ID     Identifier
	Depth  int
	Height int
	Item   *Item
}

// HasChildren reports whether the entry's item has children, collapsed or not.
func (e Entry) HasChildren() bool {
	return e.Item != nil && e.Item.ChildCount() > 0
}

// Flatten returns the visible nodes in the order a user scans them top to
// bottom. Every root is emitted; the children of a node are emitted only when
// its identifier is in opened. A collapsed ancestor always hides its
// descendants, whatever their own membership.
func Flatten(opened Set, items []Item) []Entry {
	var out []Entry
	for i := range items {
		out = appendVisible(out, opened, &items[i], Identifier{i})
	}
	return out
}

// appendVisible adds node and its visible descendants to out.
func appendVisible(out []Entry, opened Set, node *Item, id Identifier) []Entry {
	out = append(out, Entry{
		ID:     id,
		Depth:  len(id) - 1,
		Height: node.Height(),
		Item:   node,
	})
	if len(node.children) == 0 || !opened.Has(id) {
		return out
	}
	for i := range node.children {
		out = appendVisible(out, opened, &node.children[i], id.Child(i))
	}
	return out
}

// IndexOf returns the position of id in visible.
func IndexOf(visible []Entry, id Identifier) (int, bool) {
	if len(id) == 0 {
		return 0, false
	}
	for i := range visible {
		if visible[i].ID.Equal(id) {
			return i, true
		}
	}
	return 0, false
}

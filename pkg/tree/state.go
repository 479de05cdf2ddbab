package tree

// State is the per-view navigation state: the selection, the set of opened
// nodes, and the scroll offset. Every method is total; an identifier that no
// longer resolves is treated as "no current position", never as an error.
//
// The zero value is ready to use.
type State struct {
	offset   int
	opened   Set
	selected Identifier
}

// NewState returns an empty state.
func NewState() *State {
	return &State{opened: make(Set)}
}

// Offset returns the index of the first displayed entry.
func (s *State) Offset() int { return s.offset }

// Selected returns a copy of the current selection (empty when none).
func (s *State) Selected() Identifier { return s.selected.Clone() }

// HasSelection reports whether anything is selected.
func (s *State) HasSelection() bool { return len(s.selected) > 0 }

// Opened returns the opened identifiers ordered by path.
func (s *State) Opened() []Identifier { return s.opened.Slice() }

// IsOpen reports whether id is in the opened set.
func (s *State) IsOpen(id Identifier) bool { return s.opened.Has(id) }

// Visible flattens items with the current opened set.
func (s *State) Visible(items []Item) []Entry {
	return Flatten(s.opened, items)
}

// Select sets the selection verbatim, without checking that it resolves.
// Clearing the selection also resets the offset.
func (s *State) Select(id Identifier) {
	s.selected = id.Clone()
	if len(s.selected) == 0 {
		s.offset = 0
	}
}

// Open adds id to the opened set. It reports whether id was newly opened.
// The empty identifier cannot be opened.
func (s *State) Open(id Identifier) bool {
	if len(id) == 0 {
		return false
	}
	if s.opened == nil {
		s.opened = make(Set)
	}
	return s.opened.Add(id)
}

// Close removes id from the opened set and reports whether it was open.
func (s *State) Close(id Identifier) bool {
	return s.opened.Remove(id)
}

// Toggle closes id when open and opens it otherwise.
func (s *State) Toggle(id Identifier) {
	if s.opened.Has(id) {
		s.Close(id)
	} else {
		s.Open(id)
	}
}

// ToggleSelected toggles the selected node.
func (s *State) ToggleSelected() {
	s.Toggle(s.selected)
}

// CloseAll empties the opened set.
func (s *State) CloseAll() {
	clear(s.opened)
}

// OpenAll opens every node that has children.
func (s *State) OpenAll(items []Item) {
	var walk func(level []Item, parent Identifier)
	walk = func(level []Item, parent Identifier) {
		for i := range level {
			if len(level[i].children) == 0 {
				continue
			}
			id := parent.Child(i)
			s.Open(id)
			walk(level[i].children, id)
		}
	}
	walk(items, nil)
}

// Reveal opens every proper ancestor of id so that it becomes visible.
func (s *State) Reveal(id Identifier) {
	for i := 1; i < len(id); i++ {
		s.Open(id[:i])
	}
}

// SelectFirst selects the first root. With no roots the selection is cleared
// rather than pointed at a node that cannot exist.
func (s *State) SelectFirst(items []Item) {
	if len(items) == 0 {
		s.Select(Identifier{})
		return
	}
	s.Select(Identifier{0})
}

// SelectLast selects the last visible entry, or clears the selection when
// nothing is visible.
func (s *State) SelectLast(items []Item) {
	visible := s.Visible(items)
	if len(visible) == 0 {
		s.Select(Identifier{})
		return
	}
	s.Select(visible[len(visible)-1].ID)
}

// MoveUp selects the previous visible entry. An unresolvable selection moves
// to the first entry.
func (s *State) MoveUp(items []Item) {
	s.moveBy(items, -1)
}

// MoveDown selects the next visible entry. An unresolvable selection moves to
// the first entry.
func (s *State) MoveDown(items []Item) {
	s.moveBy(items, 1)
}

// MovePageUp moves the selection n entries up, stopping at the first.
func (s *State) MovePageUp(items []Item, n int) {
	if n < 1 {
		n = 1
	}
	s.moveBy(items, -n)
}

// MovePageDown moves the selection n entries down, stopping at the last.
func (s *State) MovePageDown(items []Item, n int) {
	if n < 1 {
		n = 1
	}
	s.moveBy(items, n)
}

func (s *State) moveBy(items []Item, delta int) {
	visible := s.Visible(items)
	if len(visible) == 0 {
		return
	}
	target := 0
	if current, ok := IndexOf(visible, s.selected); ok {
		target = clamp(current+delta, 0, len(visible)-1)
	}
	s.Select(visible[target].ID)
}

// MoveLeft closes the selected node, or moves to its parent when it was not
// open. At a root this clears the selection.
func (s *State) MoveLeft() {
	if s.Close(s.selected) {
		return
	}
	parent, _, _ := s.selected.Parent()
	s.Select(parent)
}

// MoveRight opens the selected node. Opening a leaf is harmless.
func (s *State) MoveRight() {
	s.Open(s.selected)
}

// SelectedItem resolves the selection against items. The result is nil when
// nothing is selected or the selection is stale. Writes through the pointer
// modify the tree in place.
func (s *State) SelectedItem(items []Item) *Item {
	return Resolve(items, s.selected)
}

// SelectedIndex returns the position of the selection within visible.
func (s *State) SelectedIndex(visible []Entry) (int, bool) {
	return IndexOf(visible, s.selected)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package tree

// Row is what a renderer needs to draw one visible entry.
type Row struct {
	Entry
	Expanded     bool // identifier is in the opened set
	Selected     bool // identifier equals the selection
	HasSelection bool // the state has a non-empty selection, stale or not
}

// Frame is the result of one render pass.
type Frame struct {
	Start int   // index of the first drawn entry
	End   int   // exclusive end
	Total int   // number of visible entries
	Rows  []Row // entries Start..End in draw order
}

// Empty reports whether there is nothing to draw.
func (f Frame) Empty() bool { return len(f.Rows) == 0 }

// Height returns the number of rows the frame occupies.
func (f Frame) Height() int {
	h := 0
	for _, r := range f.Rows {
		h += r.Height
	}
	return h
}

// Layout runs one render pass: it flattens items, locates the selection,
// computes the window for a viewport of budget rows and stores the window
// start as the new offset.
func Layout(s *State, items []Item, budget int) Frame {
	visible := s.Visible(items)
	if len(visible) == 0 {
		return Frame{}
	}

	selected, found := s.SelectedIndex(visible)
	start, end := ComputeWindow(visible, budget, s.offset, selected, found)
	s.offset = start

	frame := Frame{
		Start: start,
		End:   end,
		Total: len(visible),
		Rows:  make([]Row, 0, end-start),
	}
	hasSelection := s.HasSelection()
	for i := start; i < end; i++ {
		e := visible[i]
		frame.Rows = append(frame.Rows, Row{
			Entry:        e,
			Expanded:     s.opened.Has(e.ID),
			Selected:     found && i == selected,
			HasSelection: hasSelection,
		})
	}
	return frame
}

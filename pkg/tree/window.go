package tree

// ComputeWindow picks the contiguous range [start, end) of visible that is
// drawn in a viewport of budget rows.
//
// The window starts at min(prevOffset, selected), grows while the next entry
// still fits, and then slides forward one entry at a time (evicting from the
// front) until the selected entry is inside it. It never moves further than
// needed, so the view does not jump around while the user navigates.
//
// An entry taller than the budget is never split: it becomes the sole member
// of the window instead. The selected entry is never evicted.
//
// An empty visible sequence yields (0, 0); a budget below 1 counts as 1.
func ComputeWindow(visible []Entry, budget, prevOffset, selected int, hasSelection bool) (start, end int) {
	n := len(visible)
	if n == 0 {
		return 0, 0
	}
	if budget < 1 {
		budget = 1
	}
	if hasSelection && (selected < 0 || selected >= n) {
		hasSelection = false
	}

	anchor := 0
	if hasSelection {
		anchor = selected
	}
	start = clamp(min(prevOffset, anchor), 0, n-1)

	end = start
	used := 0
	for end < n && used+visible[end].Height <= budget {
		used += visible[end].Height
		end++
	}
	if end == start {
		// The first candidate alone overflows the budget.
		used = visible[start].Height
		end = start + 1
	}

	if !hasSelection {
		return start, end
	}

	for selected >= end {
		used += visible[end].Height
		end++
		for used > budget && start < selected {
			used -= visible[start].Height
			start++
		}
	}
	return start, end
}

// WindowHeight sums the row heights of visible[start:end].
func WindowHeight(visible []Entry, start, end int) int {
	h := 0
	for i := start; i < end && i < len(visible); i++ {
		h += visible[i].Height
	}
	return h
}

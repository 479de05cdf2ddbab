package testutil

import (
	"strings"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// TB is the subset of testing.TB the assertions need. Both *testing.T and
// *rapid.T satisfy it.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
}

// Labels returns the first line of every entry's payload.
func Labels(entries []tree.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Item.Lines()[0]
	}
	return out
}

// AssertLabels verifies the visible order by first payload line.
func AssertLabels(t TB, entries []tree.Entry, want ...string) {
	t.Helper()
	got := Labels(entries)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("visible = %v, want %v", got, want)
	}
}

// AssertSelected verifies the selection of s.
func AssertSelected(t TB, s *tree.State, want tree.Identifier) {
	t.Helper()
	if got := s.Selected(); !got.Equal(want) {
		t.Errorf("selected = %v, want %v", got, want)
	}
}

// AssertWindow verifies the window invariants: the selection, if any, is
// inside [start, end) and the window fits the budget unless it is a single
// oversized entry.
func AssertWindow(t TB, visible []tree.Entry, budget, start, end, selected int, hasSelection bool) {
	t.Helper()
	if len(visible) == 0 {
		if start != 0 || end != 0 {
			t.Errorf("empty sequence: window = [%d,%d), want [0,0)", start, end)
		}
		return
	}
	if start < 0 || end > len(visible) || start >= end {
		t.Fatalf("window [%d,%d) out of range for %d entries", start, end, len(visible))
	}
	if hasSelection && (selected < start || selected >= end) {
		t.Errorf("selected %d not in window [%d,%d)", selected, start, end)
	}
	if h := tree.WindowHeight(visible, start, end); h > budget && end-start > 1 {
		t.Errorf("window [%d,%d) height %d exceeds budget %d", start, end, h, budget)
	}
}

package tree

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func sampleItems() []Item {
	return []Item{
		New(Text("R"),
			NewLeaf(Text("a")),
			New(Text("b"),
				NewLeaf(Text("c")),
			),
		),
	}
}

func label(it *Item) string {
	if it == nil {
		return "<nil>"
	}
	return it.Lines()[0]
}

func TestResolve(t *testing.T) {
	items := sampleItems()
	tests := []struct {
		id   Identifier
		want string
	}{
		{Identifier{0}, "R"},
		{Identifier{0, 0}, "a"},
		{Identifier{0, 1}, "b"},
		{Identifier{0, 1, 0}, "c"},
		{Identifier{}, "<nil>"},
		{Identifier{1}, "<nil>"},
		{Identifier{0, 2}, "<nil>"},
		{Identifier{0, 0, 0}, "<nil>"}, // exhausted against a leaf
		{Identifier{-1}, "<nil>"},
	}
	for _, tt := range tests {
		if got := label(Resolve(items, tt.id)); got != tt.want {
			t.Errorf("Resolve(%v) = %s, want %s", tt.id, got, tt.want)
		}
	}
}

func TestResolveWritesThrough(t *testing.T) {
	items := sampleItems()
	Resolve(items, Identifier{0, 1, 0}).SetPayload(Text("changed"))
	if got := items[0].Children()[1].Children()[0].Lines()[0]; got != "changed" {
		t.Errorf("payload = %q, want changed", got)
	}
}

func TestItemChildren(t *testing.T) {
	root := New(Text("root"))
	root.AddChild(NewLeaf(Text("x")))
	root.AddChild(NewLeaf(Text("y")))
	if root.ChildCount() != 2 {
		t.Fatalf("ChildCount = %d, want 2", root.ChildCount())
	}
	if label(root.Child(1)) != "y" {
		t.Errorf("Child(1) = %s, want y", label(root.Child(1)))
	}
	if root.Child(2) != nil || root.Child(-1) != nil {
		t.Error("out-of-range Child should be nil")
	}
}

func TestItemHeight(t *testing.T) {
	tests := []struct {
		item Item
		want int
	}{
		{NewLeaf(Text("one")), 1},
		{NewLeaf(Text("one\ntwo\nthree")), 3},
		{NewLeaf(Text("")), 1},
		{NewLeaf(zeroHeight{}), 1},
		{NewLeaf(nil), 1},
	}
	for i, tt := range tests {
		if got := tt.item.Height(); got != tt.want {
			t.Errorf("case %d: Height() = %d, want %d", i, got, tt.want)
		}
	}
}

type zeroHeight struct{}

func (zeroHeight) Lines() []string { return nil }
func (zeroHeight) RowHeight() int  { return 0 }

func TestItemWithStyle(t *testing.T) {
	style := lipgloss.NewStyle().Bold(true)
	it := NewLeaf(Text("x")).WithStyle(style)
	if !it.Style().GetBold() {
		t.Error("expected bold style")
	}
}

func TestCount(t *testing.T) {
	if got := Count(sampleItems()); got != 4 {
		t.Errorf("Count = %d, want 4", got)
	}
	if got := Count(nil); got != 0 {
		t.Errorf("Count(nil) = %d, want 0", got)
	}
}

func TestWalk(t *testing.T) {
	items := sampleItems()

	var keys, labels []string
	Walk(items, func(id Identifier, it *Item) bool {
		keys = append(keys, id.Key())
		labels = append(labels, label(it))
		return true
	})
	if got := strings.Join(keys, " "); got != "0 0.0 0.1 0.1.0" {
		t.Errorf("keys = %q", got)
	}
	if got := strings.Join(labels, ""); got != "Rabc" {
		t.Errorf("labels = %q", got)
	}

	visited := 0
	Walk(items, func(id Identifier, _ *Item) bool {
		visited++
		return id.Key() != "0.0"
	})
	if visited != 2 {
		t.Errorf("visited %d items, want 2 (stop after a)", visited)
	}
}

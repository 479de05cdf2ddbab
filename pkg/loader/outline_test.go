package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

const yamlOutline = `
title: Plan
items:
  - title: Design
    color: "212"
    note: |
      whiteboard first
      then prototype
    children:
      - title: Review
  - title: Ship
    bold: true
`

func TestParseOutline_YAML(t *testing.T) {
	doc, err := ParseOutline([]byte(yamlOutline), ".yaml")
	if err != nil {
		t.Fatalf("ParseOutline failed: %v", err)
	}
	if doc.Title != "Plan" {
		t.Errorf("title = %q", doc.Title)
	}

	items := doc.Build()
	assertNames(t, items, "Design", "Ship")

	design := &items[0]
	if h := design.Height(); h != 3 {
		t.Errorf("Design height = %d, want 3 (title + two note lines)", h)
	}
	if got := design.Lines(); got[1] != "whiteboard first" || got[2] != "then prototype" {
		t.Errorf("Design lines = %q", got)
	}
	if _, unset := design.Style().GetForeground().(lipgloss.NoColor); unset {
		t.Error("expected a foreground color on Design")
	}
	if !items[1].Style().GetBold() {
		t.Error("expected Ship to be bold")
	}

	review := tree.Resolve(items, tree.Identifier{0, 0})
	if review == nil || review.Lines()[0] != "Review" {
		t.Fatal("expected Review at [0 0]")
	}
}

func TestParseOutline_JSONList(t *testing.T) {
	data := []byte(`[{"title":"one","children":[{"title":"two"}]},{"title":"three"}]`)
	doc, err := ParseOutline(data, ".JSON")
	if err != nil {
		t.Fatalf("ParseOutline failed: %v", err)
	}
	if doc.Title != "" {
		t.Errorf("bare list should have no title, got %q", doc.Title)
	}
	items := doc.Build()
	assertNames(t, items, "one", "three")
	if tree.Count(items) != 3 {
		t.Errorf("Count = %d, want 3", tree.Count(items))
	}
}

func TestParseOutline_JSONDocumentWithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"title":"T","items":[{"title":"x"}]}`)...)
	doc, err := ParseOutline(data, ".json")
	if err != nil {
		t.Fatalf("ParseOutline failed: %v", err)
	}
	if doc.Title != "T" || len(doc.Nodes) != 1 {
		t.Errorf("unexpected outline %+v", doc)
	}
}

func TestParseOutline_Empty(t *testing.T) {
	doc, err := ParseOutline([]byte("title: x\n"), ".yaml")
	if err != nil {
		t.Fatalf("outline without items: %v", err)
	}
	if doc.Title != "x" || len(doc.Build()) != 0 {
		t.Errorf("unexpected outline %+v", doc)
	}

	doc, err = ParseOutline([]byte("[]"), ".json")
	if err != nil {
		t.Fatalf("empty list: %v", err)
	}
	if len(doc.Build()) != 0 {
		t.Errorf("expected no items, got %d", len(doc.Build()))
	}
}

func TestLoad_EmptyOutline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("title: Nothing yet\nitems: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	res, err := Load(context.Background(), path, DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Title != "Nothing yet" || len(res.Items) != 0 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestParseOutline_Errors(t *testing.T) {
	if _, err := ParseOutline([]byte("a,b"), ".csv"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := ParseOutline([]byte("{not json"), ".json"); err == nil {
		t.Error("expected parse error")
	}
}

func TestTopic(t *testing.T) {
	tp := Topic{Title: "t"}
	if tp.RowHeight() != 1 {
		t.Errorf("RowHeight = %d, want 1", tp.RowHeight())
	}
	if tp.Describe() != "# t\n" {
		t.Errorf("Describe = %q", tp.Describe())
	}

	tp.Note = "a\nb\n"
	if tp.RowHeight() != 3 {
		t.Errorf("RowHeight = %d, want 3 (trailing newline ignored)", tp.RowHeight())
	}
}

func TestLoad_Dispatch(t *testing.T) {
	dir := t.TempDir()
	outline := filepath.Join(dir, "plan.yml")
	if err := os.WriteFile(outline, []byte(yamlOutline), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Load(context.Background(), outline, DefaultOptions())
	if err != nil {
		t.Fatalf("Load(outline) failed: %v", err)
	}
	if res.IsDir || res.Title != "Plan" || len(res.Items) != 2 {
		t.Errorf("unexpected outline result %+v", res)
	}

	res, err = Load(context.Background(), dir, DefaultOptions())
	if err != nil {
		t.Fatalf("Load(dir) failed: %v", err)
	}
	if !res.IsDir || res.Title != filepath.Base(dir) {
		t.Errorf("unexpected dir result %+v", res)
	}
	assertNames(t, res.Items, "plan.yml")

	if _, err := Load(context.Background(), filepath.Join(dir, "nope.yaml"), DefaultOptions()); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestOptionsFromConfigDefaultsWorkers(t *testing.T) {
	opts := DefaultOptions()
	if opts.Workers != 4 || !opts.DirsFirst || opts.MaxDepth != 6 {
		t.Errorf("unexpected defaults %+v", opts)
	}
}

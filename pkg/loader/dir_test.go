package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// writeTree creates files (and their parent directories) under root.
// Paths ending in "/" create empty directories.
func writeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if strings.HasSuffix(p, "/") {
			if err := os.MkdirAll(full, 0o755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func names(items []tree.Item) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].Lines()[0]
	}
	return out
}

func assertNames(t *testing.T, items []tree.Item, want ...string) {
	t.Helper()
	got := names(items)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("names = %v, want %v", got, want)
	}
}

func TestLoadDir_Structure(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "b.txt", "A.md", "src/main.go", "src/util/str.go", "docs/")

	opts := DefaultOptions()
	items, err := LoadDir(context.Background(), root, opts)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}

	assertNames(t, items, "docs/", "src/", "A.md", "b.txt")
	if items[0].ChildCount() != 0 {
		t.Errorf("docs should be empty, got %d children", items[0].ChildCount())
	}
	assertNames(t, items[1].Children(), "util/", "main.go")

	util := tree.Resolve(items, tree.Identifier{1, 0})
	if util == nil {
		t.Fatal("expected src/util at [1 0]")
	}
	assertNames(t, util.Children(), "str.go")

	fe, ok := items[3].Payload().(FileEntry)
	if !ok {
		t.Fatalf("payload type %T, want FileEntry", items[3].Payload())
	}
	if fe.IsDir || fe.Size != 1 || fe.Path != filepath.Join(root, "b.txt") {
		t.Errorf("unexpected entry %+v", fe)
	}
}

func TestLoadDir_MixedOrderWithoutDirsFirst(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "b/", "a.txt", "c.txt")

	opts := DefaultOptions()
	opts.DirsFirst = false
	items, err := LoadDir(context.Background(), root, opts)
	if err != nil {
		t.Fatal(err)
	}
	assertNames(t, items, "a.txt", "b/", "c.txt")
}

func TestLoadDir_HiddenAndIgnored(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, ".env", ".git/HEAD", "node_modules/x/index.js", "main.go")

	items, err := LoadDir(context.Background(), root, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	assertNames(t, items, "main.go")

	opts := DefaultOptions()
	opts.ShowHidden = true
	opts.Ignore = nil
	items, err = LoadDir(context.Background(), root, opts)
	if err != nil {
		t.Fatal(err)
	}
	assertNames(t, items, ".git/", "node_modules/", ".env", "main.go")
}

func TestLoadDir_MaxDepth(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/b/c/d.txt")

	opts := DefaultOptions()
	opts.MaxDepth = 2
	items, err := LoadDir(context.Background(), root, opts)
	if err != nil {
		t.Fatal(err)
	}

	b := tree.Resolve(items, tree.Identifier{0, 0})
	if b == nil {
		t.Fatal("expected a/b")
	}
	if b.ChildCount() != 0 {
		t.Errorf("a/b should not be descended into at depth 2, got %d children", b.ChildCount())
	}

	opts.MaxDepth = 0
	items, err = LoadDir(context.Background(), root, opts)
	if err != nil {
		t.Fatal(err)
	}
	if tree.Resolve(items, tree.Identifier{0, 0, 0, 0}) == nil {
		t.Error("unlimited depth should reach a/b/c/d.txt")
	}
}

func TestLoadDir_SingleWorker(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/1", "b/2", "c/3", "d/4")

	opts := DefaultOptions()
	opts.Workers = 1
	items, err := LoadDir(context.Background(), root, opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := tree.Count(items); got != 8 {
		t.Errorf("Count = %d, want 8", got)
	}
}

func TestLoadDir_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/b/c.txt")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadDir(ctx, root, DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoadDir_NotADirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "file.txt")

	if _, err := LoadDir(context.Background(), filepath.Join(root, "file.txt"), DefaultOptions()); err == nil {
		t.Fatal("expected error for a regular file")
	}
	if _, err := LoadDir(context.Background(), filepath.Join(root, "missing"), DefaultOptions()); err == nil {
		t.Fatal("expected error for a missing path")
	}
}

func TestFileEntry_Describe(t *testing.T) {
	f := FileEntry{Name: "big.bin", Path: "/tmp/big.bin", Size: 3 * 1024 * 1024}
	desc := f.Describe()
	if !strings.Contains(desc, "# big.bin") || !strings.Contains(desc, "3.0 MiB") {
		t.Errorf("unexpected description:\n%s", desc)
	}

	d := FileEntry{Name: "src", Path: "/tmp/src", IsDir: true}
	if !strings.Contains(d.Describe(), "directory") {
		t.Errorf("directory description missing type:\n%s", d.Describe())
	}
	if d.Lines()[0] != "src/" {
		t.Errorf("dir line = %q", d.Lines()[0])
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 30, "1.0 GiB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.n); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/debug"
	"github.com/vanderheijden86/treeview/pkg/loader"
	"github.com/vanderheijden86/treeview/pkg/testutil"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

func TestParseFlags(t *testing.T) {
	o, err := parseFlags(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if o.path != "." || o.print || o.noWatch {
		t.Errorf("unexpected defaults %+v", o)
	}

	o, err = parseFlags([]string{"--print", "--width", "30", "--select", "0.1", "docs"}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if !o.print || o.width != 30 || o.selectKey != "0.1" || o.path != "docs" {
		t.Errorf("unexpected options %+v", o)
	}

	tests := [][]string{
		{"a", "b"},
		{"--width", "-1"},
		{"--bogus"},
	}
	for _, args := range tests {
		if _, err := parseFlags(args, io.Discard); err == nil {
			t.Errorf("parseFlags(%v) should fail", args)
		}
	}
}

func TestInitialState(t *testing.T) {
	items := testutil.Sample()

	s := initialState(items, cliOptions{})
	testutil.AssertSelected(t, s, tree.Identifier{0})

	s = initialState(items, cliOptions{selectKey: "0.1.0"})
	testutil.AssertSelected(t, s, tree.Identifier{0, 1, 0})
	if !s.IsOpen(tree.Identifier{0}) || !s.IsOpen(tree.Identifier{0, 1}) {
		t.Error("ancestors of --select should be open")
	}

	s = initialState(items, cliOptions{selectKey: "4.4"})
	testutil.AssertSelected(t, s, tree.Identifier{0})

	s = initialState(items, cliOptions{openAll: true})
	if len(s.Visible(items)) != 4 {
		t.Errorf("--open-all should show every node, got %d", len(s.Visible(items)))
	}
}

func TestFrameSize(t *testing.T) {
	// A regular file is not a terminal, so the fallback applies.
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w, h := frameSize(cliOptions{}, int(f.Fd()))
	if w != 80 || h != 24 {
		t.Errorf("fallback size = %dx%d", w, h)
	}
	w, h = frameSize(cliOptions{width: 20, height: 5}, int(f.Fd()))
	if w != 20 || h != 5 {
		t.Errorf("explicit size = %dx%d", w, h)
	}
}

func TestRenderFrameFromDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "src", "main.go"), []byte("package main\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# hi\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.UI.Border = false
	res, err := loader.Load(context.Background(), dir, loader.OptionsFromConfig(cfg.Loader))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := initialState(res.Items, cliOptions{openAll: true})

	out := ansi.Strip(renderFrame(lipgloss.NewRenderer(io.Discard), cfg, res, s, 30, 4))
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	want := []string{">> ▼ src/", "       main.go", "     README.md", ""}
	for i, w := range want {
		if got := strings.TrimRight(lines[i], " "); got != w {
			t.Errorf("line %d = %q, want %q", i, got, w)
		}
	}
}

func TestReloadFunc(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte("items:\n  - title: one\n"), 0644); err != nil {
		t.Fatal(err)
	}
	load := reloadFunc(path, config.DefaultConfig())

	res, err := load(context.Background())
	if err != nil || len(res.Items) != 1 {
		t.Fatalf("first load: %v, %d items", err, len(res.Items))
	}

	if err := os.WriteFile(path, []byte("items:\n  - title: one\n  - title: two\n"), 0644); err != nil {
		t.Fatal(err)
	}
	res, err = load(context.Background())
	if err != nil || len(res.Items) != 2 {
		t.Fatalf("reload: %v, %d items", err, len(res.Items))
	}
}

func TestLoadConfigFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ui: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	var stderr bytes.Buffer
	cfg := loadConfig(path, &stderr)
	if cfg.UI.HighlightSymbol != config.DefaultConfig().UI.HighlightSymbol {
		t.Error("invalid config should fall back to defaults")
	}
	if !strings.Contains(stderr.String(), "using defaults") {
		t.Errorf("expected a warning, got %q", stderr.String())
	}
}

func TestRunExitCodes(t *testing.T) {
	var stdout, stderr bytes.Buffer

	if code := run([]string{"--version"}, &stdout, &stderr); code != 0 {
		t.Errorf("--version exit = %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "tv v") {
		t.Errorf("--version printed %q", stdout.String())
	}

	if code := run([]string{"--bogus"}, io.Discard, io.Discard); code != 2 {
		t.Errorf("bad flag exit = %d, want 2", code)
	}
	if code := run([]string{"-h"}, io.Discard, io.Discard); code != 0 {
		t.Errorf("-h exit = %d, want 0", code)
	}

	missing := filepath.Join(t.TempDir(), "missing")
	stderr.Reset()
	if code := run([]string{missing}, io.Discard, &stderr); code != 1 {
		t.Errorf("missing path exit = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Error loading") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunPrint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte("items:\n  - title: one\n  - title: two\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("ui:\n  border: false\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	args := []string{"--print", "--config", cfgPath, "--width", "20", "--height", "3", "--select", "1", path}
	if code := run(args, &stdout, io.Discard); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	lines := strings.Split(strings.TrimSuffix(ansi.Strip(stdout.String()), "\n"), "\n")
	want := []string{"     one", ">>   two", ""}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines:\n%s", len(lines), stdout.String())
	}
	for i, w := range want {
		if got := strings.TrimRight(lines[i], " "); got != w {
			t.Errorf("line %d = %q, want %q", i, got, w)
		}
	}
}

func TestRunFlushesMetricsOnError(t *testing.T) {
	var buf bytes.Buffer
	debug.SetEnabled(true)
	debug.SetOutput(&buf)
	t.Cleanup(func() {
		debug.SetEnabled(false)
		debug.SetOutput(nil)
	})

	missing := filepath.Join(t.TempDir(), "missing")
	if code := run([]string{missing}, io.Discard, io.Discard); code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.Contains(buf.String(), "metrics") {
		t.Errorf("metrics snapshot not logged on the error path:\n%s", buf.String())
	}
}

// Package loader builds tree items from a directory or an outline document.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/debug"
	"github.com/vanderheijden86/treeview/pkg/metrics"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// ErrUnsupportedFormat is returned for outline files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported outline format")

// Options controls directory scans.
type Options struct {
	MaxDepth   int      // levels below the root to include; 0 means unlimited
	ShowHidden bool     // include dot-files
	DirsFirst  bool     // sort directories before files
	Workers    int      // concurrent top-level subtree scans
	Ignore     []string // base names to skip
}

// DefaultOptions mirrors config.DefaultConfig().Loader.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig().Loader)
}

// OptionsFromConfig converts the loader section of the config file.
func OptionsFromConfig(c config.LoaderConfig) Options {
	workers := c.Workers
	if workers <= 0 {
		workers = 4
	}
	return Options{
		MaxDepth:   c.MaxDepth,
		ShowHidden: c.ShowHidden,
		DirsFirst:  c.DirsFirst,
		Workers:    workers,
		Ignore:     append([]string(nil), c.Ignore...),
	}
}

// Result is what Load produced for a path.
type Result struct {
	Path  string
	Title string
	IsDir bool
	Items []tree.Item
}

// Load builds items for path: directories are scanned with LoadDir, files
// are parsed as outline documents.
func Load(ctx context.Context, path string, opts Options) (Result, error) {
	defer metrics.Timer(metrics.TreeLoad)()
	start := time.Now()
	defer func() { debug.LogTiming("loader.Load "+path, time.Since(start)) }()

	abs, err := filepath.Abs(path)
	if err != nil {
		return Result{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Result{}, fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		items, err := LoadDir(ctx, abs, opts)
		if err != nil {
			return Result{}, err
		}
		return Result{Path: abs, Title: filepath.Base(abs), IsDir: true, Items: items}, nil
	}

	doc, err := LoadOutline(abs)
	if err != nil {
		return Result{}, err
	}
	title := doc.Title
	if title == "" {
		title = filepath.Base(abs)
	}
	return Result{Path: abs, Title: title, Items: doc.Build()}, nil
}

// stripBOM removes the UTF-8 Byte Order Mark if present
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

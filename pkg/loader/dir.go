package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/treeview/pkg/debug"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// LoadDir scans root and returns one item per entry, directories carrying
// their contents as children. Top-level subdirectories are scanned
// concurrently, bounded by opts.Workers. Unreadable subdirectories become
// childless items rather than failing the whole scan.
func LoadDir(ctx context.Context, root string, opts Options) ([]tree.Item, error) {
	defer debug.LogEnterExit("loader.LoadDir")()

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	entries, err := readDir(root, opts)
	if err != nil {
		return nil, err
	}

	items := make([]tree.Item, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	// Limit concurrency to avoid exhausting file descriptors on wide trees
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, e := range entries {
		if !e.IsDir {
			items[i] = tree.NewLeaf(e)
			continue
		}
		g.Go(func() error {
			children, err := scan(ctx, e.Path, 1, opts)
			if err != nil {
				return err
			}
			items[i] = tree.New(e, children...)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return items, nil
}

func scan(ctx context.Context, dir string, depth int, opts Options) ([]tree.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return nil, nil
	}

	entries, err := readDir(dir, opts)
	if err != nil {
		debug.Log("loader: skipping %s: %v", dir, err)
		return nil, nil
	}

	items := make([]tree.Item, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir {
			items = append(items, tree.NewLeaf(e))
			continue
		}
		children, err := scan(ctx, e.Path, depth+1, opts)
		if err != nil {
			return nil, err
		}
		items = append(items, tree.New(e, children...))
	}
	return items, nil
}

// readDir lists dir, applying the hidden and ignore filters and sorting.
// Symlinks are reported but never followed.
func readDir(dir string, opts Options) ([]FileEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	out := make([]FileEntry, 0, len(dirEntries))
	for _, d := range dirEntries {
		name := d.Name()
		if !opts.ShowHidden && isHidden(name) {
			continue
		}
		if slices.Contains(opts.Ignore, name) {
			continue
		}
		e := FileEntry{
			Name:  name,
			Path:  filepath.Join(dir, name),
			IsDir: d.IsDir(),
		}
		if info, err := d.Info(); err == nil {
			e.Size = info.Size()
			e.ModTime = info.ModTime()
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if opts.DirsFirst && out[i].IsDir != out[j].IsDir {
			return out[i].IsDir
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

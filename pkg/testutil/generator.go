// Package testutil provides deterministic tree fixtures for tests.
// All generators produce the same forest for the same seed.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// GeneratorConfig controls tree generation.
type GeneratorConfig struct {
	Seed        int64 // Random seed for determinism (0 = 42)
	MaxDepth    int   // Deepest level generated (default 4)
	MaxChildren int   // Upper bound on children per node (default 4)
	MaxHeight   int   // Upper bound on payload lines (default 1 = single-line)
	LabelPrefix string
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:        42,
		MaxDepth:    4,
		MaxChildren: 4,
		MaxHeight:   1,
		LabelPrefix: "n",
	}
}

// Generator creates tree fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 4
	}
	if cfg.MaxChildren <= 0 {
		cfg.MaxChildren = 4
	}
	if cfg.MaxHeight <= 0 {
		cfg.MaxHeight = 1
	}
	if cfg.LabelPrefix == "" {
		cfg.LabelPrefix = "n"
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Forest generates roots random trees. Labels encode the node's path, so
// "n1.0" is the first child of the second root.
func (g *Generator) Forest(roots int) []tree.Item {
	items := make([]tree.Item, roots)
	for i := range items {
		items[i] = g.node(tree.Identifier{i}, 0)
	}
	return items
}

func (g *Generator) node(id tree.Identifier, depth int) tree.Item {
	label := g.cfg.LabelPrefix + id.Key()
	if h := g.rng.Intn(g.cfg.MaxHeight) + 1; h > 1 {
		lines := make([]string, h)
		lines[0] = label
		for i := 1; i < h; i++ {
			lines[i] = fmt.Sprintf("  line %d", i)
		}
		label = strings.Join(lines, "\n")
	}
	item := tree.NewLeaf(tree.Text(label))
	if depth >= g.cfg.MaxDepth {
		return item
	}
	for i := range g.rng.Intn(g.cfg.MaxChildren + 1) {
		item.AddChild(g.node(id.Child(i), depth+1))
	}
	return item
}

// Chain creates a single path of the given depth: n0 > n0.0 > n0.0.0 ...
func Chain(depth int) []tree.Item {
	if depth <= 0 {
		return nil
	}
	var build func(id tree.Identifier) tree.Item
	build = func(id tree.Identifier) tree.Item {
		item := tree.NewLeaf(tree.Text("n" + id.Key()))
		if len(id) < depth {
			item.AddChild(build(id.Child(0)))
		}
		return item
	}
	return []tree.Item{build(tree.Identifier{0})}
}

// Flat creates n single-line roots labelled r0..r{n-1}.
func Flat(n int) []tree.Item {
	items := make([]tree.Item, n)
	for i := range items {
		items[i] = tree.NewLeaf(tree.Text(fmt.Sprintf("r%d", i)))
	}
	return items
}

// Sample returns the small tree used throughout the tests:
//
//	R
//	├── a
//	└── b
//	    └── c
func Sample() []tree.Item {
	return []tree.Item{
		tree.New(tree.Text("R"),
			tree.NewLeaf(tree.Text("a")),
			tree.New(tree.Text("b"),
				tree.NewLeaf(tree.Text("c")),
			),
		),
	}
}

// Reachable counts nodes reachable from the roots by descending only through
// opened nodes. It walks the whole forest, unlike tree.Flatten.
func Reachable(opened tree.Set, items []tree.Item) int {
	var count func(level []tree.Item, parent tree.Identifier, visible bool) int
	count = func(level []tree.Item, parent tree.Identifier, visible bool) int {
		n := 0
		for i := range level {
			id := parent.Child(i)
			if visible {
				n++
			}
			n += count(level[i].Children(), id, visible && opened.Has(id))
		}
		return n
	}
	return count(items, nil, true)
}

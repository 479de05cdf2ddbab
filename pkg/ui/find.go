package ui

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/vanderheijden86/treeview/pkg/metrics"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// findState tracks the incremental find bar. Matches cover every node,
// collapsed or not; jumping to one opens its ancestors.
type findState struct {
	active  bool // the bar is taking input
	query   string
	matches []tree.Identifier
	index   int
}

// labelSource adapts a flattened forest to fuzzy.Source.
type labelSource struct {
	ids    []tree.Identifier
	labels []string
}

func (s labelSource) String(i int) string { return s.labels[i] }
func (s labelSource) Len() int            { return len(s.labels) }

func collectLabels(items []tree.Item) labelSource {
	var src labelSource
	tree.Walk(items, func(id tree.Identifier, it *tree.Item) bool {
		src.ids = append(src.ids, id)
		src.labels = append(src.labels, strings.Join(it.Lines(), " "))
		return true
	})
	return src
}

// findMatches returns the identifiers whose text fuzzily matches query,
// best match first.
func findMatches(items []tree.Item, query string) []tree.Identifier {
	if query == "" {
		return nil
	}
	defer metrics.Timer(metrics.FindSearch)()
	src := collectLabels(items)
	results := fuzzy.FindFrom(query, src)
	ids := make([]tree.Identifier, len(results))
	for i, r := range results {
		ids[i] = src.ids[r.Index]
	}
	return ids
}

func (m *Model) startFind() {
	m.find = findState{active: true}
}

func (m *Model) clearFind() {
	m.find = findState{}
}

func (m *Model) findAddRunes(rs []rune) {
	m.find.query += string(rs)
	m.runFind()
}

func (m *Model) findBackspace() {
	if q := []rune(m.find.query); len(q) > 0 {
		m.find.query = string(q[:len(q)-1])
	}
	m.runFind()
}

func (m *Model) runFind() {
	m.find.matches = findMatches(m.items, m.find.query)
	m.find.index = 0
	if len(m.find.matches) > 0 {
		m.jumpTo(m.find.matches[0])
	}
}

func (m *Model) nextMatch(delta int) {
	n := len(m.find.matches)
	if n == 0 {
		return
	}
	m.find.index = ((m.find.index+delta)%n + n) % n
	m.jumpTo(m.find.matches[m.find.index])
}

// jumpTo opens the ancestors of id and selects it.
func (m *Model) jumpTo(id tree.Identifier) {
	m.state.Reveal(id)
	m.state.Select(id)
}

func (m Model) renderFindBar() string {
	info := ""
	switch {
	case len(m.find.matches) > 0:
		info = fmt.Sprintf(" [%d/%d]", m.find.index+1, len(m.find.matches))
	case m.find.query != "":
		info = " [no matches]"
	}
	return m.theme.FindBar.Render(fmt.Sprintf("/%s%s", m.find.query, info))
}

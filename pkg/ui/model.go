// Package ui renders tree navigation state and hosts it in a bubbletea
// program.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/debug"
	"github.com/vanderheijden86/treeview/pkg/loader"
	"github.com/vanderheijden86/treeview/pkg/tree"
	"github.com/vanderheijden86/treeview/pkg/watcher"
)

// FileChangedMsg is sent when the watched path changes on disk.
type FileChangedMsg struct{}

// ReloadedMsg carries the result of rebuilding the items.
type ReloadedMsg struct {
	Result loader.Result
	Err    error
}

// LoadFunc rebuilds the items shown by the model.
type LoadFunc func(ctx context.Context) (loader.Result, error)

// WatchFileCmd returns a command that waits for a change and sends FileChangedMsg.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// ReloadCmd runs fn off the update loop and reports the result.
func ReloadCmd(fn LoadFunc) tea.Cmd {
	return func() tea.Msg {
		res, err := fn(context.Background())
		return ReloadedMsg{Result: res, Err: err}
	}
}

// copier lets a payload choose what the copy command puts on the clipboard.
type copier interface {
	CopyText() string
}

// Option configures a Model.
type Option func(*Model)

// WithTheme replaces the default theme.
func WithTheme(t Theme) Option {
	return func(m *Model) { m.theme = t }
}

// WithConfig applies ui and key settings.
func WithConfig(cfg config.Config) Option {
	return func(m *Model) { m.cfg = cfg }
}

// WithTitle sets the border title used when the config has none.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithLoader enables reloading through fn.
func WithLoader(fn LoadFunc) Option {
	return func(m *Model) { m.loadFn = fn }
}

// WithWatcher reloads whenever w reports a change. Requires WithLoader.
func WithWatcher(w *watcher.Watcher) Option {
	return func(m *Model) { m.watcher = w }
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(fn func(string) error) Option {
	return func(m *Model) { m.copyFn = fn }
}

// WithPreviewStyle selects a glamour style by name ("dark", "light",
// "notty", ...). The default detects the terminal background.
func WithPreviewStyle(name string) Option {
	return func(m *Model) { m.previewStyle = name }
}

// WithState resumes an existing navigation state.
func WithState(s *tree.State) Option {
	return func(m *Model) { m.state = s }
}

// Model is the bubbletea model of one tree session. All navigation happens
// on the update goroutine.
type Model struct {
	theme   Theme
	cfg     config.Config
	widget  Widget
	keys    KeyMap
	help    help.Model
	state   *tree.State
	items   []tree.Item
	title   string
	loadFn  LoadFunc
	watcher *watcher.Watcher
	copyFn  func(string) error

	width  int
	height int

	showPreview  bool
	previewPct   int
	previewStyle string
	preview      *previewCache

	find findState

	showHelp      bool
	statusMsg     string
	statusIsError bool
	quitting      bool
}

// NewModel creates a model showing items. The first root is selected unless
// a state with a selection was supplied.
func NewModel(items []tree.Item, opts ...Option) Model {
	m := Model{
		theme:        DefaultTheme(lipgloss.DefaultRenderer()),
		cfg:          config.DefaultConfig(),
		state:        tree.NewState(),
		items:        items,
		copyFn:       clipboard.WriteAll,
		width:        80,
		height:       24,
		previewStyle: "auto",
		preview:      &previewCache{},
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.widget = NewWidget(m.theme).WithConfig(m.cfg.UI)
	if m.widget.Title == "" {
		m.widget.Title = m.title
	}
	m.keys = KeyMapFromConfig(m.cfg.Keys)
	m.help = help.New()
	m.help.Width = m.width
	m.showPreview = m.cfg.UI.Preview
	m.previewPct = m.cfg.UI.PreviewWidth
	if m.previewPct <= 0 {
		m.previewPct = 40
	}

	if !m.state.HasSelection() {
		m.state.SelectFirst(m.items)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil && m.loadFn != nil {
		return WatchFileCmd(m.watcher)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case FileChangedMsg:
		var cmds []tea.Cmd
		if m.loadFn != nil {
			cmds = append(cmds, ReloadCmd(m.loadFn))
		}
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case ReloadedMsg:
		if msg.Err != nil {
			debug.Log("ui: reload failed: %v", msg.Err)
			m.setStatus(fmt.Sprintf("Reload error: %v", msg.Err), true)
			return m, nil
		}
		m.SetItems(msg.Result.Items)
		m.setStatus(fmt.Sprintf("Reloaded %d items", tree.Count(m.items)), false)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// SetItems swaps in a rebuilt tree. The selection and opened set are kept
// as they are; identifiers that no longer resolve are tolerated.
func (m *Model) SetItems(items []tree.Item) {
	m.items = items
	if !m.state.HasSelection() {
		m.state.SelectFirst(items)
	}
	if m.find.query != "" {
		m.find.matches = findMatches(items, m.find.query)
		if m.find.index >= len(m.find.matches) {
			m.find.index = 0
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Find mode: forward input to the find bar
	if m.find.active {
		switch msg.Type {
		case tea.KeyEsc:
			m.clearFind()
		case tea.KeyEnter:
			m.find.active = false
		case tea.KeyBackspace:
			m.findBackspace()
		case tea.KeySpace:
			m.findAddRunes([]rune{' '})
		case tea.KeyRunes:
			m.findAddRunes(msg.Runes)
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	m.statusMsg, m.statusIsError = "", false

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.state.MoveUp(m.items)
	case key.Matches(msg, m.keys.Down):
		m.state.MoveDown(m.items)
	case key.Matches(msg, m.keys.Left):
		m.state.MoveLeft()
	case key.Matches(msg, m.keys.Right):
		m.state.MoveRight()
	case key.Matches(msg, m.keys.Toggle):
		m.state.ToggleSelected()
	case key.Matches(msg, m.keys.First):
		m.state.SelectFirst(m.items)
	case key.Matches(msg, m.keys.Last):
		m.state.SelectLast(m.items)
	case key.Matches(msg, m.keys.PageUp):
		m.state.MovePageUp(m.items, m.pageSize())
	case key.Matches(msg, m.keys.PageDown):
		m.state.MovePageDown(m.items, m.pageSize())
	case key.Matches(msg, m.keys.OpenAll):
		m.state.OpenAll(m.items)
	case key.Matches(msg, m.keys.CloseAll):
		m.state.CloseAll()
	case key.Matches(msg, m.keys.Copy):
		m.copySelected()
	case key.Matches(msg, m.keys.Preview):
		m.showPreview = !m.showPreview
	case key.Matches(msg, m.keys.Find):
		m.startFind()
	case key.Matches(msg, m.keys.NextMatch):
		m.nextMatch(1)
	case key.Matches(msg, m.keys.PrevMatch):
		m.nextMatch(-1)
	case key.Matches(msg, m.keys.Reload):
		if m.loadFn == nil {
			m.setStatus("Reload unavailable", true)
			return m, nil
		}
		m.setStatus("Reloading…", false)
		return m, ReloadCmd(m.loadFn)
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}
	return m, nil
}

// pageSize is the number of entries a page move skips: the rows available
// to the tree.
func (m Model) pageSize() int {
	h := m.treeHeight()
	if m.widget.Border {
		h -= 2
	}
	return max(h, 1)
}

func (m *Model) copySelected() {
	it := m.state.SelectedItem(m.items)
	if it == nil {
		m.setStatus("Nothing selected", true)
		return
	}
	text := strings.Join(it.Lines(), "\n")
	if c, ok := it.Payload().(copier); ok {
		text = c.CopyText()
	}
	if err := m.copyFn(text); err != nil {
		debug.Log("ui: clipboard write failed: %v", err)
		m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Copied %s", truncateRunesHelper(firstLine(text), 40, "…")), false)
}

func (m *Model) setStatus(msg string, isError bool) {
	m.statusMsg = msg
	m.statusIsError = isError
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// State exposes the navigation state.
func (m Model) State() *tree.State { return m.state }

// Items returns the current tree.
func (m Model) Items() []tree.Item { return m.items }

// Status returns the status line text and whether it reports an error.
func (m Model) Status() (string, bool) { return m.statusMsg, m.statusIsError }

// FindQuery returns the find bar query and whether it is taking input.
func (m Model) FindQuery() (string, bool) { return m.find.query, m.find.active }

// PreviewVisible reports whether the preview pane is shown.
func (m Model) PreviewVisible() bool { return m.showPreview }

func (m Model) footer() string {
	var line string
	switch {
	case m.find.active || m.find.query != "":
		line = m.renderFindBar()
	case m.statusMsg != "" && m.statusIsError:
		line = m.theme.StatusError.Render(m.statusMsg)
	case m.statusMsg != "":
		line = m.theme.Status.Render(m.statusMsg)
	default:
		line = m.theme.Status.Render(m.position())
	}
	return line + "\n" + m.help.View(m.keys)
}

// position renders "selected/total" over the visible entries.
func (m Model) position() string {
	visible := m.state.Visible(m.items)
	if len(visible) == 0 {
		return "No entries"
	}
	idx, ok := m.state.SelectedIndex(visible)
	if !ok {
		return fmt.Sprintf("-/%d", len(visible))
	}
	return fmt.Sprintf("%d/%d", idx+1, len(visible))
}

func (m Model) treeHeight() int {
	return max(m.height-lipgloss.Height(m.footer()), 1)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	footer := m.footer()
	mainH := max(m.height-lipgloss.Height(footer), 1)

	treeW := m.width
	var preview string
	if m.showPreview && m.width >= 20 {
		pw := m.width * m.previewPct / 100
		treeW = m.width - pw
		preview = m.renderPreview(pw, mainH)
	}

	body := m.widget.Render(m.state, m.items, treeW, mainH)
	if preview != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, preview)
	}
	return body + "\n" + footer
}

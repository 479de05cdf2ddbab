package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/vanderheijden86/treeview/pkg/config"
)

// KeyMap lists every command of the tree view.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Toggle    key.Binding
	First     key.Binding
	Last      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	OpenAll   key.Binding
	CloseAll  key.Binding
	Copy      key.Binding
	Preview   key.Binding
	Find      key.Binding
	NextMatch key.Binding
	PrevMatch key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "close/parent")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "open")),
		Toggle:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle")),
		First:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		Last:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
		PageUp:    key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("pgdn", "page down")),
		OpenAll:   key.NewBinding(key.WithKeys("+", "E"), key.WithHelp("+", "open all")),
		CloseAll:  key.NewBinding(key.WithKeys("-", "C"), key.WithHelp("-", "close all")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Preview:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		Find:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find")),
		NextMatch: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next match")),
		PrevMatch: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "prev match")),
		Reload:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// KeyMapFromConfig starts from DefaultKeyMap and replaces the keys of every
// command that has a non-empty list in c. Help text follows the first key.
func KeyMapFromConfig(c config.KeysConfig) KeyMap {
	km := DefaultKeyMap()
	override := func(b *key.Binding, keys []string) {
		if len(keys) == 0 {
			return
		}
		b.SetKeys(keys...)
		b.SetHelp(keys[0], b.Help().Desc)
	}
	override(&km.Up, c.Up)
	override(&km.Down, c.Down)
	override(&km.Left, c.Left)
	override(&km.Right, c.Right)
	override(&km.Toggle, c.Toggle)
	override(&km.First, c.First)
	override(&km.Last, c.Last)
	override(&km.PageUp, c.PageUp)
	override(&km.PageDown, c.PageDown)
	override(&km.OpenAll, c.OpenAll)
	override(&km.CloseAll, c.CloseAll)
	override(&km.Copy, c.Copy)
	override(&km.Preview, c.Preview)
	override(&km.Find, c.Find)
	override(&km.Reload, c.Reload)
	override(&km.Help, c.Help)
	override(&km.Quit, c.Quit)
	return km
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Toggle, k.Find, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.First, k.Last},
		{k.Left, k.Right, k.Toggle, k.OpenAll, k.CloseAll},
		{k.Find, k.NextMatch, k.PrevMatch, k.Copy, k.Preview},
		{k.Reload, k.Help, k.Quit},
	}
}

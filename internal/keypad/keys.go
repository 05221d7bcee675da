package keypad

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the non-calculator bindings of the keypad.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Press  key.Binding
	Equals key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns arrow-key navigation, space to press the highlighted
// button, enter for equals, and esc/ctrl+c to quit.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Press:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "press")),
		Equals: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "=")),
		Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k KeyMap) help() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Press, k.Equals, k.Quit}
}

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	RotateLeft  key.Binding
	RotateRight key.Binding
	TiltUp      key.Binding
	TiltDown    key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	NextSlider  key.Binding
	PrevSlider  key.Binding
	Decrease    key.Binding
	Increase    key.Binding
	Reset       key.Binding
	Fit         key.Binding
	Years       key.Binding
	Select      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up"), key.WithHelp("↑↓←→", "pan")),
		Down:        key.NewBinding(key.WithKeys("down")),
		Left:        key.NewBinding(key.WithKeys("left")),
		Right:       key.NewBinding(key.WithKeys("right")),
		RotateLeft:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+arrows", "rotate/tilt")),
		RotateRight: key.NewBinding(key.WithKeys("shift+right")),
		TiltUp:      key.NewBinding(key.WithKeys("shift+up")),
		TiltDown:    key.NewBinding(key.WithKeys("shift+down")),
		ZoomIn:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom")),
		ZoomOut:     key.NewBinding(key.WithKeys("-", "_")),
		NextSlider:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next slider")),
		PrevSlider:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev slider")),
		Decrease:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "decrease")),
		Increase:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "increase")),
		Reset:       key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset view")),
		Fit:         key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fit data")),
		Years:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "years")),
		Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pick year")),
		Help:        key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.ZoomIn, k.NextSlider, k.Decrease, k.Increase, k.Years, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.ZoomIn, k.RotateLeft, k.Reset, k.Fit},
		{k.NextSlider, k.PrevSlider, k.Decrease, k.Increase},
		{k.Years, k.Select, k.Help, k.Quit},
	}
}

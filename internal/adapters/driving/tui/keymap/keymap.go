// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the full key list.
	Help key.Binding

	// Back leaves a text input.
	Back key.Binding

	// Submit runs the analysis or sends feedback.
	Submit key.Binding

	// Open focuses the file path input.
	Open key.Binding

	// Method cycles the analysis method.
	Method key.Binding

	// Language cycles the output language.
	Language key.Binding

	// Classify proposes a classification.
	Classify key.Binding

	// Apply writes the proposed classification into the report.
	Apply key.Binding

	// Similar lists similar stored reports.
	Similar key.Binding

	// Feedback focuses the reviewer feedback input.
	Feedback key.Binding

	// Save stores the latest revision.
	Save key.Binding

	// Up and Down scroll the report.
	Up   key.Binding
	Down key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open pdf"),
		),
		Method: key.NewBinding(
			key.WithKeys("m", "tab"),
			key.WithHelp("m/tab", "method"),
		),
		Language: key.NewBinding(
			key.WithKeys("l", "shift+tab"),
			key.WithHelp("l/shift+tab", "language"),
		),
		Classify: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "classify"),
		),
		Apply: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "apply"),
		),
		Similar: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "similar"),
		),
		Feedback: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "feedback"),
		),
		Save: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "save final"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// InputHelp returns keybindings shown while typing.
func (k *KeyMap) InputHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Method, k.Back}
}

// ReportHelp returns keybindings shown while a report is displayed.
func (k *KeyMap) ReportHelp() []key.Binding {
	return []key.Binding{k.Classify, k.Apply, k.Similar, k.Feedback, k.Help, k.Quit}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Submit, k.Back},
		{k.Method, k.Language},
		{k.Classify, k.Apply, k.Similar},
		{k.Feedback, k.Save},
		{k.Up, k.Down, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}

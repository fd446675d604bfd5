// Package ui holds the interactive prompts.
package ui

import (
	"github.com/charmbracelet/huh"
)

// Option is one choice in a Select or MultiSelect prompt.
type Option struct {
	Label string
	Value string
}

// Prompter asks the user questions. Every method takes the default answer,
// which is what a non-interactive prompter returns.
type Prompter interface {
	Confirm(title string, def bool) (bool, error)
	Input(title, def string, validate func(string) error) (string, error)
	Select(title string, options []Option, def string) (string, error)
	MultiSelect(title string, options []Option, def []string) ([]string, error)
}

// Huh prompts on the terminal.
type Huh struct {
	theme *huh.Theme
}

// NewHuh returns a terminal prompter.
func NewHuh() *Huh {
	return &Huh{theme: huh.ThemeCharm()}
}

func (h *Huh) run(field huh.Field) error {
	return huh.NewForm(huh.NewGroup(field)).WithTheme(h.theme).Run()
}

// Confirm implements Prompter.
func (h *Huh) Confirm(title string, def bool) (bool, error) {
	result := def
	err := h.run(huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&result))
	return result, err
}

// Input implements Prompter.
func (h *Huh) Input(title, def string, validate func(string) error) (string, error) {
	result := def
	input := huh.NewInput().Title(title).Placeholder(def).Value(&result)
	if validate != nil {
		input = input.Validate(validate)
	}
	if err := h.run(input); err != nil {
		return "", err
	}
	if result == "" {
		result = def
	}
	return result, nil
}

func huhOptions(options []Option) []huh.Option[string] {
	out := make([]huh.Option[string], len(options))
	for i, o := range options {
		out[i] = huh.NewOption(o.Label, o.Value)
	}
	return out
}

// Select implements Prompter.
func (h *Huh) Select(title string, options []Option, def string) (string, error) {
	result := def
	err := h.run(huh.NewSelect[string]().Title(title).Options(huhOptions(options)...).Value(&result))
	return result, err
}

// MultiSelect implements Prompter.
func (h *Huh) MultiSelect(title string, options []Option, def []string) ([]string, error) {
	result := append([]string(nil), def...)
	err := h.run(huh.NewMultiSelect[string]().Title(title).Options(huhOptions(options)...).Value(&result))
	return result, err
}

// Defaults answers every prompt with its default. Used for --yes and when
// stdin is not a terminal.
type Defaults struct{}

// Confirm implements Prompter.
func (Defaults) Confirm(_ string, def bool) (bool, error) { return def, nil }

// Input implements Prompter.
func (Defaults) Input(_, def string, _ func(string) error) (string, error) { return def, nil }

// Select implements Prompter.
func (Defaults) Select(_ string, _ []Option, def string) (string, error) { return def, nil }

// MultiSelect implements Prompter.
func (Defaults) MultiSelect(_ string, _ []Option, def []string) ([]string, error) { return def, nil }

// For returns Defaults when assumeYes is set or the terminal is not
// interactive, and a terminal prompter otherwise.
func For(assumeYes, interactive bool) Prompter {
	if assumeYes || !interactive {
		return Defaults{}
	}
	return NewHuh()
}

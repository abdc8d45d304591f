package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// FormPrompter asks questions with huh forms. Wait falls back to the line
// protocol since there is nothing to choose.
type FormPrompter struct {
	ctx  context.Context
	line *LinePrompter
}

func (p *FormPrompter) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).WithTheme(huh.ThemeDracula())
	if err := form.RunWithContext(p.ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return fmt.Errorf("form: %w", err)
	}
	return nil
}

func indexOptions(options []string, selected func(int) bool) []huh.Option[int] {
	out := make([]huh.Option[int], len(options))
	for i, o := range options {
		out[i] = huh.NewOption(o, i).Selected(selected(i))
	}
	return out
}

// Select shows a single-choice list with def highlighted.
func (p *FormPrompter) Select(question string, options []string, def int) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("select %q: no options", question)
	}
	idx := def
	field := huh.NewSelect[int]().
		Title(question).
		Options(indexOptions(options, func(i int) bool { return i == def })...).
		Value(&idx)
	if err := p.run(field); err != nil {
		return "", err
	}
	return options[idx], nil
}

// MultiSelect shows a checklist with def preselected.
func (p *FormPrompter) MultiSelect(question string, options []string, def int) ([]string, error) {
	var picked []int
	field := huh.NewMultiSelect[int]().
		Title(question).
		Description("space to toggle, enter to confirm").
		Options(indexOptions(options, func(i int) bool { return i == def })...).
		Value(&picked)
	if err := p.run(field); err != nil {
		return nil, err
	}
	return Pick(options, picked), nil
}

// Input shows a text field with def as placeholder.
func (p *FormPrompter) Input(question, def string) (string, error) {
	var answer string
	field := huh.NewInput().
		Title(question).
		Placeholder(def).
		Value(&answer)
	if err := p.run(field); err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Wait delegates to the line protocol.
func (p *FormPrompter) Wait(message string) error {
	return p.line.Wait(message)
}

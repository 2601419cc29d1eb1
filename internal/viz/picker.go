package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Launcher builds a live model for a preset.
type Launcher func(preset string) (Model, error)

// Picker lists presets and hands the selected one to a live model. Esc in
// the live view returns to the list.
type Picker struct {
	presets  []string
	describe func(string) string
	launch   Launcher
	cursor   int
	live     *Model
	theme    Theme
	err      error
}

func NewPicker(presets []string, describe func(string) string, launch Launcher) Picker {
	if describe == nil {
		describe = func(string) string { return "" }
	}
	return Picker{presets: presets, describe: describe, launch: launch, theme: Themes[0]}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.live != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			p.live.Stop()
			p.theme = p.live.theme
			p.live = nil
			return p, nil
		}
		next, cmd := p.live.Update(msg)
		live := next.(Model)
		p.live = &live
		return p, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "t":
		p.theme = p.theme.next()
	case "enter", " ":
		if len(p.presets) == 0 {
			return p, nil
		}
		live, err := p.launch(p.presets[p.cursor])
		if err != nil {
			p.err = err
			return p, nil
		}
		live = live.WithTheme(p.theme)
		p.err = nil
		p.live = &live
		return p, live.Init()
	}
	return p, nil
}

// Selected returns the preset under the cursor.
func (p Picker) Selected() string {
	if len(p.presets) == 0 {
		return ""
	}
	return p.presets[p.cursor]
}

func (p Picker) View() string {
	if p.live != nil {
		return p.live.View()
	}

	pal := paletteFor(p.theme)
	var b strings.Builder
	b.WriteString("\n\n    " + GradientText("MOTION", p.theme.Secondary, p.theme.Primary) + "\n")
	b.WriteString("    " + pal.muted.Render("spring and tween animation engine") + "\n")
	b.WriteString("    " + Separator(33, p.theme) + "\n\n")
	for i, name := range p.presets {
		desc := p.describe(name)
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", pal.cursor.Render("▸"), pal.value.Bold(true).Render(fmt.Sprintf("%-12s", name)), pal.cursor.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", pal.muted.Render(fmt.Sprintf("%-12s", name)), pal.muted.Render(desc)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + pal.err.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + pal.cursor.Render("j/k") + pal.muted.Render(" navigate  ") +
		pal.cursor.Render("enter") + pal.muted.Render(" play  ") +
		pal.cursor.Render("t") + pal.muted.Render(" theme  ") +
		pal.cursor.Render("q") + pal.muted.Render(" quit") + "\n")
	return b.String()
}

// Run starts a full-screen program for m.
func Run(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

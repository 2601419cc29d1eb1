package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/motion/internal/anim"
)

// palette holds the styles derived from a theme.
type palette struct {
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	muted  lipgloss.Style
	graph  lipgloss.Style
	cursor lipgloss.Style
	err    lipgloss.Style
	panel  lipgloss.Style
	phases map[anim.Phase]lipgloss.Style
}

func paletteFor(t Theme) palette {
	bold := lipgloss.NewStyle().Bold(true)
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Muted).
		Padding(0, 1)
	phases := map[anim.Phase]lipgloss.Style{
		anim.Idle:      lipgloss.NewStyle().Foreground(t.Muted),
		anim.Delayed:   bold.Foreground(t.Warning),
		anim.Running:   bold.Foreground(t.Success),
		anim.Completed: bold.Foreground(t.Accent),
	}
	return palette{
		header: bold.Foreground(t.Secondary).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		muted:  lipgloss.NewStyle().Foreground(t.Muted),
		graph:  lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		cursor: bold.Foreground(t.Primary),
		err:    bold.Foreground(t.Error),
		panel:  panel,
		phases: phases,
	}
}

func (p palette) phase(ph anim.Phase) string {
	style, ok := p.phases[ph]
	if !ok {
		style = p.muted
	}
	return style.Render(strings.ToUpper(ph.String()))
}

// GradientText blends each rune from start to end in Lab space.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	from, err1 := colorful.Hex(string(start))
	to, err2 := colorful.Hex(string(end))
	if err1 != nil || err2 != nil {
		return text
	}

	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := lipgloss.Color(from.BlendLab(to, t).Clamped().Hex())
		b.WriteString(lipgloss.NewStyle().Foreground(c).Render(string(r)))
	}
	return b.String()
}

// ProgressBar renders fraction in [0, 1] as a bar of width cells. Overshoot
// past 1 is drawn full.
func ProgressBar(fraction float64, width int, t Theme) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(filled, width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	color := t.Error
	switch {
	case fraction > 0.8:
		color = t.Success
	case fraction > 0.4:
		color = t.Warning
	}
	return lipgloss.NewStyle().Foreground(color).Render(bar)
}

// Sparkline renders values scaled to their own range, sampling to fit width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := max(len(values)/width, 1)
	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		idx := int((values[i*step] - lo) / rng * float64(len(chars)-1))
		b.WriteRune(chars[max(0, min(idx, len(chars)-1))])
	}
	return b.String()
}

// Swatch is a block of width x height cells filled with the hex color. Alpha
// is ignored.
func Swatch(hex string, width, height int) string {
	if len(hex) > 7 {
		hex = hex[:7]
	}
	row := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render(strings.Repeat(" ", width))
	rows := make([]string, height)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}

func Separator(width int, t Theme) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return lipgloss.NewStyle().Foreground(t.Muted).Render(left + " ◆ " + right)
}

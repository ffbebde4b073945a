package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"DigitBoard/internal/state"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	digitStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 2)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("9")).Padding(0, 1)
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	topBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// barCells is the width of a 100% bar in terminal cells.
const barCells = 40

// Terminal renders v for a terminal.
func Terminal(v View) string {
	var parts []string
	switch v.Kind {
	case state.KindResult:
		parts = append(parts,
			titleStyle.Render("Prediction Result"),
			fmt.Sprintf("%s  Confidence: %s", digitStyle.Render(v.Digit), titleStyle.Render(v.Confidence)),
		)
		if v.Notice != "" {
			parts = append(parts, errorStyle.Render(v.Notice))
		}
		if len(v.Bars) > 0 {
			parts = append(parts, "", titleStyle.Render(ChartTitle), textBars(v.Bars, v.Digit))
		}
	case state.KindFailed:
		parts = append(parts, errorStyle.Render(v.Message))
	default:
		parts = append(parts, mutedStyle.Render(v.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func textBars(bars []Bar, top string) string {
	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		n := int(math.Round(b.Value / 100 * barCells))
		style := barStyle
		if b.Label == top {
			style = topBarStyle
		}
		bar := style.Render(strings.Repeat("█", n)) + mutedStyle.Render(strings.Repeat("·", barCells-n))
		lines = append(lines, fmt.Sprintf("%s │%s %6.2f", b.Label, bar, b.Value))
	}
	return strings.Join(lines, "\n")
}

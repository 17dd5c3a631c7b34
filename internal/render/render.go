// Package render draws statistics as styled terminal text.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/studystreak/internal/stats"
	"github.com/julianstephens/studystreak/internal/utils"
)

const (
	HeatCell  = "■"
	BarCell   = "█"
	EmptyCell = "░"
)

// HeatLevels styles heatmap intensities 0..stats.MaxLevel.
var HeatLevels = [stats.MaxLevel + 1]lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("22")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
}

var (
	barStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

var weekdayLabels = [7]string{"Mon", "   ", "Wed", "   ", "Fri", "   ", "Sun"}

// Heatmap draws weekdays as rows and weeks as columns, followed by a
// legend. Days after the heatmap end are left blank.
func Heatmap(h stats.Heatmap) string {
	weeks := h.Weeks()
	var b strings.Builder
	for row := range 7 {
		b.WriteString(weekdayLabels[row] + " ")
		for _, week := range weeks {
			if row >= len(week) {
				b.WriteString("  ")
				continue
			}
			b.WriteString(HeatLevels[week[row].Level].Render(HeatCell) + " ")
		}
		b.WriteString("\n")
	}
	b.WriteString("    less ")
	for _, s := range HeatLevels {
		b.WriteString(s.Render(HeatCell) + " ")
	}
	b.WriteString("more\n")
	return b.String()
}

// HoursChart draws one horizontal bar per day, scaled to the busiest day.
func HoursChart(days []stats.DayTotal, width int) string {
	maxHours := 0.0
	for _, d := range days {
		maxHours = max(maxHours, d.Hours)
	}
	var b strings.Builder
	for _, d := range days {
		n := 0
		if maxHours > 0 {
			n = int(d.Hours / maxHours * float64(width))
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			d.Day.Month().String()[:3]+fmt.Sprintf(" %2d", d.Day.DayOfMonth()),
			barStyle.Render(strings.Repeat(BarCell, n))+strings.Repeat(" ", width-n),
			utils.FormatHours(d.Hours))
	}
	return b.String()
}

// ProgressBar renders pct (0..100) as width cells and a percentage.
func ProgressBar(pct, width int) string {
	filled := min(width, max(0, pct*width/100))
	return progressStyle.Render(strings.Repeat(BarCell, filled)) +
		strings.Repeat(EmptyCell, width-filled) + fmt.Sprintf(" %d%%", pct)
}

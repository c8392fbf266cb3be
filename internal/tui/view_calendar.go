package tui

import (
	"strconv"
	"strings"

	"vence-cli/internal/dashboard"

	"github.com/charmbracelet/lipgloss"
)

// Day number, the preview pills and the overflow line.
const calendarCellHeight = 1 + dashboard.MaxPills + 1

func (m appModel) viewCalendar(w int) string {
	grid := m.state.Calendar(m.now())
	cellW := max(8, w/7)

	title := glyphPrev() + " " + grid.Month.Title() + " " + glyphNext()
	lines := []string{lipgloss.NewStyle().Bold(true).Render(title)}

	heads := make([]string, len(dashboard.WeekdayHeaders))
	for i, h := range dashboard.WeekdayHeaders {
		heads[i] = fitWidth(h, cellW)
	}
	lines = append(lines, styleChrome().Render(strings.Join(heads, "")))

	for _, week := range grid.Weeks() {
		cells := make([]string, len(week))
		for i, c := range week {
			cells[i] = m.renderDayCell(c, cellW)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) renderDayCell(c dashboard.DayCell, cellW int) string {
	if c.Empty() {
		return normalizePane("", cellW, calendarCellHeight)
	}
	inner := cellW - 1

	num := fitWidth(strconv.Itoa(c.Day), inner)
	// Today keeps its accent when the cursor is on it; the cursor adds an
	// underline instead of replacing the colors.
	selected := c.Day == m.calDay
	switch {
	case c.Today && selected:
		num = styleAccent().Underline(true).Render(num)
	case c.Today:
		num = styleAccent().Render(num)
	case selected:
		num = styleSelected().Render(num)
	case c.Selectable():
		num = lipgloss.NewStyle().Bold(true).Render(num)
	default:
		num = styleMuted().Render(num)
	}

	lines := []string{num}
	for _, p := range c.Pills() {
		lines = append(lines, truncate(glyphBullet()+" "+p.Label(), inner))
	}
	if label := c.OverflowLabel(); label != "" {
		lines = append(lines, styleMuted().Render(truncate(label, inner)))
	}
	return normalizePane(strings.Join(lines, "\n"), cellW, calendarCellHeight)
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"vence-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

type column struct {
	title string
	width int
}

// obligationColumns sizes the table for width w; the client column takes the
// remaining space.
func obligationColumns(w int) []column {
	cols := []column{
		{"Due", 10},
		{"Client", 0},
		{"Type", 12},
		{"Tax", 12},
		{"CUIT", 13},
		{"Period", 12},
		{"Assignee", 14},
		{"Status", 9},
	}
	fixed := 0
	for _, c := range cols {
		fixed += c.width
	}
	fixed += 2 * (len(cols) - 1)
	cols[1].width = max(12, w-fixed)
	return cols
}

func joinCells(cols []column, cells []string) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = fitWidth(c, cols[i].width)
	}
	return strings.Join(out, "  ")
}

func badgeStyle(b model.Badge) lipgloss.Style {
	switch b {
	case model.BadgeLate:
		return lipgloss.NewStyle().Foreground(colorLate).Bold(true)
	case model.BadgePresented:
		return lipgloss.NewStyle().Foreground(colorPresented)
	default:
		return lipgloss.NewStyle().Foreground(colorPending)
	}
}

// listRows is how many obligation rows fit below the filter and header lines.
func (m appModel) listRows() int {
	return max(1, m.bodyHeight()-3)
}

func (m appModel) viewFilters() string {
	c := m.state.Criteria
	search := c.Search
	if search == "" {
		search = "-"
	}
	return styleChrome().Render(fmt.Sprintf("search: %s   status: %s   time: %s", search, c.Status, c.Time))
}

func (m appModel) viewList(w int) string {
	lines := []string{m.viewFilters()}
	cols := obligationColumns(w)
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render(joinCells(cols, titles)))
	lines = append(lines, styleMuted().Render(strings.Repeat(glyphHRule(), w)))

	if !m.state.Loaded() {
		return strings.Join(append(lines, styleMuted().Render("Loading...")), "\n")
	}
	rows := m.visible()
	if len(rows) == 0 {
		return strings.Join(append(lines, styleMuted().Render("No results.")), "\n")
	}

	now := m.now()
	n := m.listRows()
	start := 0
	if m.listIndex >= n {
		start = m.listIndex - n + 1
	}
	end := min(len(rows), start+n)
	for i := start; i < end; i++ {
		lines = append(lines, renderObligationRow(cols, rows[i], now, i == m.listIndex))
	}
	return strings.Join(lines, "\n")
}

func renderObligationRow(cols []column, o model.Obligation, now time.Time, selected bool) string {
	b := o.Badge(now)
	cells := []string{
		o.DueDate.Localized(),
		o.ClientName,
		o.ClientType,
		o.TaxName,
		o.CUIT,
		o.Period,
		o.AssigneeLabel(),
		b.String(),
	}
	if selected {
		return styleSelected().Render(joinCells(cols, cells))
	}
	for i := range cells {
		cells[i] = fitWidth(cells[i], cols[i].width)
	}
	if b == model.BadgeLate {
		cells[0] = lipgloss.NewStyle().Foreground(colorLate).Render(cells[0])
	}
	if o.Unassigned() {
		cells[6] = styleMuted().Render(cells[6])
	}
	cells[7] = badgeStyle(b).Render(cells[7])
	return strings.Join(cells, "  ")
}

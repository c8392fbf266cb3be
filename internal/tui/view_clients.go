package tui

import (
	"strings"

	"vence-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func clientColumns(w int) []column {
	cols := []column{
		{"Client", 0},
		{"CUIT", 13},
		{"Type", 12},
		{"Taxes", 24},
	}
	cols[0].width = max(12, w-13-12-24-6)
	return cols
}

func (m appModel) viewClients(w int) string {
	cols := clientColumns(w)
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(joinCells(cols, []string{"Client", "CUIT", "Type", "Taxes"})),
		styleMuted().Render(strings.Repeat(glyphHRule(), w)),
	}
	if !m.state.ClientsLoaded() {
		return strings.Join(append(lines, styleMuted().Render("Loading...")), "\n")
	}
	if len(m.state.Clients) == 0 {
		return strings.Join(append(lines, styleMuted().Render("No clients.")), "\n")
	}

	n := max(1, m.bodyHeight()-2)
	start := 0
	if m.clientIndex >= n {
		start = m.clientIndex - n + 1
	}
	for i := start; i < min(len(m.state.Clients), start+n); i++ {
		row := joinCells(cols, clientCells(m.state.Clients[i]))
		if i == m.clientIndex {
			row = styleSelected().Render(row)
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

func clientCells(c model.Client) []string {
	return []string{c.Name, c.CUIT, c.ClientType, c.Taxes}
}

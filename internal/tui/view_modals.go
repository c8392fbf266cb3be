package tui

import (
	"strings"

	"vence-cli/internal/chat"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) viewDay(bodyW int) string {
	if len(m.day.Items) == 0 {
		return styleMuted().Render("Nothing due on this day.") + "\n\n" + styleMuted().Render("esc: close")
	}
	now := m.now()
	lines := make([]string, 0, len(m.day.Items)+2)
	for i, o := range m.day.Items {
		b := o.Badge(now)
		text := o.ClientName + "  " + o.TaxName + "  " + o.CUIT + "  @" + o.AssigneeLabel()
		badge := b.String()
		row := fitWidth(text, max(1, bodyW-len(badge)-1)) + " " + badge
		if i == m.dayIndex {
			row = styleSelected().Render(row)
		} else {
			row = fitWidth(text, max(1, bodyW-len(badge)-1)) + " " + badgeStyle(b).Render(badge)
		}
		lines = append(lines, row)
	}
	lines = append(lines, "", styleMuted().Render("j/k: move   space/enter: toggle   a: assign   esc: close"))
	return strings.Join(lines, "\n")
}

func (m appModel) renderChatHistory(width int) string {
	width = max(10, width)
	msgs := m.conv.Messages()
	if len(msgs) == 0 {
		return styleMuted().Render("Ask about due dates, clients or taxes.")
	}
	var blocks []string
	for _, msg := range msgs {
		blocks = append(blocks, m.renderChatMessage(msg, width))
	}
	return strings.Join(blocks, "\n\n")
}

func (m appModel) renderChatMessage(msg chat.Message, width int) string {
	if msg.Role == chat.RoleUser {
		label := lipgloss.NewStyle().Bold(true).Render("You")
		return label + "\n" + lipgloss.NewStyle().Width(width).Render(msg.Text)
	}
	label := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("Assistant")
	switch {
	case msg.Typing:
		return label + "\n" + m.spinner.View() + styleMuted().Render(" typing...")
	case msg.Failed:
		return label + "\n" + lipgloss.NewStyle().Foreground(colorLate).Render(msg.Text)
	default:
		return label + "\n" + renderMarkdown(msg.Text, width)
	}
}

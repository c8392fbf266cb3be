package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// counterFrom is the fill ratio past which an input shows its remaining room.
const counterFrom = 0.8

// renderInputLine draws in as one shaded row of a modal. A limited input that
// is nearly full (long chat questions) gets a remaining-characters counter on
// the right edge.
func renderInputLine(bodyW int, in textinput.Model) string {
	bodyW = max(10, bodyW)

	view := strings.NewReplacer("\n", " ", "\r", " ").Replace(in.View())

	n := len([]rune(in.Value()))
	counter := ""
	if in.CharLimit > 0 && float64(n) >= counterFrom*float64(in.CharLimit) {
		counter = fmt.Sprintf(" %d left ", in.CharLimit-n)
	}
	room := bodyW - xansi.StringWidth(counter)
	if room < 4 {
		counter, room = "", bodyW
	}

	field := lipgloss.PlaceHorizontal(
		room,
		lipgloss.Left,
		" "+view+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(field) > room {
		field = xansi.Cut(field, 0, room) + "\x1b[0m"
	}
	if counter == "" {
		return field
	}
	style := styleMuted()
	if n >= in.CharLimit {
		style = lipgloss.NewStyle().Foreground(colorLate)
	}
	return field + style.Render(counter)
}

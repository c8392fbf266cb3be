package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	modalMinWidth = 36
	modalMaxWidth = 96
)

// modalWidth is the outer width of a modal box for a screen of width w.
func modalWidth(w int) int {
	mw := w * 2 / 3
	if mw > modalMaxWidth {
		mw = modalMaxWidth
	}
	if mw < modalMinWidth {
		mw = modalMinWidth
	}
	if w > 0 && mw > w {
		mw = w
	}
	return mw
}

// modalBodyWidth is the content width inside the modal border and padding.
func modalBodyWidth(w int) int {
	bw := modalWidth(w) - 4
	if bw < 10 {
		bw = 10
	}
	return bw
}

func renderModalBox(width int, title, body string) string {
	outer := modalWidth(width)
	inner := outer - 2

	header := lipgloss.NewStyle().
		Width(inner).
		Padding(0, 1).
		Bold(true).
		Foreground(colorModalHeaderFg).
		Background(colorModalHeaderBg).
		Render(truncate(title, inner-2))

	content := lipgloss.NewStyle().
		Width(inner).
		Padding(1, 1, 0, 1).
		Render(body)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSelectedBorder).
		Render(header + "\n" + content)
}

// renderNoticeModal is a blocking acknowledgement dialog.
func renderNoticeModal(width int, n notice) string {
	bodyW := modalBodyWidth(width)
	body := lipgloss.NewStyle().Width(bodyW).Render(n.body)
	if n.isErr {
		body = lipgloss.NewStyle().Width(bodyW).Foreground(colorLate).Render(n.body)
	}

	btn := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true).
		Render("OK")
	help := styleMuted().Width(bodyW).Render("enter/esc: dismiss")

	content := strings.Join([]string{body, "", btn, "", help}, "\n")
	return renderModalBox(width, n.title, content)
}

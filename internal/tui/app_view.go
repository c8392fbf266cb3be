package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
)

func (m appModel) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m appModel) View() string {
	w, h := m.size()

	var body string
	switch m.view {
	case viewCalendar:
		body = m.viewCalendar(w)
	case viewClients:
		body = m.viewClients(w)
	default:
		body = m.viewList(w)
	}

	page := strings.Join([]string{
		m.viewHeader(w),
		m.viewTabs(w),
		"",
		normalizePane(body, w, m.bodyHeight()),
		m.viewFooter(w),
	}, "\n")

	var overlay string
	switch {
	case len(m.notices) > 0:
		overlay = renderNoticeModal(w, m.notices[0])
	case m.modal != modalNone:
		overlay = m.viewModal(w)
	}
	if overlay == "" {
		return page
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, overlay, lipgloss.WithWhitespaceChars(" "))
}

// bodyHeight is the room left for the active view below the header and tabs.
func (m appModel) bodyHeight() int {
	_, h := m.size()
	return max(5, h-5)
}

func (m appModel) viewHeader(w int) string {
	title := lipgloss.NewStyle().Bold(true).Render("Vence")
	sum := m.state.Summary()
	kpis := fmt.Sprintf("Pending %d   Presented %d   Next due %s", sum.Pending, sum.Presented, sum.NextDueLabel())
	if !m.state.Loaded() {
		kpis = "Loading..."
	}
	left := title + "   " + styleChrome().Render(kpis)

	right := ""
	if label := m.uploadLabel(); label != "" {
		right = m.spinner.View() + " " + label
	}
	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return truncate(left+" "+right, w)
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m appModel) viewTabs(w int) string {
	parts := make([]string, 0, len(views))
	for i, v := range views {
		label := fmt.Sprintf(" %d %s ", i+1, v.title())
		if v == m.view {
			parts = append(parts, styleSelected().Render(label))
		} else {
			parts = append(parts, styleMuted().Render(label))
		}
	}
	return truncate(strings.Join(parts, " "), w)
}

func (m appModel) viewFooter(w int) string {
	if strings.TrimSpace(m.minibuffer) != "" {
		return truncate(m.minibuffer, w)
	}
	var help string
	switch m.view {
	case viewCalendar:
		help = "arrows: move  [/]: month  T: today  enter: day  u: upload  c: chat  tab: view  q: quit"
	case viewClients:
		help = "j/k: move  u: upload  c: chat  r: refresh  tab: view  q: quit"
	default:
		help = "/: search  s: status  t: time  x: clear  space: toggle  a: assign  u: upload  c: chat  r: refresh  tab: view  q: quit"
	}
	return styleMuted().Render(truncate(help, w))
}

func (m appModel) viewModal(w int) string {
	bodyW := modalBodyWidth(w)
	switch m.modal {
	case modalSearch:
		body := renderInputLine(bodyW, m.search) + "\n\n" +
			styleMuted().Render("enter: apply   esc/ctrl+g: cancel")
		return renderModalBox(w, "Search", body)
	case modalUploadKind:
		body := strings.Join([]string{
			"c  Calendar PDF (due date rules)",
			"e  Clients Excel",
			"",
			styleMuted().Render("esc/ctrl+g: cancel"),
		}, "\n")
		return renderModalBox(w, "Upload", body)
	case modalUploadPath:
		title := "Upload: calendar PDF"
		if m.uploadKind.RefreshesClients() {
			title = "Upload: clients Excel"
		}
		body := renderInputLine(bodyW, m.uploadInput) + "\n\n" +
			styleMuted().Render("enter: upload   esc/ctrl+g: cancel")
		return renderModalBox(w, title, body)
	case modalDay:
		return renderModalBox(w, m.day.Title, m.viewDay(bodyW))
	case modalAssign:
		body := renderInputLine(bodyW, m.assignInput) + "\n\n" +
			styleMuted().Render("enter: assign (empty unassigns)   esc/ctrl+g: cancel")
		return renderModalBox(w, "Assign", body)
	case modalChat:
		body := m.chatView.View() + "\n\n" +
			renderInputLine(bodyW, m.chatInput) + "\n\n" +
			styleMuted().Render("enter: send   pgup/pgdown: scroll   esc: close")
		return renderModalBox(w, "Assistant", body)
	}
	return ""
}

package tui

import (
	"os"
	"path/filepath"
	"strings"

	"vence-cli/internal/api"
	"vence-cli/internal/dashboard"
	"vence-cli/internal/model"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case obligationsLoadedMsg:
		if msg.err != nil {
			// Read failures keep the previous snapshot on screen.
			m.log.Warn("dashboard fetch failed", zap.Error(msg.err))
			return m, nil
		}
		if !m.state.ApplyObligations(msg.tok, msg.obs) {
			m.log.Debug("stale dashboard response discarded", zap.Uint64("token", uint64(msg.tok)))
			return m, nil
		}
		if m.modal == modalDay {
			m.day = dashboard.OpenDay(m.day.Date, dashboard.ObligationsOn(m.state.Obligations, m.day.Date))
			if m.dayIndex >= len(m.day.Items) {
				m.dayIndex = max(0, len(m.day.Items)-1)
			}
		}
		m.clampSelection()
		return m, nil

	case clientsLoadedMsg:
		if msg.err != nil {
			m.log.Warn("clients fetch failed", zap.Error(msg.err))
			return m, nil
		}
		if !m.state.ApplyClients(msg.tok, msg.clients) {
			m.log.Debug("stale clients response discarded", zap.Uint64("token", uint64(msg.tok)))
			return m, nil
		}
		m.clampSelection()
		return m, nil

	case toggleDoneMsg:
		if msg.err != nil {
			m.pushNotice(notice{
				title: "Toggle failed",
				body:  "Could not update obligation " + msg.id.String() + ": " + msg.err.Error(),
				isErr: true,
			})
		}
		// No optimistic update: always refetch.
		return m, m.fetchObligations()

	case assignDoneMsg:
		if msg.err != nil {
			m.pushNotice(notice{
				title: "Assign failed",
				body:  "Could not assign obligation " + msg.id.String() + ": " + msg.err.Error(),
				isErr: true,
			})
		} else {
			m.showMinibuffer("Assigned to " + msg.assignee)
		}
		return m, m.fetchObligations()

	case uploadDoneMsg:
		delete(m.uploads, msg.seq)
		if msg.err != nil {
			m.log.Warn("upload failed", zap.String("kind", string(msg.kind)), zap.Error(msg.err))
			m.pushNotice(notice{title: "Upload failed", body: msg.err.Error(), isErr: true})
			return m, nil
		}
		m.pushNotice(notice{title: "Upload complete", body: msg.res.Summary()})
		cmds := []tea.Cmd{m.fetchObligations()}
		if msg.kind.RefreshesClients() {
			cmds = append(cmds, m.fetchClients())
		}
		return m, tea.Batch(cmds...)

	case chatReplyMsg:
		if msg.err != nil {
			m.log.Warn("chat request failed", zap.Error(msg.err))
			m.conv.Fail(msg.pending)
		} else {
			m.conv.Resolve(msg.pending, msg.reply)
		}
		m.syncChat()
		return m, nil

	case spinner.TickMsg:
		if len(m.uploads) == 0 && !m.conv.Waiting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.conv.Waiting() {
			m.syncChat()
		}
		return m, cmd

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m appModel) updateKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if k.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if len(m.notices) > 0 {
		switch k.String() {
		case "enter", "esc", " ", "space", "q":
			m.notices = m.notices[1:]
		}
		return m, nil
	}

	switch m.modal {
	case modalSearch:
		return m.updateSearch(k)
	case modalUploadKind:
		return m.updateUploadKind(k)
	case modalUploadPath:
		return m.updateUploadPath(k)
	case modalDay:
		return m.updateDay(k)
	case modalChat:
		return m.updateChat(k)
	case modalAssign:
		return m.updateAssign(k)
	}

	m.minibuffer = ""
	switch k.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.view = views[(int(m.view)+1)%len(views)]
		return m, nil
	case "shift+tab":
		m.view = views[(int(m.view)+len(views)-1)%len(views)]
		return m, nil
	case "1", "2", "3":
		m.view = views[int(k.String()[0]-'1')]
		return m, nil
	case "r":
		m.showMinibuffer("Refreshing...")
		return m, tea.Batch(m.fetchObligations(), m.fetchClients())
	case "u":
		m.modal = modalUploadKind
		return m, nil
	case "c":
		m.modal = modalChat
		m.syncChat()
		focus := m.chatInput.Focus()
		return m, tea.Batch(focus, textinput.Blink)
	}

	switch m.view {
	case viewCalendar:
		return m.updateCalendar(k)
	case viewClients:
		return m.updateClients(k)
	default:
		return m.updateList(k)
	}
}

func (m appModel) updateList(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.visible())
	switch k.String() {
	case "up", "k":
		m.listIndex--
	case "down", "j":
		m.listIndex++
	case "pgup":
		m.listIndex -= m.pageRows()
	case "pgdown":
		m.listIndex += m.pageRows()
	case "home", "g":
		m.listIndex = 0
	case "end", "G":
		m.listIndex = n - 1
	case "/":
		m.modal = modalSearch
		m.searchPrev = m.state.Criteria.Search
		m.search.SetValue(m.state.Criteria.Search)
		m.search.CursorEnd()
		focus := m.search.Focus()
		return m, tea.Batch(focus, textinput.Blink)
	case "s":
		m.state.Criteria.Status = m.state.Criteria.Status.Next()
		m.listIndex = 0
	case "t":
		m.state.Criteria.Time = m.state.Criteria.Time.Next()
		m.listIndex = 0
	case "x":
		m.state.Criteria = dashboard.Criteria{Status: dashboard.StatusAll, Time: dashboard.TimeAll}
		m.listIndex = 0
	case " ", "space", "enter":
		o, ok := m.selectedObligation()
		if !ok {
			return m, nil
		}
		m.showMinibuffer("Updating " + o.ClientName + " " + o.TaxName + "...")
		return m, m.toggle(o.ID)
	case "a":
		o, ok := m.selectedObligation()
		if !ok {
			return m, nil
		}
		focus := m.openAssign(o, false)
		return m, tea.Batch(focus, textinput.Blink)
	}
	m.clampSelection()
	return m, nil
}

func (m appModel) updateSearch(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "enter":
		m.modal = modalNone
		m.search.Blur()
		return m, nil
	case "esc", "ctrl+g":
		m.modal = modalNone
		m.search.Blur()
		m.state.Criteria.Search = m.searchPrev
		m.clampSelection()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(k)
	m.state.Criteria.Search = m.search.Value()
	m.listIndex = 0
	return m, cmd
}

func (m appModel) updateUploadKind(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "c", "p":
		m.uploadKind = api.UploadCalendar
	case "e", "x":
		m.uploadKind = api.UploadClients
	case "esc", "ctrl+g", "q":
		m.modal = modalNone
		return m, nil
	default:
		return m, nil
	}
	m.modal = modalUploadPath
	m.uploadInput.Reset()
	focus := m.uploadInput.Focus()
	return m, tea.Batch(focus, textinput.Blink)
}

func (m appModel) updateUploadPath(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "enter":
		path := expandHome(strings.TrimSpace(m.uploadInput.Value()))
		if path == "" {
			return m, nil
		}
		// The input is cleared whatever the outcome so the same file can be sent again.
		m.uploadInput.Reset()
		m.uploadInput.Blur()
		m.modal = modalNone
		cmd := m.startUpload(m.uploadKind, path)
		return m, cmd
	case "esc", "ctrl+g":
		m.uploadInput.Reset()
		m.uploadInput.Blur()
		m.modal = modalNone
		return m, nil
	}
	var cmd tea.Cmd
	m.uploadInput, cmd = m.uploadInput.Update(k)
	return m, cmd
}

func (m appModel) updateCalendar(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "left", "h":
		m.calDay--
		if m.calDay < 1 {
			m.state.NavigateMonth(-1)
			m.calDay = m.state.Month.Days()
		}
	case "right", "l":
		m.calDay++
		if m.calDay > m.state.Month.Days() {
			m.state.NavigateMonth(1)
			m.calDay = 1
		}
	case "up", "k":
		if m.calDay > 7 {
			m.calDay -= 7
		}
	case "down", "j":
		if m.calDay+7 <= m.state.Month.Days() {
			m.calDay += 7
		}
	case "[", "p":
		m.state.NavigateMonth(-1)
	case "]", "n":
		m.state.NavigateMonth(1)
	case "T":
		now := m.now()
		m.state.Month = dashboard.MonthOf(now)
		m.calDay = now.Day()
	case "enter", " ", "space":
		grid := m.state.Calendar(m.now())
		cell, ok := grid.Cell(m.calDay)
		if !ok || !cell.Selectable() {
			return m, nil
		}
		m.openDay(cell)
		return m, nil
	}
	m.clampSelection()
	return m, nil
}

func (m *appModel) openDay(cell dashboard.DayCell) {
	m.day = dashboard.OpenDay(cell.Date, cell.Obligations)
	m.dayIndex = 0
	m.modal = modalDay
}

func (m appModel) updateDay(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc", "ctrl+g", "q":
		m.modal = modalNone
		return m, nil
	case "up", "k":
		if m.dayIndex > 0 {
			m.dayIndex--
		}
	case "down", "j":
		if m.dayIndex < len(m.day.Items)-1 {
			m.dayIndex++
		}
	case " ", "space", "enter":
		if m.dayIndex < 0 || m.dayIndex >= len(m.day.Items) {
			return m, nil
		}
		o := m.day.Items[m.dayIndex]
		m.modal = modalNone
		m.showMinibuffer("Updating " + o.ClientName + " " + o.TaxName + "...")
		return m, m.toggle(o.ID)
	case "a":
		if m.dayIndex < 0 || m.dayIndex >= len(m.day.Items) {
			return m, nil
		}
		focus := m.openAssign(m.day.Items[m.dayIndex], true)
		return m, tea.Batch(focus, textinput.Blink)
	}
	return m, nil
}

// openAssign prefills the prompt with the current assignee, leaving it empty
// for unassigned obligations.
func (m *appModel) openAssign(o model.Obligation, fromDay bool) tea.Cmd {
	m.assignID = o.ID
	m.assignFromDay = fromDay
	m.assignInput.Reset()
	if !o.Unassigned() {
		m.assignInput.SetValue(o.AssigneeLabel())
		m.assignInput.CursorEnd()
	}
	m.modal = modalAssign
	return m.assignInput.Focus()
}

func (m *appModel) closeAssign() {
	m.assignInput.Blur()
	m.modal = modalNone
	if m.assignFromDay {
		m.modal = modalDay
	}
}

func (m appModel) updateAssign(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "enter":
		assignee := strings.TrimSpace(m.assignInput.Value())
		if assignee == "" {
			assignee = model.DefaultAssignee
		}
		id := m.assignID
		m.closeAssign()
		m.showMinibuffer("Assigning to " + assignee + "...")
		cmd := m.assign(id, assignee)
		return m, cmd
	case "esc", "ctrl+g":
		m.closeAssign()
		return m, nil
	}
	var cmd tea.Cmd
	m.assignInput, cmd = m.assignInput.Update(k)
	return m, cmd
}

func (m appModel) updateClients(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "up", "k":
		m.clientIndex--
	case "down", "j":
		m.clientIndex++
	case "home", "g":
		m.clientIndex = 0
	case "end", "G":
		m.clientIndex = len(m.state.Clients) - 1
	}
	m.clampSelection()
	return m, nil
}

func (m appModel) updateChat(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc", "ctrl+g":
		m.modal = modalNone
		m.chatInput.Blur()
		return m, nil
	case "enter":
		p, ok := m.conv.Submit(m.chatInput.Value())
		if !ok {
			return m, nil
		}
		m.chatInput.Reset()
		m.syncChat()
		return m, tea.Batch(m.sendChat(p), m.spinner.Tick)
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(k)
		return m, cmd
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(k)
	return m, cmd
}

func (m *appModel) syncChat() {
	m.chatView.SetContent(m.renderChatHistory(m.chatView.Width))
	m.chatView.GotoBottom()
}

func (m *appModel) pageRows() int {
	return max(1, m.listRows())
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

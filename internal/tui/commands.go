package tui

import (
	"vence-cli/internal/api"
	"vence-cli/internal/chat"
	"vence-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// fetchObligations issues a new dashboard token; only the response carrying
// the latest token is applied.
func (m *appModel) fetchObligations() tea.Cmd {
	tok := m.state.BeginObligations()
	ctx, b := m.ctx, m.backend
	return func() tea.Msg {
		obs, err := b.Dashboard(ctx)
		return obligationsLoadedMsg{tok: tok, obs: obs, err: err}
	}
}

func (m *appModel) fetchClients() tea.Cmd {
	tok := m.state.BeginClients()
	ctx, b := m.ctx, m.backend
	return func() tea.Msg {
		clients, err := b.Clients(ctx)
		return clientsLoadedMsg{tok: tok, clients: clients, err: err}
	}
}

func (m *appModel) toggle(id model.ID) tea.Cmd {
	ctx, b, log := m.ctx, m.backend, m.log
	return func() tea.Msg {
		err := b.Toggle(ctx, id)
		if err != nil {
			log.Warn("toggle failed", zap.String("id", id.String()), zap.Error(err))
		}
		return toggleDoneMsg{id: id, err: err}
	}
}

func (m *appModel) assign(id model.ID, assignee string) tea.Cmd {
	ctx, b, log := m.ctx, m.backend, m.log
	return func() tea.Msg {
		err := b.Assign(ctx, id, assignee)
		if err != nil {
			log.Warn("assign failed", zap.String("id", id.String()), zap.Error(err))
		}
		return assignDoneMsg{id: id, assignee: assignee, err: err}
	}
}

// startUpload registers an in-flight upload and returns its command. Uploads
// are not serialized; the indicator shows the newest one.
func (m *appModel) startUpload(kind api.UploadKind, path string) tea.Cmd {
	m.uploadSeq++
	seq := m.uploadSeq
	m.uploads[seq] = kind
	ctx, b := m.ctx, m.backend
	run := func() tea.Msg {
		res, err := b.UploadFile(ctx, kind, path)
		return uploadDoneMsg{seq: seq, kind: kind, res: res, err: err}
	}
	return tea.Batch(run, m.spinner.Tick)
}

func (m *appModel) sendChat(p chat.Pending) tea.Cmd {
	ctx, b := m.ctx, m.backend
	return func() tea.Msg {
		reply, err := b.Chat(ctx, p.Text)
		return chatReplyMsg{pending: p, reply: reply, err: err}
	}
}

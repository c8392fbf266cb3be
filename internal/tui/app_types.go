package tui

import (
	"vence-cli/internal/api"
	"vence-cli/internal/chat"
	"vence-cli/internal/dashboard"
	"vence-cli/internal/model"
)

type view int

const (
	viewList view = iota
	viewCalendar
	viewClients
)

var views = []view{viewList, viewCalendar, viewClients}

func (v view) title() string {
	switch v {
	case viewCalendar:
		return "Calendar"
	case viewClients:
		return "Clients"
	default:
		return "Obligations"
	}
}

type modalKind int

const (
	modalNone modalKind = iota
	modalSearch
	modalUploadKind
	modalUploadPath
	modalDay
	modalChat
	modalAssign
)

// notice is a blocking notification; it must be dismissed before any other
// key is handled.
type notice struct {
	title string
	body  string
	isErr bool
}

type obligationsLoadedMsg struct {
	tok dashboard.Token
	obs []model.Obligation
	err error
}

type clientsLoadedMsg struct {
	tok     dashboard.Token
	clients []model.Client
	err     error
}

type toggleDoneMsg struct {
	id  model.ID
	err error
}

type assignDoneMsg struct {
	id       model.ID
	assignee string
	err      error
}

type uploadDoneMsg struct {
	seq  int
	kind api.UploadKind
	res  api.UploadResult
	err  error
}

type chatReplyMsg struct {
	pending chat.Pending
	reply   string
	err     error
}

package tui

import (
	"context"
	"time"

	"vence-cli/internal/api"
	"vence-cli/internal/chat"
	"vence-cli/internal/dashboard"
	"vence-cli/internal/model"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Backend is the subset of the API client the dashboard uses.
type Backend interface {
	Dashboard(ctx context.Context) ([]model.Obligation, error)
	Clients(ctx context.Context) ([]model.Client, error)
	Toggle(ctx context.Context, id model.ID) error
	Assign(ctx context.Context, id model.ID, assignee string) error
	UploadFile(ctx context.Context, kind api.UploadKind, path string) (api.UploadResult, error)
	Chat(ctx context.Context, message string) (string, error)
}

var _ Backend = (*api.Client)(nil)

type appModel struct {
	ctx     context.Context
	backend Backend
	log     *zap.Logger
	now     func() time.Time

	width  int
	height int

	view  view
	modal modalKind

	state *dashboard.State

	listIndex   int
	clientIndex int
	// calDay is the selected day of the displayed month.
	calDay int

	day      dashboard.DayDetail
	dayIndex int

	assignInput textinput.Model
	assignID    model.ID
	// assignFromDay reopens the day detail when the assign prompt closes.
	assignFromDay bool

	search      textinput.Model
	searchPrev  string
	uploadKind  api.UploadKind
	uploadInput textinput.Model

	// uploads maps in-flight upload sequence numbers to their kind.
	uploads   map[int]api.UploadKind
	uploadSeq int
	spinner   spinner.Model

	conv      *chat.Conversation
	chatInput textinput.Model
	chatView  viewport.Model

	notices    []notice
	minibuffer string
}

func newAppModel(ctx context.Context, b Backend, log *zap.Logger) appModel {
	if log == nil {
		log = zap.NewNop()
	}
	now := time.Now

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "client name or CUIT"
	search.CharLimit = 80

	uploadInput := textinput.New()
	uploadInput.Prompt = "file: "
	uploadInput.Placeholder = "path/to/file"

	assignInput := textinput.New()
	assignInput.Prompt = "assignee: "
	assignInput.Placeholder = model.DefaultAssignee
	assignInput.CharLimit = 80

	chatInput := textinput.New()
	chatInput.Prompt = "> "
	chatInput.Placeholder = "Ask the assistant..."
	chatInput.CharLimit = 2000

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := appModel{
		ctx:         ctx,
		backend:     b,
		log:         log,
		now:         now,
		view:        viewList,
		state:       dashboard.NewState(now()),
		calDay:      now().Day(),
		search:      search,
		uploadInput: uploadInput,
		assignInput: assignInput,
		uploads:     map[int]api.UploadKind{},
		spinner:     sp,
		conv:        &chat.Conversation{},
		chatInput:   chatInput,
		chatView:    viewport.New(60, 12),
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.fetchObligations(), m.fetchClients())
}

func (m *appModel) visible() []model.Obligation {
	return m.state.Visible(m.now())
}

// selectedObligation is the highlighted list row.
func (m *appModel) selectedObligation() (model.Obligation, bool) {
	rows := m.visible()
	if m.listIndex < 0 || m.listIndex >= len(rows) {
		return model.Obligation{}, false
	}
	return rows[m.listIndex], true
}

func (m *appModel) clampSelection() {
	if n := len(m.visible()); m.listIndex >= n {
		m.listIndex = n - 1
	}
	if m.listIndex < 0 {
		m.listIndex = 0
	}
	if n := len(m.state.Clients); m.clientIndex >= n {
		m.clientIndex = n - 1
	}
	if m.clientIndex < 0 {
		m.clientIndex = 0
	}
	if days := m.state.Month.Days(); m.calDay > days {
		m.calDay = days
	}
	if m.calDay < 1 {
		m.calDay = 1
	}
}

// uploadLabel is the label of the most recent in-flight upload, or "" when
// none remain.
func (m *appModel) uploadLabel() string {
	latest := -1
	for seq := range m.uploads {
		if seq > latest {
			latest = seq
		}
	}
	if latest < 0 {
		return ""
	}
	return m.uploads[latest].Label()
}

func (m *appModel) pushNotice(n notice) {
	m.notices = append(m.notices, n)
}

func (m *appModel) showMinibuffer(s string) {
	m.minibuffer = s
}

func (m *appModel) resize() {
	w := modalBodyWidth(m.width)
	m.search.Width = w - 6
	m.uploadInput.Width = w - 10
	m.assignInput.Width = w - 14
	m.chatInput.Width = w - 6
	h := m.height/2 - 4
	if h < 6 {
		h = 6
	}
	m.chatView.Width = w
	m.chatView.Height = h
	m.syncChat()
}

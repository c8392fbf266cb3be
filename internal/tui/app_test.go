package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"vence-cli/internal/api"
	"vence-cli/internal/chat"
	"vence-cli/internal/dashboard"
	"vence-cli/internal/model"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeBackend struct {
	mu sync.Mutex

	obligations []model.Obligation
	clients     []model.Client
	toggleErr   error
	assignErr   error
	uploadErr   error
	uploadRes   api.UploadResult
	chatReply   string
	chatErr     error

	dashboardCalls int
	clientsCalls   int
	toggled        []model.ID
	assigned       []string
	uploaded       []string
	chatted        []string
}

func (f *fakeBackend) Dashboard(context.Context) ([]model.Obligation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dashboardCalls++
	return append([]model.Obligation(nil), f.obligations...), nil
}

func (f *fakeBackend) Clients(context.Context) ([]model.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clientsCalls++
	return append([]model.Client(nil), f.clients...), nil
}

func (f *fakeBackend) Toggle(_ context.Context, id model.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggled = append(f.toggled, id)
	return f.toggleErr
}

func (f *fakeBackend) Assign(_ context.Context, id model.ID, assignee string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assigned = append(f.assigned, id.String()+"="+assignee)
	if f.assignErr != nil {
		return f.assignErr
	}
	for i := range f.obligations {
		if f.obligations[i].ID == id {
			f.obligations[i].Assignee = assignee
		}
	}
	return nil
}

func (f *fakeBackend) UploadFile(_ context.Context, kind api.UploadKind, path string) (api.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, string(kind)+":"+path)
	res := f.uploadRes
	res.Kind = kind
	return res, f.uploadErr
}

func (f *fakeBackend) Chat(_ context.Context, message string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatted = append(f.chatted, message)
	return f.chatReply, f.chatErr
}

var testNow = time.Date(2024, time.June, 10, 10, 0, 0, 0, time.Local)

func testObligations() []model.Obligation {
	return []model.Obligation{
		{ID: "1", ClientName: "LAS PAIVA SA", CUIT: "30-71238604-1", ClientType: "RI", TaxName: "IVA", DueDate: "2024-06-05", Period: "Mayo 2024", Status: model.StatusPending},
		{ID: "2", ClientName: "EPC S.A.S.", CUIT: "30-71582929-7", ClientType: "RI", TaxName: "Ganancias", DueDate: "2024-06-14", Period: "Mayo 2024", Status: model.StatusPresented},
		{ID: "3", ClientName: "Farmacia San Lucas", CUIT: "20-12345678-9", ClientType: "Monotributo", TaxName: "IIBB", DueDate: "2024-06-14", Period: "Mayo 2024", Status: model.StatusPending},
	}
}

func newTestModel(t *testing.T, b *fakeBackend) appModel {
	t.Helper()
	m := newAppModel(context.Background(), b, nil)
	m.now = func() time.Time { return testNow }
	m.state = dashboard.NewState(testNow)
	m.calDay = testNow.Day()
	m.width = 120
	m.height = 40
	m.resize()
	return m
}

// run executes cmd and feeds every resulting message back into the model
// until no commands remain. Spinner ticks are dropped.
func run(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatalf("command loop did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			mAny, next := m.Update(msg)
			m = mAny.(appModel)
			queue = append(queue, next)
		}
	}
	return m
}

func press(t *testing.T, m appModel, keys ...string) (appModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var mAny tea.Model
		mAny, cmd = m.Update(msg)
		m = mAny.(appModel)
	}
	return m, cmd
}

func loaded(t *testing.T, b *fakeBackend) appModel {
	t.Helper()
	m := newTestModel(t, b)
	return run(t, m, m.Init())
}

func TestInit_LoadsSnapshots(t *testing.T) {
	b := &fakeBackend{
		obligations: testObligations(),
		clients:     []model.Client{{Name: "LAS PAIVA SA", CUIT: "30-71238604-1", ClientType: "RI"}},
	}
	m := loaded(t, b)

	if !m.state.Loaded() || !m.state.ClientsLoaded() {
		t.Fatalf("expected both snapshots loaded")
	}
	if len(m.state.Obligations) != 3 || len(m.state.Clients) != 1 {
		t.Fatalf("unexpected snapshot sizes %d/%d", len(m.state.Obligations), len(m.state.Clients))
	}
	out := m.View()
	for _, want := range []string{"Pending 2", "Presented 1", "Next due 5/6", "LAS PAIVA SA", "Late"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected view to contain %q, got:\n%s", want, out)
		}
	}
}

func TestStaleDashboardResponseIsDiscarded(t *testing.T) {
	b := &fakeBackend{}
	m := newTestModel(t, b)

	old := m.state.BeginObligations()
	latest := m.state.BeginObligations()

	mAny, _ := m.Update(obligationsLoadedMsg{tok: latest, obs: testObligations()})
	m = mAny.(appModel)
	mAny, _ = m.Update(obligationsLoadedMsg{tok: old, obs: nil})
	m = mAny.(appModel)

	if len(m.state.Obligations) != 3 {
		t.Fatalf("stale response overwrote newer snapshot: %d obligations", len(m.state.Obligations))
	}
}

func TestFetchFailureKeepsPreviousSnapshot(t *testing.T) {
	b := &fakeBackend{obligations: testObligations()}
	m := loaded(t, b)

	tok := m.state.BeginObligations()
	mAny, _ := m.Update(obligationsLoadedMsg{tok: tok, err: errors.New("connection refused")})
	m = mAny.(appModel)

	if len(m.state.Obligations) != 3 {
		t.Fatalf("expected previous snapshot to stay, got %d", len(m.state.Obligations))
	}
	if len(m.notices) != 0 {
		t.Fatalf("read failures should not raise notices")
	}
}

func TestListFiltersAndSearch(t *testing.T) {
	b := &fakeBackend{obligations: testObligations()}
	m := loaded(t, b)

	// all -> presented -> pending -> late
	m, _ = press(t, m, "s", "s", "s")
	if m.state.Criteria.Status != dashboard.StatusLate {
		t.Fatalf("status = %q", m.state.Criteria.Status)
	}
	if got := m.visible(); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("late filter mismatch: %+v", got)
	}

	m, _ = press(t, m, "x", "/")
	if m.modal != modalSearch {
		t.Fatalf("expected search modal, got %v", m.modal)
	}
	m, _ = press(t, m, "f", "a", "r", "m")
	if got := m.visible(); len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("search filter mismatch: %+v", got)
	}
	m, _ = press(t, m, "esc")
	if m.modal != modalNone || m.state.Criteria.Search != "" {
		t.Fatalf("esc should cancel the search, got %q", m.state.Criteria.Search)
	}

	m, _ = press(t, m, "/", "2", "0", "-", "enter")
	if m.state.Criteria.Search != "20-" {
		t.Fatalf("search = %q", m.state.Criteria.Search)
	}
	if got := m.visible(); len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("cuit search mismatch: %+v", got)
	}
}

func TestEmptyListShowsPlaceholder(t *testing.T) {
	b := &fakeBackend{}
	m := loaded(t, b)
	if !strings.Contains(m.View(), "No results.") {
		t.Fatalf("expected placeholder row")
	}
}

func TestToggleRefetchesEvenOnFailure(t *testing.T) {
	b := &fakeBackend{obligations: testObligations(), toggleErr: errors.New("boom")}
	m := loaded(t, b)
	before := b.dashboardCalls

	m, _ = press(t, m, "down")
	m, cmd := press(t, m, " ")
	m = run(t, m, cmd)

	if len(b.toggled) != 1 || b.toggled[0] != "2" {
		t.Fatalf("toggled = %v", b.toggled)
	}
	if b.dashboardCalls != before+1 {
		t.Fatalf("expected a refetch after toggle, calls %d -> %d", before, b.dashboardCalls)
	}
	if len(m.notices) != 1 || !m.notices[0].isErr {
		t.Fatalf("expected a blocking error notice, got %+v", m.notices)
	}

	// Notices block other keys until dismissed.
	m, _ = press(t, m, "tab")
	if m.view != viewList {
		t.Fatalf("tab should be swallowed while a notice is open")
	}
	m, _ = press(t, m, "enter", "tab")
	if len(m.notices) != 0 || m.view != viewCalendar {
		t.Fatalf("expected notice dismissed and calendar view, got notices=%d view=%v", len(m.notices), m.view)
	}
}

func TestCalendarDayModalAndToggle(t *testing.T) {
	b := &fakeBackend{obligations: testObligations()}
	m := loaded(t, b)
	m, _ = press(t, m, "tab")

	out := m.View()
	if !strings.Contains(out, "June 2024") || !strings.Contains(out, "Ganancias") {
		t.Fatalf("calendar view missing content:\n%s", out)
	}

	// Day 10 has nothing due: enter is a no-op.
	m, _ = press(t, m, "enter")
	if m.modal != modalNone {
		t.Fatalf("empty day should not open")
	}

	m, _ = press(t, m, "right", "right", "right", "right", "enter")
	if m.modal != modalDay {
		t.Fatalf("expected day modal, got %v (day %d)", m.modal, m.calDay)
	}
	if m.day.Title != "Due on 14/06" || len(m.day.Items) != 2 {
		t.Fatalf("unexpected day detail %+v", m.day)
	}

	// Closing is idempotent and has no side effect.
	m, _ = press(t, m, "esc")
	m, _ = press(t, m, "esc")
	if m.modal != modalNone || len(b.toggled) != 0 {
		t.Fatalf("closing the day view must not toggle anything")
	}

	m, _ = press(t, m, "enter", "down")
	m, cmd := press(t, m, "enter")
	if m.modal != modalNone {
		t.Fatalf("toggle from the day view should close it")
	}
	m = run(t, m, cmd)
	if len(b.toggled) != 1 || b.toggled[0] != "3" {
		t.Fatalf("toggled = %v", b.toggled)
	}
}

func TestCalendarMonthNavigation(t *testing.T) {
	b := &fakeBackend{obligations: testObligations()}
	m := loaded(t, b)
	m, _ = press(t, m, "tab", "]", "]")
	if m.state.Month != (dashboard.Month{Year: 2024, Month: time.August}) {
		t.Fatalf("month = %v", m.state.Month)
	}
	m, _ = press(t, m, "[", "[", "[", "[", "[", "[", "[")
	if m.state.Month != (dashboard.Month{Year: 2024, Month: time.January}) {
		t.Fatalf("month = %v", m.state.Month)
	}
	m, _ = press(t, m, "T")
	if m.state.Month != dashboard.MonthOf(testNow) || m.calDay != 10 {
		t.Fatalf("T should jump to today, got %v day %d", m.state.Month, m.calDay)
	}
}

func TestUploadClientsRefetchesBoth(t *testing.T) {
	b := &fakeBackend{uploadRes: api.UploadResult{Created: 3, Updated: 1}}
	m := loaded(t, b)
	dash, cli := b.dashboardCalls, b.clientsCalls

	m, _ = press(t, m, "u", "e")
	if m.modal != modalUploadPath || m.uploadKind != api.UploadClients {
		t.Fatalf("expected clients upload path modal, got %v %q", m.modal, m.uploadKind)
	}
	m, _ = press(t, m, "/", "t", "m", "p", "/", "c", ".", "x", "l", "s", "x")
	m, cmd := press(t, m, "enter")
	if m.uploadLabel() != "Processing clients..." {
		t.Fatalf("indicator = %q", m.uploadLabel())
	}
	if m.uploadInput.Value() != "" {
		t.Fatalf("file input should reset after submit")
	}
	m = run(t, m, cmd)

	if len(b.uploaded) != 1 || b.uploaded[0] != "clients-excel:/tmp/c.xlsx" {
		t.Fatalf("uploaded = %v", b.uploaded)
	}
	if b.dashboardCalls != dash+1 || b.clientsCalls != cli+1 {
		t.Fatalf("expected both refetches, dashboard %d->%d clients %d->%d", dash, b.dashboardCalls, cli, b.clientsCalls)
	}
	if m.uploadLabel() != "" {
		t.Fatalf("indicator should hide when no uploads remain")
	}
	if len(m.notices) != 1 || m.notices[0].body != "Clients loaded. New: 3, updated: 1" {
		t.Fatalf("unexpected notices %+v", m.notices)
	}
}

func TestUploadCalendarRefetchesObligationsOnly(t *testing.T) {
	b := &fakeBackend{uploadRes: api.UploadResult{RulesCreated: 4}}
	m := loaded(t, b)
	dash, cli := b.dashboardCalls, b.clientsCalls

	m, _ = press(t, m, "u", "c", "a", ".", "p", "d", "f")
	m, cmd := press(t, m, "enter")
	m = run(t, m, cmd)

	if b.dashboardCalls != dash+1 || b.clientsCalls != cli {
		t.Fatalf("calendar upload should refetch obligations only")
	}
	if len(m.notices) != 1 || m.notices[0].body != "Calendar processed. Rules created: 4" {
		t.Fatalf("unexpected notices %+v", m.notices)
	}
}

func TestUploadFailureRaisesNotice(t *testing.T) {
	b := &fakeBackend{uploadErr: &api.StatusError{Op: "upload", Code: 400, Status: "400 Bad Request", Detail: "Only PDF files are allowed"}}
	m := loaded(t, b)
	dash := b.dashboardCalls

	m, _ = press(t, m, "u", "c", "x", ".", "t", "x", "t")
	m, cmd := press(t, m, "enter")
	m = run(t, m, cmd)

	if len(m.notices) != 1 || !m.notices[0].isErr {
		t.Fatalf("expected error notice, got %+v", m.notices)
	}
	if b.dashboardCalls != dash {
		t.Fatalf("failed upload should not refetch")
	}
	if m.uploadLabel() != "" || m.uploadInput.Value() != "" {
		t.Fatalf("indicator and input should reset after failure")
	}
}

func TestUploadIndicatorShowsMostRecent(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m.startUpload(api.UploadClients, "a.xlsx")
	m.startUpload(api.UploadCalendar, "b.pdf")
	if m.uploadLabel() != "Processing PDF..." {
		t.Fatalf("indicator = %q", m.uploadLabel())
	}
	mAny, _ := m.Update(uploadDoneMsg{seq: 2, kind: api.UploadCalendar})
	m = mAny.(appModel)
	if m.uploadLabel() != "Processing clients..." {
		t.Fatalf("indicator = %q", m.uploadLabel())
	}
}

func TestChatSubmitAndReply(t *testing.T) {
	b := &fakeBackend{chatReply: "Next due is **IVA** on 5/6."}
	m := loaded(t, b)

	m, _ = press(t, m, "c")
	if m.modal != modalChat {
		t.Fatalf("expected chat modal")
	}

	// Blank input: no request and no message.
	m, cmd := press(t, m, " ", " ", "enter")
	if cmd != nil || m.conv.Len() != 0 {
		t.Fatalf("blank chat input must be ignored")
	}
	m.chatInput.Reset()

	m, _ = press(t, m, "h", "o", "l", "a")
	m, cmd = press(t, m, "enter")
	if m.conv.Len() != 2 || !m.conv.Waiting() {
		t.Fatalf("expected user message and typing indicator, got %d", m.conv.Len())
	}
	m = run(t, m, cmd)

	msgs := m.conv.Messages()
	if len(b.chatted) != 1 || b.chatted[0] != "hola" {
		t.Fatalf("chatted = %v", b.chatted)
	}
	if msgs[1].Role != chat.RoleAssistant || msgs[1].Typing || msgs[1].Text != b.chatReply {
		t.Fatalf("unexpected reply %+v", msgs[1])
	}
}

func TestChatFailureShowsFixedMessage(t *testing.T) {
	b := &fakeBackend{chatErr: errors.New("timeout")}
	m := loaded(t, b)

	m, _ = press(t, m, "c", "h", "i")
	m, cmd := press(t, m, "enter")
	m = run(t, m, cmd)

	msgs := m.conv.Messages()
	if len(msgs) != 2 || msgs[1].Text != chat.ErrorReply || !msgs[1].Failed {
		t.Fatalf("unexpected conversation %+v", msgs)
	}
	if len(m.notices) != 0 {
		t.Fatalf("chat errors are inline, not blocking")
	}
}

func TestAssignFromListRefetchesAndShowsAssignee(t *testing.T) {
	b := &fakeBackend{obligations: testObligations()}
	m := loaded(t, b)

	if out := m.View(); !strings.Contains(out, "Assignee") || !strings.Contains(out, model.DefaultAssignee) {
		t.Fatalf("expected assignee column with the unassigned label:\n%s", out)
	}

	before := b.dashboardCalls
	m, _ = press(t, m, "down", "a")
	if m.modal != modalAssign || m.assignID != "2" {
		t.Fatalf("expected assign prompt for 2, got modal=%v id=%q", m.modal, m.assignID)
	}
	if m.assignInput.Value() != "" {
		t.Fatalf("unassigned obligation should open an empty prompt, got %q", m.assignInput.Value())
	}
	m, _ = press(t, m, "Maria Cruz")
	m, cmd := press(t, m, "enter")
	if m.modal != modalNone {
		t.Fatalf("assign from the list should close the prompt")
	}
	m = run(t, m, cmd)

	if len(b.assigned) != 1 || b.assigned[0] != "2=Maria Cruz" {
		t.Fatalf("assigned = %v", b.assigned)
	}
	if b.dashboardCalls != before+1 {
		t.Fatalf("expected a refetch after assign, calls %d -> %d", before, b.dashboardCalls)
	}
	if !strings.Contains(m.View(), "Maria Cruz") {
		t.Fatalf("list should show the new assignee:\n%s", m.View())
	}

	// Reopening prefills the current assignee; esc leaves it untouched.
	m, _ = press(t, m, "a")
	if m.assignInput.Value() != "Maria Cruz" {
		t.Fatalf("prefill = %q", m.assignInput.Value())
	}
	m, _ = press(t, m, "esc")
	if m.modal != modalNone || len(b.assigned) != 1 {
		t.Fatalf("esc must cancel without assigning")
	}
}

func TestAssignFromDayDetailReturnsToDay(t *testing.T) {
	b := &fakeBackend{obligations: testObligations()}
	m := loaded(t, b)
	m, _ = press(t, m, "tab", "right", "right", "right", "right", "enter", "down")
	if m.modal != modalDay || m.dayIndex != 1 {
		t.Fatalf("expected day modal on the second item, got modal=%v index=%d", m.modal, m.dayIndex)
	}
	if !strings.Contains(m.View(), "@"+model.DefaultAssignee) {
		t.Fatalf("day detail should show the assignee:\n%s", m.View())
	}

	m, _ = press(t, m, "a", "Ana")
	m, cmd := press(t, m, "enter")
	if m.modal != modalDay {
		t.Fatalf("assign from the day detail should return to it, got %v", m.modal)
	}
	m = run(t, m, cmd)
	if len(b.assigned) != 1 || b.assigned[0] != "3=Ana" {
		t.Fatalf("assigned = %v", b.assigned)
	}
	if got := m.day.Items[1].Assignee; got != "Ana" {
		t.Fatalf("day detail not refreshed, assignee %q", got)
	}
}

func TestAssignFailureRaisesNoticeAndRefetches(t *testing.T) {
	b := &fakeBackend{obligations: testObligations(), assignErr: errors.New("boom")}
	m := loaded(t, b)
	before := b.dashboardCalls

	// An empty prompt unassigns.
	m, _ = press(t, m, "a")
	m, cmd := press(t, m, "enter")
	m = run(t, m, cmd)

	if len(b.assigned) != 1 || b.assigned[0] != "1="+model.DefaultAssignee {
		t.Fatalf("assigned = %v", b.assigned)
	}
	if b.dashboardCalls != before+1 {
		t.Fatalf("expected a refetch after a failed assign")
	}
	if len(m.notices) != 1 || !m.notices[0].isErr || m.notices[0].title != "Assign failed" {
		t.Fatalf("expected an assign error notice, got %+v", m.notices)
	}
}

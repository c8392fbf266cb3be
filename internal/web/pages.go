package web

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vence-cli/internal/api"
	"vence-cli/internal/chat"
	"vence-cli/internal/dashboard"
	"vence-cli/internal/model"

	"go.uber.org/zap"
)

type rowVM struct {
	model.Obligation
	Due        string
	BadgeText  string
	BadgeClass string
}

type cellVM struct {
	Day      int
	Today    bool
	Link     string
	Pills    []dashboard.Pill
	Overflow string
}

type calendarVM struct {
	Title   string
	Prev    string
	Next    string
	Headers [7]string
	Weeks   [][]cellVM
}

type chatVM struct {
	User   bool
	Typing bool
	Failed bool
	Text   string
	HTML   template.HTML
}

type homeVM struct {
	Back     string
	Notices  []notice
	LoadErr  string
	Loaded   bool
	Summary  dashboard.Summary
	Criteria dashboard.Criteria
	Statuses []dashboard.StatusFilter
	Windows  []dashboard.TimeWindow
	Month    string
	Rows     []rowVM
	Calendar calendarVM
	Clients  []model.Client
	Chat     []chatVM
}

type dayVM struct {
	Back    string
	Notices []notice
	LoadErr string
	Title   string
	Rows    []rowVM
}

func rows(obs []model.Obligation, now time.Time) []rowVM {
	out := make([]rowVM, 0, len(obs))
	for _, o := range obs {
		b := o.Badge(now)
		out = append(out, rowVM{
			Obligation: o,
			Due:        o.DueDate.Localized(),
			BadgeText:  b.String(),
			BadgeClass: strings.ToLower(b.String()),
		})
	}
	return out
}

func monthLink(q url.Values, m dashboard.Month) string {
	v := url.Values{}
	for k, xs := range q {
		v[k] = xs
	}
	v.Set("month", m.String())
	return "/?" + v.Encode()
}

func calendarView(g dashboard.Grid, q url.Values) calendarVM {
	vm := calendarVM{
		Title:   g.Month.Title(),
		Prev:    monthLink(q, g.Month.Add(-1)),
		Next:    monthLink(q, g.Month.Add(1)),
		Headers: dashboard.WeekdayHeaders,
	}
	for _, week := range g.Weeks() {
		cells := make([]cellVM, 0, len(week))
		for _, c := range week {
			cell := cellVM{Day: c.Day, Today: c.Today}
			if c.Selectable() {
				cell.Link = "/day/" + c.Date.String()
				cell.Pills = c.Pills()
				cell.Overflow = c.OverflowLabel()
			}
			cells = append(cells, cell)
		}
		vm.Weeks = append(vm.Weeks, cells)
	}
	return vm
}

func (s *Server) chatView() []chatVM {
	s.mu.Lock()
	msgs := s.conv.Messages()
	s.mu.Unlock()

	out := make([]chatVM, 0, len(msgs))
	for _, m := range msgs {
		vm := chatVM{User: m.Role == chat.RoleUser, Typing: m.Typing, Failed: m.Failed, Text: m.Text}
		if !vm.User && !m.Typing && !m.Failed {
			vm.HTML = renderChatReplyHTML(m.Text)
		}
		out = append(out, vm)
	}
	return out
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	now := s.cfg.Now()

	st := dashboard.NewState(now)
	var err error
	if st.Criteria.Status, err = dashboard.ParseStatusFilter(q.Get("status")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if st.Criteria.Time, err = dashboard.ParseTimeWindow(q.Get("time")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	st.Criteria.Search = q.Get("search")
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		if st.Month, err = dashboard.ParseMonth(v); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	obs, clients, err := s.snapshot(r.Context())
	vm := homeVM{
		Back:     requestURI(r.URL),
		Notices:  s.takeNotices(),
		Criteria: st.Criteria,
		Statuses: []dashboard.StatusFilter{dashboard.StatusAll, dashboard.StatusPresented, dashboard.StatusPending, dashboard.StatusLate},
		Windows:  []dashboard.TimeWindow{dashboard.TimeAll, dashboard.TimeWeek, dashboard.TimeMonth},
		Month:    st.Month.String(),
		Chat:     s.chatView(),
	}
	if err != nil {
		s.log.Warn("dashboard snapshot failed", zap.Error(err))
		vm.LoadErr = err.Error()
	}
	if obs != nil || err == nil {
		st.ApplyObligations(st.BeginObligations(), obs)
	}
	if clients != nil || err == nil {
		st.ApplyClients(st.BeginClients(), clients)
	}

	vm.Loaded = st.Loaded()
	vm.Summary = st.Summary()
	vm.Rows = rows(st.Visible(now), now)
	vm.Calendar = calendarView(st.Calendar(now), q)
	vm.Clients = st.Clients
	s.writeHTMLTemplate(w, "index.html", vm)
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	date, err := model.ParseDate(r.PathValue("date"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	now := s.cfg.Now()
	vm := dayVM{Back: requestURI(r.URL), Notices: s.takeNotices()}

	obs, err := s.cfg.Backend.Dashboard(r.Context())
	if err != nil {
		s.log.Warn("dashboard fetch failed", zap.Error(err))
		vm.LoadErr = err.Error()
	}
	day := dashboard.OpenDay(date, dashboard.ObligationsOn(obs, date))
	vm.Title = day.Title
	vm.Rows = rows(day.Items, now)
	s.writeHTMLTemplate(w, "day.html", vm)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id := model.ID(strings.TrimSpace(r.PathValue("id")))
	if err := s.cfg.Backend.Toggle(r.Context(), id); err != nil {
		s.log.Warn("toggle failed", zap.String("id", id.String()), zap.Error(err))
		s.pushNotice(notice{Text: "Could not update obligation " + id.String() + ": " + err.Error(), Error: true})
	}
	// The redirect reloads the full dashboard either way.
	backTo(w, r, "")
}

// handleAssign sets the assignee from the row form; a blank field unassigns.
func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	id := model.ID(strings.TrimSpace(r.PathValue("id")))
	assignee := strings.TrimSpace(r.FormValue("assignee"))
	if assignee == "" {
		assignee = model.DefaultAssignee
	}
	if err := s.cfg.Backend.Assign(r.Context(), id, assignee); err != nil {
		s.log.Warn("assign failed", zap.String("id", id.String()), zap.Error(err))
		s.pushNotice(notice{Text: "Could not assign obligation " + id.String() + ": " + err.Error(), Error: true})
	}
	backTo(w, r, "")
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	kind, err := api.ParseUploadKind(r.PathValue("kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.pushNotice(notice{Text: "Upload failed: " + err.Error(), Error: true})
		backTo(w, r, "upload")
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		s.pushNotice(notice{Text: "Choose a file to upload.", Error: true})
		backTo(w, r, "upload")
		return
	}
	defer f.Close()

	res, err := s.cfg.Backend.Upload(r.Context(), kind, hdr.Filename, f)
	if err != nil {
		s.log.Warn("upload failed", zap.String("kind", string(kind)), zap.Error(err))
		s.pushNotice(notice{Text: "Upload failed: " + err.Error(), Error: true})
	} else {
		s.pushNotice(notice{Text: res.Summary()})
	}
	backTo(w, r, "upload")
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p, ok := s.conv.Submit(r.PostFormValue("message"))
	s.mu.Unlock()
	if !ok {
		backTo(w, r, "chat")
		return
	}

	reply, err := s.cfg.Backend.Chat(r.Context(), p.Text)

	s.mu.Lock()
	if err != nil {
		s.log.Warn("chat request failed", zap.Error(err))
		s.conv.Fail(p)
	} else {
		s.conv.Resolve(p, reply)
	}
	s.mu.Unlock()
	backTo(w, r, "chat")
}

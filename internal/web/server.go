// Package web serves the dashboard as server-rendered HTML (no JavaScript).
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"vence-cli/internal/api"
	"vence-cli/internal/chat"
	"vence-cli/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

// Backend is the subset of the API client the HTML front end uses.
type Backend interface {
	Dashboard(ctx context.Context) ([]model.Obligation, error)
	Clients(ctx context.Context) ([]model.Client, error)
	Toggle(ctx context.Context, id model.ID) error
	Assign(ctx context.Context, id model.ID, assignee string) error
	Upload(ctx context.Context, kind api.UploadKind, filename string, r io.Reader) (api.UploadResult, error)
	Chat(ctx context.Context, message string) (string, error)
}

var _ Backend = (*api.Client)(nil)

type ServerConfig struct {
	Backend Backend
	Logger  *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// MaxUploadBytes bounds multipart bodies; zero means 32 MiB.
	MaxUploadBytes int64
}

// Server is a single-user local front end. The chat conversation and pending
// notices live in memory for the lifetime of the process.
type Server struct {
	cfg  ServerConfig
	tmpl *template.Template
	log  *zap.Logger

	mu      sync.Mutex
	conv    *chat.Conversation
	notices []notice
}

type notice struct {
	Text  string
	Error bool
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Backend == nil {
		return nil, errors.New("web: backend is nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"chatReply": renderChatReplyHTML,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}

	return &Server{
		cfg:  cfg,
		tmpl: tmpl,
		log:  cfg.Logger,
		conv: &chat.Conversation{},
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /day/{date}", s.handleDay)
	mux.HandleFunc("POST /obligations/{id}/toggle", s.handleToggle)
	mux.HandleFunc("POST /obligations/{id}/assign", s.handleAssign)
	mux.HandleFunc("POST /upload/{kind}", s.handleUpload)
	mux.HandleFunc("POST /chat", s.handleChat)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(b)
}

func (s *Server) pushNotice(n notice) {
	s.mu.Lock()
	s.notices = append(s.notices, n)
	s.mu.Unlock()
}

// takeNotices returns and clears the pending notices.
func (s *Server) takeNotices() []notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	return out
}

// snapshot fetches obligations and clients concurrently. Either half may fail
// independently; the first error is returned alongside whatever loaded.
func (s *Server) snapshot(ctx context.Context) ([]model.Obligation, []model.Client, error) {
	var obs []model.Obligation
	var clients []model.Client
	var g errgroup.Group
	g.Go(func() error {
		var err error
		obs, err = s.cfg.Backend.Dashboard(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		clients, err = s.cfg.Backend.Clients(ctx)
		return err
	})
	err := g.Wait()
	return obs, clients, err
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		s.log.Error("render template", zap.String("template", name), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

// backTo redirects to the form's "back" path, or "/" when it is missing or
// not a local path.
func backTo(w http.ResponseWriter, r *http.Request, fragment string) {
	dest := strings.TrimSpace(r.FormValue("back"))
	if !strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "//") {
		dest = "/"
	}
	if fragment != "" {
		dest += "#" + fragment
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func requestURI(u *url.URL) string {
	if u.RawQuery == "" {
		return u.Path
	}
	return u.Path + "?" + u.RawQuery
}

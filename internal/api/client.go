// Package api is the HTTP client for the obligations backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vence-cli/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultBaseURL = "http://localhost:8000/api"

// maxErrorBody bounds how much of an error response is kept for messages.
const maxErrorBody = 512

type Client struct {
	base *url.URL
	http *http.Client
	log  *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the transport client (tests use httptest clients).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets a whole-request timeout. Zero keeps transport defaults.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: base url %q must be http(s)", baseURL)
	}
	c := &Client{base: u, http: &http.Client{}, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string { return c.base.String() }

func (c *Client) endpoint(path string) string {
	return c.base.String() + path
}

// Dashboard fetches the full obligation snapshot.
func (c *Client) Dashboard(ctx context.Context) ([]model.Obligation, error) {
	const op = "dashboard"
	var obs []model.Obligation
	if err := c.do(ctx, op, http.MethodGet, "/dashboard", nil, "", &obs); err != nil {
		return nil, err
	}
	for i := range obs {
		obs[i].Normalize()
		if err := obs[i].Validate(); err != nil {
			return nil, &DecodeError{Op: op, Err: err}
		}
	}
	if obs == nil {
		obs = []model.Obligation{}
	}
	return obs, nil
}

func (c *Client) Clients(ctx context.Context) ([]model.Client, error) {
	const op = "clients"
	var clients []model.Client
	if err := c.do(ctx, op, http.MethodGet, "/clients", nil, "", &clients); err != nil {
		return nil, err
	}
	for i := range clients {
		clients[i].Normalize()
		if err := clients[i].Validate(); err != nil {
			return nil, &DecodeError{Op: op, Err: err}
		}
	}
	if clients == nil {
		clients = []model.Client{}
	}
	return clients, nil
}

// Toggle flips an obligation between Pending and Presented. The response body
// is ignored.
func (c *Client) Toggle(ctx context.Context, id model.ID) error {
	if strings.TrimSpace(string(id)) == "" {
		return errors.New("toggle: missing obligation id")
	}
	path := "/obligations/" + url.PathEscape(string(id)) + "/toggle"
	return c.do(ctx, "toggle", http.MethodPost, path, nil, "", nil)
}

type assignRequest struct {
	Assignee string `json:"assignee"`
}

// Assign sets the obligation's assignee. Blank clears it back to the backend
// default.
func (c *Client) Assign(ctx context.Context, id model.ID, assignee string) error {
	if strings.TrimSpace(string(id)) == "" {
		return errors.New("assign: missing obligation id")
	}
	assignee = strings.TrimSpace(assignee)
	if assignee == "" {
		assignee = model.DefaultAssignee
	}
	body, err := json.Marshal(assignRequest{Assignee: assignee})
	if err != nil {
		return err
	}
	path := "/obligations/" + url.PathEscape(string(id)) + "/assign"
	return c.do(ctx, "assign", http.MethodPost, path, bytes.NewReader(body), "application/json", nil)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", err
	}
	var out chatResponse
	if err := c.do(ctx, "chat", http.MethodPost, "/chat", bytes.NewReader(body), "application/json", &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

// do sends one request and decodes a JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) error {
	addr := c.endpoint(path)
	req, err := http.NewRequestWithContext(ctx, method, addr, body)
	if err != nil {
		return &TransportError{Op: op, URL: addr, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("op", op), zap.String("request_id", reqID), zap.Error(err))
		return &TransportError{Op: op, URL: addr, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("url", addr),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", reqID),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: op, Code: resp.StatusCode, Status: resp.Status, Detail: errorDetail(b)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

// errorDetail extracts FastAPI's {"detail": ...} when present.
func errorDetail(b []byte) string {
	var v struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(b, &v); err == nil && v.Detail != nil {
		if s, ok := v.Detail.(string); ok {
			return s
		}
		if raw, err := json.Marshal(v.Detail); err == nil {
			return string(raw)
		}
	}
	return strings.TrimSpace(string(b))
}

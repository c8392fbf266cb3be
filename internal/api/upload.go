package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

type UploadKind string

const (
	UploadCalendar UploadKind = "calendar-pdf"
	UploadClients  UploadKind = "clients-excel"
)

func ParseUploadKind(s string) (UploadKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "calendar", "calendar-pdf", "pdf":
		return UploadCalendar, nil
	case "clients", "clients-excel", "excel", "xlsx":
		return UploadClients, nil
	default:
		return "", fmt.Errorf("invalid upload kind %q (expected calendar|clients)", s)
	}
}

func (k UploadKind) path() string {
	if k == UploadClients {
		return "/upload-clients"
	}
	return "/upload-calendar"
}

// Label is the loading indicator text while an upload of k is in flight.
func (k UploadKind) Label() string {
	if k == UploadClients {
		return "Processing clients..."
	}
	return "Processing PDF..."
}

// RefreshesClients reports whether a successful upload of k changes the client
// list. Every successful upload changes obligations.
func (k UploadKind) RefreshesClients() bool { return k == UploadClients }

// UploadResult merges the calendar and clients upload responses.
type UploadResult struct {
	Kind         UploadKind `json:"kind"`
	Message      string     `json:"message,omitempty"`
	Created      int        `json:"created"`
	Updated      int        `json:"updated"`
	RulesCreated int        `json:"rules_created"`
}

// Summary is the success notification text.
func (r UploadResult) Summary() string {
	if r.Kind == UploadClients {
		return fmt.Sprintf("Clients loaded. New: %d, updated: %d", r.Created, r.Updated)
	}
	return fmt.Sprintf("Calendar processed. Rules created: %d", r.RulesCreated)
}

// multipartFile builds a body with r as multipart field "file".
func multipartFile(op, filename string, r io.Reader) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, "", fmt.Errorf("%s: read %s: %w", op, filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

// Upload posts the file as multipart field "file".
func (c *Client) Upload(ctx context.Context, kind UploadKind, filename string, r io.Reader) (UploadResult, error) {
	op := "upload " + string(kind)
	body, contentType, err := multipartFile(op, filename, r)
	if err != nil {
		return UploadResult{}, err
	}
	res := UploadResult{Kind: kind}
	if err := c.do(ctx, op, http.MethodPost, kind.path(), body, contentType, &res); err != nil {
		return UploadResult{}, err
	}
	res.Kind = kind
	return res, nil
}

func (c *Client) UploadFile(ctx context.Context, kind UploadKind, path string) (UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return UploadResult{}, err
	}
	defer f.Close()
	return c.Upload(ctx, kind, f.Name(), f)
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
)

// The knowledge base is free text the assistant reads as context on every
// chat request.

type knowledgeBody struct {
	Content string `json:"content"`
}

type knowledgeSaved struct {
	Message string `json:"message"`
}

// KnowledgeUpload is the response to a PDF appended to the knowledge base.
type KnowledgeUpload struct {
	Message    string `json:"message"`
	TextLength int    `json:"text_length"`
}

func (c *Client) Knowledge(ctx context.Context) (string, error) {
	var out knowledgeBody
	if err := c.do(ctx, "knowledge", http.MethodGet, "/knowledge", nil, "", &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

// SetKnowledge replaces the knowledge base and returns the backend message.
func (c *Client) SetKnowledge(ctx context.Context, content string) (string, error) {
	body, err := json.Marshal(knowledgeBody{Content: content})
	if err != nil {
		return "", err
	}
	var out knowledgeSaved
	if err := c.do(ctx, "set knowledge", http.MethodPost, "/knowledge", bytes.NewReader(body), "application/json", &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// UploadKnowledge sends a PDF whose extracted text is appended to the
// knowledge base.
func (c *Client) UploadKnowledge(ctx context.Context, filename string, r io.Reader) (KnowledgeUpload, error) {
	const op = "upload knowledge"
	body, contentType, err := multipartFile(op, filename, r)
	if err != nil {
		return KnowledgeUpload{}, err
	}
	var out KnowledgeUpload
	if err := c.do(ctx, op, http.MethodPost, "/knowledge/upload-pdf", body, contentType, &out); err != nil {
		return KnowledgeUpload{}, err
	}
	return out, nil
}

func (c *Client) UploadKnowledgeFile(ctx context.Context, path string) (KnowledgeUpload, error) {
	f, err := os.Open(path)
	if err != nil {
		return KnowledgeUpload{}, err
	}
	defer f.Close()
	return c.UploadKnowledge(ctx, f.Name(), f)
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"vence-cli/internal/model"
)

// CreateClient registers one client and returns the stored record.
func (c *Client) CreateClient(ctx context.Context, in model.Client) (model.Client, error) {
	const op = "create client"
	in.Normalize()
	in.ID = ""
	if in.Name == "" {
		return model.Client{}, errors.New("create client: missing name")
	}
	if err := in.Validate(); err != nil {
		return model.Client{}, err
	}
	body, err := json.Marshal(in)
	if err != nil {
		return model.Client{}, err
	}
	var out model.Client
	if err := c.do(ctx, op, http.MethodPost, "/clients", bytes.NewReader(body), "application/json", &out); err != nil {
		return model.Client{}, err
	}
	out.Normalize()
	if err := out.Validate(); err != nil {
		return model.Client{}, &DecodeError{Op: op, Err: err}
	}
	return out, nil
}

// DeleteClient removes a client. The backend deletes its obligations too.
func (c *Client) DeleteClient(ctx context.Context, id model.ID) error {
	if strings.TrimSpace(string(id)) == "" {
		return errors.New("delete client: missing client id")
	}
	return c.do(ctx, "delete client", http.MethodDelete, "/clients/"+url.PathEscape(string(id)), nil, "", nil)
}

package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"vence-cli/internal/model"
)

func TestAssign_PostsAssignee(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var paths, bodies []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		bodies = append(bodies, strings.TrimSpace(string(b)))
		mu.Unlock()
		_, _ = io.WriteString(w, `{"id": 4}`)
	}))

	if err := c.Assign(context.Background(), "4", "  Maria Cruz "); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := c.Assign(context.Background(), "4", ""); err != nil {
		t.Fatalf("Assign blank: %v", err)
	}
	if err := c.Assign(context.Background(), "", "x"); err == nil {
		t.Fatalf("expected error for empty id")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 2 || paths[0] != "POST /api/obligations/4/assign" {
		t.Fatalf("paths = %v", paths)
	}
	if bodies[0] != `{"assignee":"Maria Cruz"}` || bodies[1] != `{"assignee":"Sin Asignar"}` {
		t.Fatalf("bodies = %v", bodies)
	}
}

func TestCreateAndDeleteClient(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var deleted string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/clients":
			var in map[string]any
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				t.Errorf("decode: %v", err)
			}
			if _, ok := in["id"]; ok {
				t.Errorf("create must not send an id: %v", in)
			}
			in["id"] = 12
			_ = json.NewEncoder(w).Encode(in)
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/clients/"):
			id := strings.TrimPrefix(r.URL.Path, "/api/clients/")
			if id != "12" {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"detail": "Client not found"}`)
				return
			}
			mu.Lock()
			deleted = id
			mu.Unlock()
			_, _ = io.WriteString(w, `{"message": "Client deleted"}`)
		default:
			http.NotFound(w, r)
		}
	}))

	got, err := c.CreateClient(context.Background(), model.Client{ID: "99", Name: " Farmacia Central ", CUIT: "20-12345678-9", Taxes: "IVA"})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if got.ID != "12" || got.Name != "Farmacia Central" {
		t.Fatalf("created = %+v", got)
	}
	if _, err := c.CreateClient(context.Background(), model.Client{Name: "Sin CUIT"}); err == nil {
		t.Fatalf("expected error for missing cuit")
	}

	if err := c.DeleteClient(context.Background(), "12"); err != nil {
		t.Fatalf("DeleteClient: %v", err)
	}
	if err := c.DeleteClient(context.Background(), "7"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if deleted != "12" {
		t.Fatalf("deleted = %q", deleted)
	}
}

func TestKnowledge_GetSetUpload(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	content := "Monotributo: recategorizar en enero."
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/knowledge":
			_ = json.NewEncoder(w).Encode(map[string]string{"content": content})
		case r.Method == http.MethodPost && r.URL.Path == "/api/knowledge":
			var in struct {
				Content string `json:"content"`
			}
			_ = json.NewDecoder(r.Body).Decode(&in)
			content = in.Content
			_, _ = io.WriteString(w, `{"message": "Conocimiento actualizado"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/knowledge/upload-pdf":
			f, hdr, err := r.FormFile("file")
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			b, _ := io.ReadAll(f)
			_ = f.Close()
			content += "\n--- " + hdr.Filename + " ---\n" + string(b)
			_ = json.NewEncoder(w).Encode(map[string]any{"message": "PDF procesado", "text_length": len(b)})
		default:
			http.NotFound(w, r)
		}
	}))

	ctx := context.Background()
	got, err := c.Knowledge(ctx)
	if err != nil || got != "Monotributo: recategorizar en enero." {
		t.Fatalf("Knowledge = %q, %v", got, err)
	}
	msg, err := c.SetKnowledge(ctx, "IVA vence el 20.")
	if err != nil || msg != "Conocimiento actualizado" {
		t.Fatalf("SetKnowledge = %q, %v", msg, err)
	}
	up, err := c.UploadKnowledge(ctx, "/tmp/ley.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("UploadKnowledge: %v", err)
	}
	if up.TextLength != 8 || up.Message != "PDF procesado" {
		t.Fatalf("upload = %+v", up)
	}
	got, _ = c.Knowledge(ctx)
	if !strings.HasPrefix(got, "IVA vence el 20.") || !strings.Contains(got, "--- ley.pdf ---") {
		t.Fatalf("knowledge after upload = %q", got)
	}
}

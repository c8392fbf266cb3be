package web

import (
	"strings"
	"testing"
)

func TestChatReplyHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		want    []string
		notWant []string
	}{
		{name: "empty", src: "   "},
		{
			name: "wrapped and emphasized",
			src:  "IVA vence el **14/06**\nGanancias :smile:",
			want: []string{`<div class="chat-reply">`, "<strong>14/06</strong>", "<br>", "&#x1f604;"},
		},
		{
			name:    "headings stay below the page outline",
			src:     "# Resumen\n\n## Detalle",
			want:    []string{"<h4>Resumen</h4>", "<h5>Detalle</h5>"},
			notWant: []string{"<h1>", "<h2>"},
		},
		{
			name: "links open outside the dashboard",
			src:  "Ver [AFIP](https://www.afip.gob.ar) o https://arca.gob.ar",
			want: []string{
				`<a href="https://www.afip.gob.ar" target="_blank" rel="noopener noreferrer">AFIP</a>`,
				`<a href="https://arca.gob.ar" target="_blank" rel="noopener noreferrer">`,
			},
		},
		{
			name:    "raw html is not passed through",
			src:     "<script>alert(1)</script>\n\nok",
			want:    []string{"<p>ok</p>"},
			notWant: []string{"<script>"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := string(renderChatReplyHTML(tt.src))
			if len(tt.want) == 0 && got != "" {
				t.Fatalf("expected empty output, got %q", got)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Fatalf("missing %q in %q", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Fatalf("unexpected %q in %q", w, got)
				}
			}
		})
	}
}

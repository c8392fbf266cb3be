package web

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// chatHeadingFloor is the first heading level a reply may use; the page's own
// sections are h2.
const chatHeadingFloor = 4

// chatReplyTransformer fits assistant replies inside the chat log: headings are
// pushed below the page outline and links open outside the dashboard.
type chatReplyTransformer struct{}

func (chatReplyTransformer) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			n.Level = min(6, n.Level+chatHeadingFloor-1)
		case *ast.Link, *ast.AutoLink:
			n.SetAttributeString("target", []byte("_blank"))
			n.SetAttributeString("rel", []byte("noopener noreferrer"))
		}
		return ast.WalkContinue, nil
	})
}

var chatReplyMarkdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithParserOptions(
		parser.WithASTTransformers(util.Prioritized(chatReplyTransformer{}, 500)),
	),
	goldmark.WithRendererOptions(
		// Raw HTML passthrough stays disabled (no html.WithUnsafe).
		html.WithHardWraps(),
	),
)

// renderChatReplyHTML renders an assistant reply for the chat log. The output
// is trusted only because raw HTML is never passed through; a reply that fails
// to convert is shown as escaped text with its line breaks kept.
func renderChatReplyHTML(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return template.HTML("")
	}
	var b bytes.Buffer
	b.WriteString(`<div class="chat-reply">`)
	if err := chatReplyMarkdown.Convert([]byte(src), &b); err != nil {
		b.Reset()
		b.WriteString(`<div class="chat-reply chat-reply-plain"><p>`)
		b.WriteString(strings.ReplaceAll(template.HTMLEscapeString(src), "\n", "<br>\n"))
		b.WriteString(`</p>`)
	}
	b.WriteString(`</div>`)
	return template.HTML(b.String())
}

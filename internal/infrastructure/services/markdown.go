package services

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Markdown converts GitHub-flavored markdown to HTML.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown creates a renderer with GFM extensions. Raw HTML in post
// bodies is passed through: content is authored by the site owner, not
// untrusted input.
func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Typographer),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render converts markdown source to HTML.
func (m *Markdown) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

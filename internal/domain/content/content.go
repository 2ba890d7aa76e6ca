// Package content models the markdown content of the site: posts and pages.
package content

import (
	"errors"
	"time"
)

// ErrNotFound indicates a missing post or page.
var ErrNotFound = errors.New("content not found")

// FrontMatter is the YAML header of a post file.
type FrontMatter struct {
	Title   string    `yaml:"title"`
	Slug    string    `yaml:"slug"`
	Date    time.Time `yaml:"date"`
	Tags    []string  `yaml:"tags"`
	Summary string    `yaml:"summary"`
	Draft   bool      `yaml:"draft"`
}

// Post is one blog post parsed from disk. Markdown is the raw body; the
// compiled HTML renderer is attached during site load.
type Post struct {
	Title      string
	Slug       string
	Date       time.Time
	Tags       []string
	Summary    string
	Draft      bool
	Markdown   string
	SourceFile string

	// Renderer produces the post's HTML body. Posts without dynamic
	// snippets get a static renderer.
	Renderer BodyRenderer
}

// Page is a standalone page (about) without front matter.
type Page struct {
	Markdown   string
	SourceFile string
	Renderer   BodyRenderer
}

// BodyRenderer renders compiled body HTML for one request.
type BodyRenderer interface {
	Render(ctx RenderContext) ([]byte, error)
}

// RenderContext provides per-request data for dynamic snippet rendering.
type RenderContext struct {
	Now        time.Time
	SiteTitle  string
	AuthorName string
}

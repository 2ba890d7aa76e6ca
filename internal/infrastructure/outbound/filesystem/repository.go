package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sophialabs/inkwell/internal/domain/content"
	"github.com/sophialabs/inkwell/internal/domain/site"
)

const (
	configFile = "site.yaml"
	aboutFile  = "about.md"
	postsDir   = "posts"
)

var frontMatterFence = []byte("---")

// Repository loads site configuration and markdown content from a directory
// tree:
//
//	site.yaml    site configuration
//	about.md     the about page
//	posts/*.md   blog posts with YAML front matter
type Repository struct {
	rootDir string
}

// NewRepository creates a repository rooted at rootDir.
func NewRepository(rootDir string) (*Repository, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}
	if _, err := os.Stat(absRoot); err != nil {
		return nil, fmt.Errorf("failed to access root directory: %w", err)
	}
	return &Repository{rootDir: absRoot}, nil
}

// Root returns the absolute content root.
func (r *Repository) Root() string {
	return r.rootDir
}

// LoadConfig reads and validates site.yaml.
func (r *Repository) LoadConfig(_ context.Context) (*site.Config, error) {
	data, err := os.ReadFile(filepath.Join(r.rootDir, configFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read site config: %w", err)
	}

	var cfg site.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse site config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadPosts walks posts/ for markdown files and parses their front matter.
func (r *Repository) LoadPosts(_ context.Context) ([]*content.Post, error) {
	dir := filepath.Join(r.rootDir, postsDir)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var posts []*content.Post
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMarkdownFile(path) {
			return nil
		}
		post, err := r.loadPost(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk posts directory: %w", err)
	}
	return posts, nil
}

// LoadAbout reads about.md. A missing file is not an error: the site simply
// has no about page.
func (r *Repository) LoadAbout(_ context.Context) (*content.Page, error) {
	path := filepath.Join(r.rootDir, aboutFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read about page: %w", err)
	}
	return &content.Page{Markdown: string(data), SourceFile: path}, nil
}

func (r *Repository) loadPost(path string) (*content.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	header, body, err := splitFrontMatter(data)
	if err != nil {
		return nil, err
	}

	var fm content.FrontMatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return nil, fmt.Errorf("failed to parse front matter: %w", err)
	}
	if fm.Title == "" {
		return nil, fmt.Errorf("post has no title")
	}

	slug := fm.Slug
	if slug == "" {
		slug = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return &content.Post{
		Title:      fm.Title,
		Slug:       slug,
		Date:       fm.Date,
		Tags:       fm.Tags,
		Summary:    fm.Summary,
		Draft:      fm.Draft,
		Markdown:   string(body),
		SourceFile: path,
	}, nil
}

// splitFrontMatter separates the leading "---" fenced YAML header from the
// markdown body.
func splitFrontMatter(data []byte) (header, body []byte, err error) {
	trimmed := bytes.TrimLeft(data, "\ufeff\r\n")
	if !bytes.HasPrefix(trimmed, frontMatterFence) {
		return nil, nil, fmt.Errorf("missing front matter fence")
	}

	rest := trimmed[len(frontMatterFence):]
	rest = bytes.TrimPrefix(rest, []byte("\r"))
	if len(rest) == 0 || rest[0] != '\n' {
		return nil, nil, fmt.Errorf("malformed front matter fence")
	}
	rest = rest[1:]

	idx := bytes.Index(rest, []byte("\n---"))
	if idx < 0 {
		return nil, nil, fmt.Errorf("unterminated front matter")
	}

	header = rest[:idx]
	body = rest[idx+len("\n---"):]
	body = bytes.TrimLeft(body, "\r\n")
	return header, body, nil
}

func isMarkdownFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

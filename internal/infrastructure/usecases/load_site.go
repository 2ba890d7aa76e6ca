package usecases

import (
	"context"
	"fmt"

	"github.com/sophialabs/inkwell/internal/domain/content"
	"github.com/sophialabs/inkwell/internal/domain/site"
	"github.com/sophialabs/inkwell/internal/infrastructure/outbound/filesystem"
	"github.com/sophialabs/inkwell/internal/infrastructure/ports"
	"github.com/sophialabs/inkwell/internal/infrastructure/services"
)

// Site is one immutable snapshot of the loaded site: configuration, compiled
// posts, and the about page. The server swaps whole snapshots on reload.
type Site struct {
	Config *site.Config
	Posts  *services.PostIndex
	About  *content.Page
}

// LoadSiteUseCase loads configuration and content from disk and compiles
// every markdown body into a renderer.
type LoadSiteUseCase struct {
	repo     *filesystem.Repository
	markdown *services.Markdown
	snippets *services.SnippetCompiler
	logger   ports.Logger
}

// NewLoadSiteUseCase creates a new use case.
func NewLoadSiteUseCase(
	repo *filesystem.Repository,
	markdown *services.Markdown,
	snippets *services.SnippetCompiler,
	logger ports.Logger,
) *LoadSiteUseCase {
	return &LoadSiteUseCase{
		repo:     repo,
		markdown: markdown,
		snippets: snippets,
		logger:   logger,
	}
}

// Execute loads, compiles, validates, and returns the site snapshot.
func (uc *LoadSiteUseCase) Execute(ctx context.Context) (*Site, error) {
	cfg, err := uc.repo.LoadConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load site config: %w", err)
	}

	posts, err := uc.repo.LoadPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	uc.logger.Info("loaded posts from repository", "count", len(posts))

	index := services.NewPostIndex()
	slugs := make(map[string]string, len(posts))
	for _, p := range posts {
		if p.Draft && !cfg.ShowDrafts {
			uc.logger.Debug("skipping draft", "slug", p.Slug)
			continue
		}
		if prev, ok := slugs[p.Slug]; ok {
			return nil, fmt.Errorf("duplicate slug %q in %s and %s", p.Slug, prev, p.SourceFile)
		}
		slugs[p.Slug] = p.SourceFile

		if err := uc.compilePost(p); err != nil {
			return nil, err
		}
		index.Add(p)
	}
	index.Build()

	about, err := uc.repo.LoadAbout(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load about page: %w", err)
	}
	if about != nil {
		html, err := uc.markdown.Render(about.Markdown)
		if err != nil {
			return nil, fmt.Errorf("failed to render about page: %w", err)
		}
		about.Renderer, err = uc.snippets.Compile("about", html)
		if err != nil {
			return nil, fmt.Errorf("failed to compile about page: %w", err)
		}
	}

	uc.logger.Info("site loaded", "posts", index.Len(), "tags", len(index.Tags()))

	return &Site{Config: cfg, Posts: index, About: about}, nil
}

// compilePost renders the post's markdown to HTML and compiles any dynamic
// snippets the body carries.
func (uc *LoadSiteUseCase) compilePost(p *content.Post) error {
	html, err := uc.markdown.Render(p.Markdown)
	if err != nil {
		return fmt.Errorf("failed to render post %q: %w", p.Slug, err)
	}
	p.Renderer, err = uc.snippets.Compile(p.Slug, html)
	if err != nil {
		return fmt.Errorf("failed to compile post %q: %w", p.Slug, err)
	}
	return nil
}

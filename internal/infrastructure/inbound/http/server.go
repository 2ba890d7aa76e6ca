package http

import (
	"encoding/json"
	"io"
	"io/fs"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/flosch/pongo2/v6"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sophialabs/inkwell/internal/domain/content"
	"github.com/sophialabs/inkwell/internal/domain/trace"
	"github.com/sophialabs/inkwell/internal/infrastructure/outbound/template"
	"github.com/sophialabs/inkwell/internal/infrastructure/ports"
	"github.com/sophialabs/inkwell/internal/infrastructure/services"
	"github.com/sophialabs/inkwell/internal/infrastructure/usecases"
)

const postsPerPage = 10

// Server is the main HTTP server for the site. The loaded site snapshot is
// swapped atomically on reload; routes are fixed.
type Server struct {
	site     atomic.Pointer[usecases.Site]
	router   *chi.Mux
	pages    *template.Engine
	synthUC  *usecases.SynthesizeTraceUseCase
	traceLog *trace.Log
	clock    ports.Clock
	logger   ports.Logger
	staticFS fs.FS
}

// NewServer creates a new Server and builds its router.
func NewServer(
	pages *template.Engine,
	synthUC *usecases.SynthesizeTraceUseCase,
	traceLog *trace.Log,
	clock ports.Clock,
	logger ports.Logger,
	staticFS fs.FS,
) *Server {
	s := &Server{
		pages:    pages,
		synthUC:  synthUC,
		traceLog: traceLog,
		clock:    clock,
		logger:   logger,
		staticFS: staticFS,
	}
	s.router = s.buildRouter()
	return s
}

// Rebuild atomically swaps the site snapshot.
func (s *Server) Rebuild(snapshot *usecases.Site) {
	s.site.Store(snapshot)
	s.logger.Info("site snapshot swapped", "posts", snapshot.Posts.Len())
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(MetricsMiddleware)

	r.Get("/", s.handleIndex)
	r.Get("/posts/{slug}", s.handlePost)
	r.Get("/tags/{tag}", s.handleTag)
	r.Get("/about", s.handleAbout)
	r.Get("/feed.xml", s.handleFeed)
	r.Get("/debug", s.handleDebugPage)

	r.Route("/api/debug", func(r chi.Router) {
		r.Get("/trace", s.handleDebugTrace)
		r.Get("/recent", s.handleDebugRecent)
	})

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/static/*", s.handleStatic)

	r.NotFound(s.notFoundHandler)
	return r
}

// currentSite returns the active snapshot, or nil before the first load.
func (s *Server) currentSite(w http.ResponseWriter) *usecases.Site {
	snapshot := s.site.Load()
	if snapshot == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return nil
	}
	return snapshot
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snapshot := s.currentSite(w)
	if snapshot == nil {
		return
	}

	page := services.PaginatePosts(snapshot.Posts.All(), r.URL.Query().Get("page"), postsPerPage)
	s.renderPage(w, "index.html", pongo2.Context{
		"site":    snapshot.Config,
		"listing": page,
		"tags":    snapshot.Posts.Tags(),
	})
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	snapshot := s.currentSite(w)
	if snapshot == nil {
		return
	}

	slug := chi.URLParam(r, "slug")
	post := snapshot.Posts.BySlug(slug)
	if post == nil {
		s.notFoundHandler(w, r)
		return
	}

	body, err := post.Renderer.Render(s.renderContext(snapshot))
	if err != nil {
		s.logger.Error("post render failed", "slug", slug, "error", err)
		http.Error(w, "failed to render post", http.StatusInternalServerError)
		return
	}

	s.renderPage(w, "post.html", pongo2.Context{
		"site": snapshot.Config,
		"post": post,
		"body": string(body),
	})
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	snapshot := s.currentSite(w)
	if snapshot == nil {
		return
	}

	tag := chi.URLParam(r, "tag")
	posts := snapshot.Posts.ByTag(tag)
	if len(posts) == 0 {
		s.notFoundHandler(w, r)
		return
	}

	s.renderPage(w, "tag.html", pongo2.Context{
		"site":  snapshot.Config,
		"tag":   tag,
		"posts": posts,
	})
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	snapshot := s.currentSite(w)
	if snapshot == nil {
		return
	}
	if snapshot.About == nil {
		s.notFoundHandler(w, r)
		return
	}

	body, err := snapshot.About.Renderer.Render(s.renderContext(snapshot))
	if err != nil {
		s.logger.Error("about render failed", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	s.renderPage(w, "about.html", pongo2.Context{
		"site": snapshot.Config,
		"page": snapshot.About,
		"body": string(body),
	})
}

func (s *Server) handleFeed(w http.ResponseWriter, _ *http.Request) {
	snapshot := s.currentSite(w)
	if snapshot == nil {
		return
	}

	feed, err := services.BuildFeed(snapshot.Config, snapshot.Posts.All(), s.clock.Now())
	if err != nil {
		s.logger.Error("feed build failed", "error", err)
		http.Error(w, "failed to build feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	_, _ = w.Write(feed)
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	f, err := s.staticFS.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		http.Error(w, "failed to read asset", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", services.InferContentType(name, data))
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(data)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("not found", "method", r.Method, "path", r.URL.Path)

	snapshot := s.site.Load()
	if snapshot != nil {
		out, err := s.pages.Render("404.html", pongo2.Context{
			"site": snapshot.Config,
			"path": r.URL.Path,
		})
		if err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write(out)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) renderContext(snapshot *usecases.Site) content.RenderContext {
	return content.RenderContext{
		Now:        s.clock.Now(),
		SiteTitle:  snapshot.Config.Title,
		AuthorName: snapshot.Config.Author.Name,
	}
}

func (s *Server) renderPage(w http.ResponseWriter, name string, ctx pongo2.Context) {
	out, err := s.pages.Render(name, ctx)
	if err != nil {
		s.logger.Error("template render failed", "template", name, "error", err)
		http.Error(w, "template render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(out)
}

// clientIP extracts the rate-limit key for a request. RealIP middleware has
// already resolved proxy headers into RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

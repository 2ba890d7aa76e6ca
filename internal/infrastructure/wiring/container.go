// Package wiring constructs and owns the infrastructure components.
package wiring

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sophialabs/inkwell/internal/domain/debug"
	"github.com/sophialabs/inkwell/internal/domain/trace"
	inboundhttp "github.com/sophialabs/inkwell/internal/infrastructure/inbound/http"
	"github.com/sophialabs/inkwell/internal/infrastructure/outbound/authapi"
	"github.com/sophialabs/inkwell/internal/infrastructure/outbound/clock"
	"github.com/sophialabs/inkwell/internal/infrastructure/outbound/filesystem"
	"github.com/sophialabs/inkwell/internal/infrastructure/outbound/ratelimit"
	"github.com/sophialabs/inkwell/internal/infrastructure/outbound/template"
	"github.com/sophialabs/inkwell/internal/infrastructure/ports"
	"github.com/sophialabs/inkwell/internal/infrastructure/services"
	"github.com/sophialabs/inkwell/internal/infrastructure/usecases"
	"github.com/sophialabs/inkwell/web"
)

// Params holds the subset of configuration needed to construct
// infrastructure components.
type Params struct {
	ContentRoot    string
	AuthBaseURL    string
	AuthTimeout    time.Duration
	TraceSize      int
	DebugRate      float64
	DebugBurst     int
	RateLimiterTTL time.Duration
	Logger         ports.Logger
}

// Container owns the construction and lifecycle of all infrastructure
// components.
type Container struct {
	logger    ports.Logger
	server    *inboundhttp.Server
	loadUC    *usecases.LoadSiteUseCase
	limiter   *ratelimit.ClientStore
	traceLog  *trace.Log
	closeOnce sync.Once
}

// New constructs all infrastructure components. Fallible operations run
// before goroutine-starting ones to avoid goroutine leaks on early failure.
func New(p Params) (*Container, error) {
	if _, err := os.Stat(p.ContentRoot); err != nil {
		return nil, fmt.Errorf("failed to access content root: %w", err)
	}

	repo, err := filesystem.NewRepository(p.ContentRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to create content repository: %w", err)
	}

	pages := template.NewEngine(web.Templates())

	// Start the eviction goroutine only after all fallible ops succeed.
	limiter := ratelimit.NewClientStore(p.DebugRate, p.DebugBurst, p.RateLimiterTTL)

	clk := clock.New()
	traceLog := trace.NewLog(p.TraceSize)
	validator := authapi.New(p.AuthBaseURL, p.AuthTimeout)
	synthesizer := debug.NewSynthesizer(validator, clk, p.Logger)

	loadUC := usecases.NewLoadSiteUseCase(repo, services.NewMarkdown(), services.NewSnippetCompiler(), p.Logger)
	synthUC := usecases.NewSynthesizeTraceUseCase(synthesizer, limiter, clk, p.Logger, traceLog)

	server := inboundhttp.NewServer(pages, synthUC, traceLog, clk, p.Logger, web.Static())

	return &Container{
		logger:   p.Logger,
		server:   server,
		loadUC:   loadUC,
		limiter:  limiter,
		traceLog: traceLog,
	}, nil
}

// Close releases resources held by the container. It is idempotent.
func (c *Container) Close() {
	c.closeOnce.Do(func() {
		c.limiter.Stop()
	})
}

// Logger returns the logger passed at construction time.
func (c *Container) Logger() ports.Logger {
	return c.logger
}

// Server returns the site HTTP server.
func (c *Container) Server() *inboundhttp.Server {
	return c.server
}

// LoadSiteUseCase returns the use case for loading and compiling the site.
func (c *Container) LoadSiteUseCase() *usecases.LoadSiteUseCase {
	return c.loadUC
}

// RateLimiter returns the per-client limiter store for the debug API.
func (c *Container) RateLimiter() *ratelimit.ClientStore {
	return c.limiter
}

// TraceLog returns the recent-trace ring buffer.
func (c *Container) TraceLog() *trace.Log {
	return c.traceLog
}

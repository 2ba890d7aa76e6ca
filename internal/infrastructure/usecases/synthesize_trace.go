package usecases

import (
	"context"

	"github.com/sophialabs/inkwell/internal/domain/debug"
	"github.com/sophialabs/inkwell/internal/domain/trace"
	"github.com/sophialabs/inkwell/internal/infrastructure/ports"
)

// SynthesizeTraceResult is the outcome of one debug trace request.
type SynthesizeTraceResult struct {
	Info        *debug.Info
	Idle        bool
	RateLimited bool
}

// SynthesizeTraceUseCase runs the debug trace synthesis behind a per-client
// rate limit and records each pass in the trace log.
type SynthesizeTraceUseCase struct {
	synthesizer *debug.Synthesizer
	rateLimiter ports.RateLimiter
	clock       ports.Clock
	logger      ports.Logger
	traceLog    *trace.Log
}

// NewSynthesizeTraceUseCase creates a new use case.
func NewSynthesizeTraceUseCase(
	synthesizer *debug.Synthesizer,
	rateLimiter ports.RateLimiter,
	clock ports.Clock,
	logger ports.Logger,
	traceLog *trace.Log,
) *SynthesizeTraceUseCase {
	return &SynthesizeTraceUseCase{
		synthesizer: synthesizer,
		rateLimiter: rateLimiter,
		clock:       clock,
		logger:      logger,
		traceLog:    traceLog,
	}
}

// Execute synthesizes a trace for the given parameters. Idle requests (no
// reserved parameter) bypass both the rate limiter and the trace log.
func (uc *SynthesizeTraceUseCase) Execute(ctx context.Context, params debug.Params, client string) SynthesizeTraceResult {
	if !params.HasReserved() {
		return SynthesizeTraceResult{Idle: true}
	}

	if !uc.rateLimiter.Allow(ctx, client) {
		uc.logger.Debug("debug trace rate limited", "client", client)
		return SynthesizeTraceResult{RateLimited: true}
	}

	info, ok := uc.synthesizer.Synthesize(ctx, params)
	if !ok {
		return SynthesizeTraceResult{Idle: true}
	}

	uc.traceLog.Record(trace.Entry{
		Timestamp:  uc.clock.Now(),
		TraceID:    info.Trace.ID,
		CampaignID: info.Trace.CampaignID,
		FinalURL:   info.FinalURL,
		KeyValid:   info.KeyValid,
		Error:      info.Error,
		Remote:     client,
	})

	return SynthesizeTraceResult{Info: info}
}

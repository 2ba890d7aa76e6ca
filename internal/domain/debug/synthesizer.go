package debug

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/sophialabs/inkwell/internal/infrastructure/ports"
)

// Required-parameter error messages, checked in strict order.
const (
	ErrMissingRedirectURL = "Missing required parameter: redirect_url"
	ErrMissingAPIKey      = "Missing required parameter: api_key"
	ErrMissingCampaignID  = "Missing required parameter: campaign_id"
	ErrKeyInvalid         = "API key is invalid or inactive"
)

// KeyValidator checks an API key against the external auth service.
type KeyValidator interface {
	// Validate returns the key's info when the service accepts it. Any
	// transport or non-2xx failure is reported as an error; the caller
	// treats the key as invalid and discards the reason.
	Validate(ctx context.Context, key string) (*APIKeyInfo, error)
}

// Synthesizer turns a parameter snapshot into an Info record.
type Synthesizer struct {
	validator KeyValidator
	clock     ports.Clock
	logger    ports.Logger
}

// NewSynthesizer creates a Synthesizer.
func NewSynthesizer(validator KeyValidator, clock ports.Clock, logger ports.Logger) *Synthesizer {
	return &Synthesizer{validator: validator, clock: clock, logger: logger}
}

// Synthesize runs one synthesis pass. It returns (nil, false) when none of
// the reserved parameters is present (idle state). Synthesis failures do not
// escape: they collapse into a degraded Info whose payload fields are empty
// and whose Error carries the failure message.
func (s *Synthesizer) Synthesize(ctx context.Context, params Params) (*Info, bool) {
	if !params.HasReserved() {
		return nil, false
	}

	apiKey, hasKey := params.Get(ParamAPIKey)

	var keyInfo *APIKeyInfo
	var keyValid *bool
	if hasKey {
		info, err := s.validator.Validate(ctx, apiKey)
		valid := err == nil && info != nil && info.IsActive
		if err != nil {
			// Swallowed: only the validity flag records the failure.
			s.logger.Debug("api key validation failed", "error", err)
		} else {
			keyInfo = info
		}
		keyValid = &valid
	}

	now := s.clock.Now().UTC()
	info, err := s.assemble(params, apiKey, keyInfo, now)
	if err != nil {
		s.logger.Warn("trace synthesis failed", "error", err)
		return &Info{
			Trace:     TracePayload{Degraded: true},
			Timestamp: now.Format(time.RFC3339),
			Error:     err.Error(),
		}, true
	}

	info.KeyValid = keyValid
	info.KeyInfo = keyInfo
	if info.Error == "" && keyValid != nil && !*keyValid {
		info.Error = ErrKeyInvalid
	}
	return info, true
}

func (s *Synthesizer) assemble(params Params, apiKey string, keyInfo *APIKeyInfo, now time.Time) (*Info, error) {
	traceID := uuid.NewString()
	extras := params.Extras()

	_, hasKey := params.Get(ParamAPIKey)

	finalURL := ""
	if redirect, ok := params.Get(ParamRedirectURL); ok {
		built, err := buildFinalURL(redirect, extras, traceID, apiKey, hasKey)
		if err != nil {
			return nil, err
		}
		finalURL = built
	}

	payload := TracePayload{
		ID:          traceID,
		CreatedAt:   now.Format(time.RFC3339),
		CampaignID:  SentinelMissing,
		APIKeyID:    SentinelUnknown,
		RedirectURL: SentinelMissing,
		FinalURL:    SentinelUnknown,
		Extras:      extras,
	}
	if campaign, ok := params.Get(ParamCampaignID); ok {
		payload.CampaignID = campaign
	}
	if keyInfo != nil {
		payload.APIKeyID = keyInfo.ID
	}
	if redirect, ok := params.Get(ParamRedirectURL); ok {
		payload.RedirectURL = redirect
	}
	if finalURL != "" {
		payload.FinalURL = finalURL
	}

	return &Info{
		Trace:     payload,
		FinalURL:  finalURL,
		Timestamp: now.Format(time.RFC3339),
		Error:     missingParamError(params),
	}, nil
}

// missingParamError returns the first missing-parameter message in strict
// order, or "" when all three reserved parameters are present.
func missingParamError(params Params) string {
	switch {
	case !params.Has(ParamRedirectURL):
		return ErrMissingRedirectURL
	case !params.Has(ParamAPIKey):
		return ErrMissingAPIKey
	case !params.Has(ParamCampaignID):
		return ErrMissingCampaignID
	}
	return ""
}

// buildFinalURL merges non-empty extras, the trace id, and (when supplied)
// the api key into the redirect target's query string. Key carry-through is
// gated on presence, not value: ?api_key= still yields an api_key parameter.
func buildFinalURL(redirect string, extras []Field, traceID, apiKey string, hasKey bool) (string, error) {
	u, err := url.Parse(redirect)
	if err != nil {
		return "", fmt.Errorf("invalid redirect_url %q: %w", redirect, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("invalid redirect_url %q: not an absolute URL", redirect)
	}

	q := u.Query()
	for _, f := range extras {
		v, _ := f.Value.(string)
		if v == "" {
			continue
		}
		q.Set(f.Key, v)
	}
	q.Set("trace_id", traceID)
	if hasKey {
		q.Set(ParamAPIKey, apiKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

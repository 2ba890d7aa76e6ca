package debug_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/sophialabs/inkwell/internal/domain/debug"
	"github.com/sophialabs/inkwell/internal/testutil"
)

func newSynthesizer(v debug.KeyValidator) *debug.Synthesizer {
	return debug.NewSynthesizer(
		v,
		&testutil.FixedClock{T: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		&testutil.NoopLogger{},
	)
}

func TestSynthesize_IdleWithoutReservedParams(t *testing.T) {
	s := newSynthesizer(&testutil.StubKeyValidator{})

	info, ok := s.Synthesize(context.Background(), debug.ParseQuery("utm_source=nl&foo=bar"))
	if ok {
		t.Fatalf("expected idle state, got %+v", info)
	}
	if info != nil {
		t.Error("expected nil info in idle state")
	}
}

func TestSynthesize_EmptyAPIKeyStillCarried(t *testing.T) {
	validator := &testutil.StubKeyValidator{Err: errors.New("401")}
	s := newSynthesizer(validator)

	params := debug.ParseQuery("campaign_id=c1&redirect_url=https%3A%2F%2Fexample.com%2Fx&api_key=")
	info, ok := s.Synthesize(context.Background(), params)
	if !ok {
		t.Fatal("expected synthesis")
	}

	// Presence drives both the validation attempt and the carry-through.
	if info.KeyValid == nil {
		t.Error("expected a validation attempt for the empty key")
	} else if *info.KeyValid {
		t.Error("expected the empty key to be invalid")
	}
	u, err := url.Parse(info.FinalURL)
	if err != nil {
		t.Fatalf("final URL unparseable: %v", err)
	}
	if !u.Query().Has("api_key") {
		t.Errorf("empty api_key not carried into final URL: %s", info.FinalURL)
	}
	if u.Query().Get("api_key") != "" {
		t.Errorf("unexpected api_key value in %s", info.FinalURL)
	}
}

func TestSynthesize_FullScenario(t *testing.T) {
	validator := &testutil.StubKeyValidator{
		Info: &debug.APIKeyInfo{ID: "k1", IsActive: true, Token: "abcdefghijklmnopqrstuvwxyz"},
	}
	s := newSynthesizer(validator)

	params := debug.ParseQuery("campaign_id=c1&redirect_url=https%3A%2F%2Fexample.com%2Fx&api_key=k1&utm_source=newsletter")
	info, ok := s.Synthesize(context.Background(), params)
	if !ok {
		t.Fatal("expected synthesis")
	}

	if info.Error != "" {
		t.Errorf("expected no error, got %q", info.Error)
	}
	if info.KeyValid == nil || !*info.KeyValid {
		t.Error("expected api_key_valid true")
	}
	if validator.LastKey != "k1" {
		t.Errorf("validator saw wrong key: %q", validator.LastKey)
	}
	if info.KeyInfo == nil || info.KeyInfo.Token != "abcdefghijklmnopqrstuvwxyz" {
		t.Errorf("expected key info passed through, got %+v", info.KeyInfo)
	}

	u, err := url.Parse(info.FinalURL)
	if err != nil {
		t.Fatalf("final URL unparseable: %v", err)
	}
	if u.Host != "example.com" || u.Path != "/x" {
		t.Errorf("unexpected final URL target: %s", info.FinalURL)
	}
	q := u.Query()
	if q.Get("utm_source") != "newsletter" {
		t.Errorf("extra not propagated: %s", info.FinalURL)
	}
	if q.Get("api_key") != "k1" {
		t.Errorf("api_key not propagated: %s", info.FinalURL)
	}
	if q.Get("trace_id") != info.Trace.ID {
		t.Errorf("trace_id mismatch: query %q payload %q", q.Get("trace_id"), info.Trace.ID)
	}
	if info.Trace.CampaignID != "c1" || info.Trace.APIKeyID != "k1" {
		t.Errorf("unexpected payload fields: %+v", info.Trace)
	}
}

func TestSynthesize_InvalidKey(t *testing.T) {
	s := newSynthesizer(&testutil.StubKeyValidator{Err: errors.New("401 unauthorized")})

	params := debug.ParseQuery("campaign_id=c1&redirect_url=https%3A%2F%2Fexample.com%2Fx&api_key=k1")
	info, ok := s.Synthesize(context.Background(), params)
	if !ok {
		t.Fatal("expected synthesis")
	}

	if info.KeyValid == nil || *info.KeyValid {
		t.Error("expected api_key_valid false")
	}
	if info.KeyInfo != nil {
		t.Error("expected no key info on validation failure")
	}
	if info.Error != debug.ErrKeyInvalid {
		t.Errorf("expected %q, got %q", debug.ErrKeyInvalid, info.Error)
	}
	// The underlying failure reason is discarded, not surfaced.
	if info.Error == "401 unauthorized" {
		t.Error("validation failure must not leak into the error field")
	}
}

func TestSynthesize_InactiveKey(t *testing.T) {
	s := newSynthesizer(&testutil.StubKeyValidator{
		Info: &debug.APIKeyInfo{ID: "k1", IsActive: false, Token: "t"},
	})

	params := debug.ParseQuery("campaign_id=c1&redirect_url=https%3A%2F%2Fexample.com%2Fx&api_key=k1")
	info, _ := s.Synthesize(context.Background(), params)

	if info.KeyValid == nil || *info.KeyValid {
		t.Error("expected inactive key to be invalid")
	}
	if info.Error != debug.ErrKeyInvalid {
		t.Errorf("expected %q, got %q", debug.ErrKeyInvalid, info.Error)
	}
	// Info is returned verbatim even when inactive.
	if info.KeyInfo == nil || info.KeyInfo.ID != "k1" {
		t.Errorf("expected key info present, got %+v", info.KeyInfo)
	}
}

func TestSynthesize_ErrorPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"redirect first", "api_key=k&campaign_id=c1", debug.ErrMissingRedirectURL},
		{"then api key", "redirect_url=https%3A%2F%2Fexample.com&campaign_id=c1", debug.ErrMissingAPIKey},
		{"then campaign", "redirect_url=https%3A%2F%2Fexample.com&api_key=k", debug.ErrMissingCampaignID},
		{"only campaign", "campaign_id=c1", debug.ErrMissingRedirectURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSynthesizer(&testutil.StubKeyValidator{
				Info: &debug.APIKeyInfo{ID: "k", IsActive: true},
			})
			info, ok := s.Synthesize(context.Background(), debug.ParseQuery(tt.query))
			if !ok {
				t.Fatal("expected synthesis")
			}
			if info.Error != tt.want {
				t.Errorf("expected %q, got %q", tt.want, info.Error)
			}
		})
	}
}

func TestSynthesize_MissingRedirectYieldsEmptyFinalURL(t *testing.T) {
	s := newSynthesizer(&testutil.StubKeyValidator{})

	info, ok := s.Synthesize(context.Background(), debug.ParseQuery("campaign_id=c1"))
	if !ok {
		t.Fatal("expected synthesis")
	}
	if info.FinalURL != "" {
		t.Errorf("expected empty final URL, got %q", info.FinalURL)
	}
	if info.Error != debug.ErrMissingRedirectURL {
		t.Errorf("expected %q, got %q", debug.ErrMissingRedirectURL, info.Error)
	}
	if info.Trace.RedirectURL != debug.SentinelMissing {
		t.Errorf("expected sentinel redirect_url, got %q", info.Trace.RedirectURL)
	}
	if info.Trace.FinalURL != debug.SentinelUnknown {
		t.Errorf("expected sentinel final_url, got %q", info.Trace.FinalURL)
	}
}

func TestSynthesize_UnparseableRedirectDegrades(t *testing.T) {
	s := newSynthesizer(&testutil.StubKeyValidator{})

	params := debug.ParseQuery("campaign_id=c1&redirect_url=not%20a%20url")
	info, ok := s.Synthesize(context.Background(), params)
	if !ok {
		t.Fatal("expected degraded synthesis, not idle")
	}

	if info.Error == "" {
		t.Error("expected a failure description")
	}
	if info.FinalURL != "" {
		t.Errorf("expected empty final URL, got %q", info.FinalURL)
	}
	if info.Trace.ID != "" || info.Trace.CampaignID != "" || info.Trace.RedirectURL != "" {
		t.Errorf("expected empty payload fields, got %+v", info.Trace)
	}
}

func TestSynthesize_IdempotentShape(t *testing.T) {
	s := newSynthesizer(&testutil.StubKeyValidator{
		Info: &debug.APIKeyInfo{ID: "k1", IsActive: true, Token: "t"},
	})
	params := debug.ParseQuery("campaign_id=c1&redirect_url=https%3A%2F%2Fexample.com%2Fx&api_key=k1&utm_source=nl")

	a, _ := s.Synthesize(context.Background(), params)
	b, _ := s.Synthesize(context.Background(), params)

	if a.Trace.ID == b.Trace.ID {
		t.Error("expected fresh trace id per synthesis")
	}

	// Structurally identical modulo the freshly generated values.
	normalize := func(info *debug.Info) map[string]any {
		info.Trace.ID = ""
		info.FinalURL = ""
		info.Trace.FinalURL = ""
		data, err := json.Marshal(info)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		delete(m, "timestamp")
		if trace, ok := m["trace"].(map[string]any); ok {
			delete(trace, "created_at")
		}
		return m
	}

	am, bm := normalize(a), normalize(b)
	aj, _ := json.Marshal(am)
	bj, _ := json.Marshal(bm)
	if string(aj) != string(bj) {
		t.Errorf("expected structurally identical records:\n%s\n%s", aj, bj)
	}
}

func TestSynthesize_EmptyExtrasNotOnFinalURL(t *testing.T) {
	s := newSynthesizer(&testutil.StubKeyValidator{})

	params := debug.ParseQuery("campaign_id=c1&redirect_url=https%3A%2F%2Fexample.com&empty=&full=v")
	info, _ := s.Synthesize(context.Background(), params)

	u, err := url.Parse(info.FinalURL)
	if err != nil {
		t.Fatalf("final URL unparseable: %v", err)
	}
	q := u.Query()
	if q.Has("empty") {
		t.Error("empty extra must not reach the final URL")
	}
	if q.Get("full") != "v" {
		t.Error("non-empty extra missing from final URL")
	}
}

func TestSynthesize_ExtraOverwritesExistingQueryParam(t *testing.T) {
	s := newSynthesizer(&testutil.StubKeyValidator{})

	params := debug.ParseQuery("campaign_id=c1&redirect_url=" + url.QueryEscape("https://example.com/x?utm_source=old") + "&utm_source=new")
	info, _ := s.Synthesize(context.Background(), params)

	u, _ := url.Parse(info.FinalURL)
	if got := u.Query()["utm_source"]; len(got) != 1 || got[0] != "new" {
		t.Errorf("expected extra to overwrite existing param, got %v", got)
	}
}

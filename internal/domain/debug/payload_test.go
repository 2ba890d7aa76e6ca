package debug_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/sophialabs/inkwell/internal/domain/debug"
)

func TestTracePayload_MarshalOrder(t *testing.T) {
	p := debug.TracePayload{
		ID:          "t1",
		CreatedAt:   "2026-01-01T00:00:00Z",
		CampaignID:  "c1",
		APIKeyID:    "k1",
		RedirectURL: "https://example.com",
		FinalURL:    "https://example.com?trace_id=t1",
		Extras: []debug.Field{
			{Key: "utm_source", Value: "newsletter"},
		},
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	s := string(data)

	if !strings.HasPrefix(s, `{"id":"t1","created_at":"2026-01-01T00:00:00Z"`) {
		t.Errorf("fixed fields not first: %s", s)
	}
	// Extras come after the fixed fields, simulated network block last.
	idxExtra := strings.Index(s, `"utm_source"`)
	idxCountry := strings.Index(s, `"country"`)
	if idxExtra < 0 || idxCountry < 0 || idxExtra > idxCountry {
		t.Errorf("unexpected merge order: %s", s)
	}
}

func TestTracePayload_SimulatedBlockWinsOverExtras(t *testing.T) {
	p := debug.TracePayload{
		ID: "t1",
		Extras: []debug.Field{
			{Key: "country", Value: "BR"},
			{Key: "city", Value: "Recife"},
		},
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if flat["country"] != "US" {
		t.Errorf("expected simulated country to win, got %v", flat["country"])
	}
	if flat["city"] != "San Francisco" {
		t.Errorf("expected simulated city to win, got %v", flat["city"])
	}
}

func TestTracePayload_ExtrasOverwriteFixedFields(t *testing.T) {
	p := debug.TracePayload{
		ID: "t1",
		Extras: []debug.Field{
			{Key: "id", Value: "overridden"},
		},
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if flat["id"] != "overridden" {
		t.Errorf("expected extra to overwrite fixed id, got %v", flat["id"])
	}
	// Single occurrence of the key in the output.
	if n := strings.Count(string(data), `"id"`); n != 1 {
		t.Errorf("expected id emitted once, got %d occurrences", n)
	}
}

func TestTracePayload_Degraded(t *testing.T) {
	p := debug.TracePayload{Degraded: true}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, k := range []string{"id", "created_at", "campaign_id", "api_key_id", "redirect_url", "final_url"} {
		if flat[k] != "" {
			t.Errorf("expected %s empty, got %q", k, flat[k])
		}
	}
	if _, ok := flat["country"]; ok {
		t.Error("degraded payload must not carry the simulated network block")
	}
}

func TestTracePayload_FieldsOrder(t *testing.T) {
	p := debug.TracePayload{ID: "t1", Extras: []debug.Field{{Key: "x", Value: "1"}}}

	fields := p.Fields()
	if len(fields) == 0 {
		t.Fatal("expected fields")
	}
	if fields[0].Key != "id" {
		t.Errorf("expected id first, got %s", fields[0].Key)
	}
	if fields[len(fields)-1].Key != "accept_language" {
		t.Errorf("expected accept_language last, got %s", fields[len(fields)-1].Key)
	}
}

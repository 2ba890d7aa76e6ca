package debug

import (
	"bytes"
	"encoding/json"
)

// Sentinel values used when a reserved parameter is absent.
const (
	SentinelMissing = "missing"
	SentinelUnknown = "unknown"
)

// Field is a single key/value attribute of the trace payload.
type Field struct {
	Key   string
	Value any
}

// simulatedNetwork is the hardcoded geolocation/network block appended to
// every payload. It is merged last, so its keys win over same-named extras.
var simulatedNetwork = []Field{
	{Key: "country", Value: "US"},
	{Key: "city", Value: "San Francisco"},
	{Key: "colo", Value: "SFO"},
	{Key: "timezone", Value: "America/Los_Angeles"},
	{Key: "asn", Value: 13335},
	{Key: "user_agent", Value: "Mozilla/5.0 (X11; Linux x86_64) InkwellDebug/1.0"},
	{Key: "accept_language", Value: "en-US,en;q=0.9"},
}

// TracePayload is the synthetic record a real redirect-tracking pipeline
// would log for one request. Fixed fields are typed; extra query parameters
// ride along in Extras and are flattened at serialization time.
type TracePayload struct {
	ID          string
	CreatedAt   string
	CampaignID  string
	APIKeyID    string
	RedirectURL string
	FinalURL    string
	Extras      []Field
	// Degraded suppresses the simulated network block so a failed synthesis
	// serializes with empty fixed fields only.
	Degraded bool
}

// MarshalJSON flattens the payload into a single JSON object. Merge order:
// fixed fields, then extras, then the simulated network block. Later entries
// overwrite earlier values in place, so the simulated block always wins.
func (p TracePayload) MarshalJSON() ([]byte, error) {
	fields := []Field{
		{Key: "id", Value: p.ID},
		{Key: "created_at", Value: p.CreatedAt},
		{Key: "campaign_id", Value: p.CampaignID},
		{Key: "api_key_id", Value: p.APIKeyID},
		{Key: "redirect_url", Value: p.RedirectURL},
		{Key: "final_url", Value: p.FinalURL},
	}
	merged := mergeFields(fields, p.Extras)
	if !p.Degraded {
		merged = mergeFields(merged, simulatedNetwork)
	}
	return marshalOrdered(merged)
}

// Fields returns the flattened payload in serialization order, for table
// rendering.
func (p TracePayload) Fields() []Field {
	data, err := p.MarshalJSON()
	if err != nil {
		return nil
	}
	return decodeOrdered(data)
}

func mergeFields(base, overlay []Field) []Field {
	out := make([]Field, len(base), len(base)+len(overlay))
	copy(out, base)
	pos := make(map[string]int, len(out))
	for i, f := range out {
		pos[f.Key] = i
	}
	for _, f := range overlay {
		if i, ok := pos[f.Key]; ok {
			out[i].Value = f.Value
			continue
		}
		pos[f.Key] = len(out)
		out = append(out, f)
	}
	return out
}

func marshalOrdered(fields []Field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeOrdered(data []byte) []Field {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	// Opening brace.
	if _, err := dec.Token(); err != nil {
		return nil
	}
	var fields []Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil
		}
		var val any
		if err := dec.Decode(&val); err != nil {
			return nil
		}
		fields = append(fields, Field{Key: key, Value: val})
	}
	return fields
}

// APIKeyInfo is the auth service's view of a key, returned verbatim.
type APIKeyInfo struct {
	ID       string `json:"id"`
	IsActive bool   `json:"isActive"`
	Token    string `json:"token"`
}

// Info is the top-level render state for one synthesis pass. It is created
// fresh every time and never partially mutated.
type Info struct {
	Trace     TracePayload `json:"trace"`
	FinalURL  string       `json:"final_url"`
	Timestamp string       `json:"timestamp"`
	Error     string       `json:"error,omitempty"`
	KeyValid  *bool        `json:"api_key_valid,omitempty"`
	KeyInfo   *APIKeyInfo  `json:"api_key_info,omitempty"`
}

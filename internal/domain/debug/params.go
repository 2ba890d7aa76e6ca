package debug

import (
	"net/url"
	"strings"
)

// Reserved parameter names consumed by the synthesizer. Everything else is an
// extra parameter and gets propagated into the trace payload and final URL.
const (
	ParamCampaignID  = "campaign_id"
	ParamRedirectURL = "redirect_url"
	ParamAPIKey      = "api_key"
)

// Params is an ordered snapshot of a query string. Keys keep the position of
// their first appearance; duplicate keys overwrite the value (last wins).
type Params struct {
	keys   []string
	values map[string]string
}

// ParseQuery builds Params from a raw query string (without the leading "?").
// Unescaping failures for a key or value fall back to the raw text rather
// than dropping the pair.
func ParseQuery(rawQuery string) Params {
	p := Params{values: make(map[string]string)}
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key = unescape(key)
		if key == "" {
			continue
		}
		p.Set(key, unescape(value))
	}
	return p
}

func unescape(s string) string {
	u, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return u
}

// Set stores a value, keeping the key's original position if already present.
func (p *Params) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value for key and whether it is present.
func (p Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Has reports whether key is present, even with an empty value.
func (p Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Keys returns the parameter names in appearance order.
func (p Params) Keys() []string {
	return p.keys
}

// Len returns the number of distinct parameters.
func (p Params) Len() int {
	return len(p.keys)
}

// Extras returns the non-reserved parameters in appearance order.
func (p Params) Extras() []Field {
	var extras []Field
	for _, k := range p.keys {
		switch k {
		case ParamCampaignID, ParamRedirectURL, ParamAPIKey:
			continue
		}
		extras = append(extras, Field{Key: k, Value: p.values[k]})
	}
	return extras
}

// HasReserved reports whether any of the three reserved parameters is present.
func (p Params) HasReserved() bool {
	return p.Has(ParamCampaignID) || p.Has(ParamRedirectURL) || p.Has(ParamAPIKey)
}

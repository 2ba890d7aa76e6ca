package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/sophialabs/inkwell/internal/domain/debug"
	"github.com/sophialabs/inkwell/internal/infrastructure/outbound/template"
)

const defaultRecentTraces = 10

// paramRow is one query parameter as shown in the debug page table.
type paramRow struct {
	Key   string
	Value string
}

func (s *Server) handleDebugPage(w http.ResponseWriter, r *http.Request) {
	snapshot := s.currentSite(w)
	if snapshot == nil {
		return
	}

	params := debug.ParseQuery(r.URL.RawQuery)

	state := "idle"
	if params.HasReserved() {
		state = "loading"
	}

	rows := make([]paramRow, 0, params.Len())
	for _, key := range params.Keys() {
		value, _ := params.Get(key)
		rows = append(rows, paramRow{Key: key, Value: value})
	}

	s.renderPage(w, "debug.html", pongo2.Context{
		"site":   snapshot.Config,
		"state":  state,
		"params": rows,
		"query":  r.URL.RawQuery,
	})
}

// stripParam removes every pair with the given key from a raw query string,
// preserving the order of everything else.
func stripParam(rawQuery, key string) string {
	var kept []string
	for _, pair := range strings.Split(rawQuery, "&") {
		k, _, _ := strings.Cut(pair, "=")
		if k != key {
			kept = append(kept, pair)
		}
	}
	return strings.Join(kept, "&")
}

func (s *Server) handleDebugTrace(w http.ResponseWriter, r *http.Request) {
	// The jsonpath selector shapes the response, it is not part of the
	// simulated redirect request.
	params := debug.ParseQuery(stripParam(r.URL.RawQuery, "jsonpath"))

	result := s.synthUC.Execute(r.Context(), params, clientIP(r))
	if result.RateLimited {
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusTooManyRequests, map[string]string{
			"error": "too many trace requests, slow down",
		})
		return
	}
	if result.Idle {
		writeJSON(w, http.StatusOK, map[string]string{
			"state":   "idle",
			"message": "provide campaign_id, redirect_url or api_key query parameters",
		})
		return
	}

	// An explicit jsonpath selector returns the extracted value as plain
	// text instead of the full document.
	if expr := r.URL.Query().Get("jsonpath"); expr != "" {
		doc, err := json.Marshal(result.Info)
		if err != nil {
			http.Error(w, "failed to encode trace", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(template.ExtractJSONPath(doc, expr)))
		return
	}

	writeJSON(w, http.StatusOK, result.Info)
}

func (s *Server) handleDebugRecent(w http.ResponseWriter, r *http.Request) {
	n := defaultRecentTraces
	if raw := r.URL.Query().Get("last"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			n = parsed
		}
	}

	entries := s.traceLog.Recent(n)
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(entries),
		"total":  s.traceLog.Count(),
		"traces": entries,
	})
}

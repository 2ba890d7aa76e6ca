package services_test

import (
	"testing"

	"github.com/sophialabs/inkwell/internal/infrastructure/services"
)

func TestInferContentType(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		want string
	}{
		{"style.css", nil, "text/css; charset=utf-8"},
		{"app.js", nil, "application/javascript; charset=utf-8"},
		{"feed.xml", nil, "application/xml"},
		{"logo.svg", nil, "image/svg+xml"},
		{"favicon.ico", nil, "image/x-icon"},
		{"page.html", nil, "text/html; charset=utf-8"},
		{"noext", []byte(`{"a":1}`), "text/plain; charset=utf-8"},
		{"empty", nil, "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := services.InferContentType(tt.name, tt.body); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.want, got)
		}
	}
}

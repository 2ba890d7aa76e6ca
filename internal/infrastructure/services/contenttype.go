package services

import (
	"net/http"
	"path/filepath"
	"strings"
)

// InferContentType determines the content type for a served asset from its
// file name, falling back to body sniffing.
func InferContentType(name string, body []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript; charset=utf-8"
	case ".json":
		return "application/json"
	case ".xml":
		return "application/xml"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".ico":
		return "image/x-icon"
	case ".woff2":
		return "font/woff2"
	case ".woff":
		return "font/woff"
	case ".txt":
		return "text/plain; charset=utf-8"
	}

	if len(body) > 0 {
		return http.DetectContentType(body)
	}
	return "application/octet-stream"
}

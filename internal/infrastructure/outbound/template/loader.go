// Package template renders HTML pages with pongo2 templates loaded from an
// embedded filesystem.
package template

import (
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/flosch/pongo2/v6"
)

var _ pongo2.TemplateLoader = (*fsLoader)(nil)

// fsLoader adapts an fs.FS (typically the embedded web/templates tree) to
// pongo2's loader interface so {% extends %} and {% include %} resolve.
type fsLoader struct {
	fsys fs.FS
}

func (l *fsLoader) Abs(base, name string) string {
	if base == "" {
		return name
	}
	return path.Join(path.Dir(base), name)
}

func (l *fsLoader) Get(p string) (io.Reader, error) {
	f, err := l.fsys.Open(p)
	if err != nil {
		return nil, fmt.Errorf("template %q not found: %w", p, err)
	}
	return f, nil
}

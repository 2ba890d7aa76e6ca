package template

import (
	"fmt"
	"io/fs"

	"github.com/flosch/pongo2/v6"
)

// Engine renders named page templates. Templates are compiled lazily and
// cached by the underlying template set.
type Engine struct {
	set *pongo2.TemplateSet
}

// NewEngine creates an Engine over the given template filesystem.
func NewEngine(fsys fs.FS) *Engine {
	return &Engine{
		set: pongo2.NewSet("pages", &fsLoader{fsys: fsys}),
	}
}

// Render executes the named template with the given context, merged with the
// shared helper functions.
func (e *Engine) Render(name string, ctx pongo2.Context) ([]byte, error) {
	tpl, err := e.set.FromCache(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load template %q: %w", name, err)
	}

	merged := pongo2.Context{
		"toJSON":   toJSONString,
		"jsonPath": func(data, expression string) string { return ExtractJSONPath([]byte(data), expression) },
	}
	merged.Update(ctx)

	out, err := tpl.ExecuteBytes(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to render template %q: %w", name, err)
	}
	return out, nil
}

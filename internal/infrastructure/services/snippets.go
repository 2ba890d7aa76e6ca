package services

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/google/uuid"

	"github.com/sophialabs/inkwell/internal/domain/content"
)

// SnippetCompiler compiles post bodies containing ${ } expressions into
// renderers evaluated per request. Bodies without dynamic segments compile
// to a static renderer.
type SnippetCompiler struct{}

// NewSnippetCompiler creates a compiler.
func NewSnippetCompiler() *SnippetCompiler {
	return &SnippetCompiler{}
}

// Compile parses the source for ${ } delimiters and compiles each expression.
func (c *SnippetCompiler) Compile(name, source string) (content.BodyRenderer, error) {
	segments, err := parseSnippetSegments(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snippets in %q: %w", name, err)
	}

	hasDynamic := false
	for _, seg := range segments {
		if seg.program != nil {
			hasDynamic = true
			break
		}
	}
	if !hasDynamic {
		return &staticRenderer{body: []byte(source)}, nil
	}

	return &snippetRenderer{segments: segments}, nil
}

type snippetSegment struct {
	static  string
	program *vm.Program
}

func parseSnippetSegments(source string) ([]snippetSegment, error) {
	var segments []snippetSegment
	remaining := source

	for {
		idx := strings.Index(remaining, "${")
		if idx < 0 {
			if remaining != "" {
				segments = append(segments, snippetSegment{static: remaining})
			}
			break
		}

		if idx > 0 {
			segments = append(segments, snippetSegment{static: remaining[:idx]})
		}

		rest := remaining[idx+2:]
		closeIdx := findClosingBrace(rest)
		if closeIdx < 0 {
			return nil, fmt.Errorf("unclosed ${ at position %d", idx)
		}

		expression := rest[:closeIdx]
		program, err := expr.Compile(expression, expr.Env(snippetEnv{}))
		if err != nil {
			return nil, fmt.Errorf("failed to compile expression %q: %w", expression, err)
		}
		segments = append(segments, snippetSegment{program: program})
		remaining = rest[closeIdx+1:]
	}

	return segments, nil
}

// findClosingBrace finds the matching } accounting for nested braces and
// string literals.
func findClosingBrace(s string) int {
	depth := 0
	inString := false
	var stringChar byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			if ch == '\\' && i+1 < len(s) {
				i++
				continue
			}
			if ch == stringChar {
				inString = false
			}
			continue
		}
		switch ch {
		case '\'', '"':
			inString = true
			stringChar = ch
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// snippetEnv defines the helpers available to post snippets.
type snippetEnv struct {
	Now       func() string       `expr:"now"`
	NowFormat func(string) string `expr:"nowFormat"`
	UUID      func() string       `expr:"uuid"`
	RandomInt func(int, int) int  `expr:"randomInt"`
	Author    func() string       `expr:"author"`
	SiteTitle func() string       `expr:"siteTitle"`
}

func buildSnippetEnv(ctx content.RenderContext) snippetEnv {
	return snippetEnv{
		Now: func() string {
			return ctx.Now.UTC().Format(time.RFC3339)
		},
		NowFormat: func(layout string) string {
			return ctx.Now.Format(layout)
		},
		UUID: func() string {
			return uuid.NewString()
		},
		RandomInt: func(min, max int) int {
			if min >= max {
				return min
			}
			return min + rand.Intn(max-min+1)
		},
		Author: func() string {
			return ctx.AuthorName
		},
		SiteTitle: func() string {
			return ctx.SiteTitle
		},
	}
}

type snippetRenderer struct {
	segments []snippetSegment
}

func (r *snippetRenderer) Render(ctx content.RenderContext) ([]byte, error) {
	env := buildSnippetEnv(ctx)

	var buf strings.Builder
	for _, seg := range r.segments {
		if seg.program == nil {
			buf.WriteString(seg.static)
			continue
		}
		result, err := expr.Run(seg.program, env)
		if err != nil {
			return nil, fmt.Errorf("snippet evaluation failed: %w", err)
		}
		fmt.Fprintf(&buf, "%v", result)
	}
	return []byte(buf.String()), nil
}

// staticRenderer returns a fixed body (used when no snippets are found).
type staticRenderer struct {
	body []byte
}

func (r *staticRenderer) Render(content.RenderContext) ([]byte, error) {
	return r.body, nil
}
